package instrument

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/careerfit/internal/trait"
)

// Item is one inventory question with its explicit target dimension.
type Item struct {
	ID        string `yaml:"id" json:"id"`
	Dimension string `yaml:"dimension" json:"dimension"`
	Reverse   bool   `yaml:"reverse,omitempty" json:"reverse,omitempty"`
}

// Bank is the versioned item table of a single instrument.
type Bank struct {
	Instrument string
	Version    string
	Shape      trait.Shape
	Items      []Item

	index map[string]Item
}

// IntegrityError reports inconsistent reference item data.
type IntegrityError struct {
	Instrument string
	ItemID     string
	Reason     string
}

func (e *IntegrityError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("item bank %s: %s", e.Instrument, e.Reason)
	}
	return fmt.Sprintf("item bank %s: item %q: %s", e.Instrument, e.ItemID, e.Reason)
}

// NewBank validates items and builds the lookup table. When idPrefix is set
// every item id must start with the key of the dimension it declares.
func NewBank(instrument, version string, shape trait.Shape, items []Item, idPrefix bool) (*Bank, error) {
	if len(items) == 0 {
		return nil, &IntegrityError{Instrument: instrument, Reason: "no items"}
	}

	index := make(map[string]Item, len(items))
	clean := make([]Item, 0, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			return nil, &IntegrityError{Instrument: instrument, Reason: "item with empty id"}
		}
		if _, dup := index[id]; dup {
			return nil, &IntegrityError{Instrument: instrument, ItemID: id, Reason: "duplicate id"}
		}
		if !shape.Has(it.Dimension) {
			return nil, &IntegrityError{Instrument: instrument, ItemID: id, Reason: fmt.Sprintf("dimension %q is not part of the %s shape", it.Dimension, shape.Name)}
		}
		if it.Reverse && shape.Name != trait.Personality.Name {
			return nil, &IntegrityError{Instrument: instrument, ItemID: id, Reason: "reverse keying is only defined for personality items"}
		}
		if idPrefix {
			if decoded := strings.ToUpper(id[:1]); decoded != it.Dimension {
				return nil, &IntegrityError{Instrument: instrument, ItemID: id, Reason: fmt.Sprintf("id decodes to dimension %q but declares %q", decoded, it.Dimension)}
			}
		}

		it.ID = id
		index[id] = it
		clean = append(clean, it)
	}

	return &Bank{
		Instrument: instrument,
		Version:    version,
		Shape:      shape,
		Items:      clean,
		index:      index,
	}, nil
}

// Lookup returns the item registered under id.
func (b *Bank) Lookup(id string) (Item, bool) {
	it, ok := b.index[strings.TrimSpace(id)]
	return it, ok
}

// Len returns the number of items in the bank.
func (b *Bank) Len() int {
	return len(b.Items)
}

type bankFile struct {
	Version     string `yaml:"version"`
	Instruments map[string]struct {
		Shape    string `yaml:"shape"`
		IDPrefix bool   `yaml:"id-prefix"`
		Items    []Item `yaml:"items"`
	} `yaml:"instruments"`
}

// LoadBanks parses an item bank document holding one or more instruments.
func LoadBanks(r io.Reader) (map[string]*Bank, error) {
	var doc bankFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode item banks: %w", err)
	}

	if len(doc.Instruments) == 0 {
		return nil, fmt.Errorf("item banks document declares no instruments")
	}

	names := make([]string, 0, len(doc.Instruments))
	for name := range doc.Instruments {
		names = append(names, name)
	}
	sort.Strings(names)

	banks := make(map[string]*Bank, len(names))
	for _, name := range names {
		def := doc.Instruments[name]
		shape, err := trait.ShapeByName(def.Shape)
		if err != nil {
			return nil, &IntegrityError{Instrument: name, Reason: err.Error()}
		}
		bank, err := NewBank(name, doc.Version, shape, def.Items, def.IDPrefix)
		if err != nil {
			return nil, err
		}
		banks[name] = bank
	}

	return banks, nil
}
