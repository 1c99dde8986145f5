// Package reference loads the static data every scoring request reads: the
// occupation catalog, item banks, the preference bank and the cluster
// taxonomy. Data is loaded once and never mutated afterwards.
package reference

import (
	"embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spigell/careerfit/internal/catalog"
	"github.com/spigell/careerfit/internal/cluster"
	"github.com/spigell/careerfit/internal/instrument"
)

const (
	PersonalityBank = "personality"
	InterestBank    = "interest"
)

//go:embed data/*.yaml
var embedded embed.FS

// Paths override the embedded documents. Empty entries keep the embedded copy.
type Paths struct {
	Catalog     string `mapstructure:"catalog"`
	Items       string `mapstructure:"items"`
	Preferences string `mapstructure:"preferences"`
	Clusters    string `mapstructure:"clusters"`
}

// Set is the immutable reference data of a process.
type Set struct {
	Catalog     *catalog.Catalog
	Banks       map[string]*instrument.Bank
	Preferences *instrument.PreferenceBank
	Clusters    *cluster.Taxonomy
}

// Bank returns the item bank registered under name.
func (s *Set) Bank(name string) (*instrument.Bank, bool) {
	b, ok := s.Banks[name]
	return b, ok
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
	defaultErr  error
)

// Default returns the embedded reference data, parsed on first use.
func Default() (*Set, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Load(Paths{})
	})
	return defaultSet, defaultErr
}

// Load reads every document, preferring the paths in p over the embedded copies.
func Load(p Paths) (*Set, error) {
	set := &Set{}

	err := withDocument(p.Catalog, "data/catalog.yaml", func(r io.Reader) error {
		c, err := catalog.Load(r)
		set.Catalog = c
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	err = withDocument(p.Items, "data/items.yaml", func(r io.Reader) error {
		banks, err := instrument.LoadBanks(r)
		set.Banks = banks
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load item banks: %w", err)
	}
	for _, name := range []string{PersonalityBank, InterestBank} {
		if _, ok := set.Banks[name]; !ok {
			return nil, &instrument.IntegrityError{Instrument: name, Reason: "bank is not declared"}
		}
	}

	err = withDocument(p.Preferences, "data/preferences.yaml", func(r io.Reader) error {
		bank, err := instrument.LoadPreferences(r)
		set.Preferences = bank
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load preference bank: %w", err)
	}

	err = withDocument(p.Clusters, "data/clusters.yaml", func(r io.Reader) error {
		tax, err := cluster.LoadTaxonomy(r)
		set.Clusters = tax
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load cluster taxonomy: %w", err)
	}

	return set, nil
}

func withDocument(path, fallback string, fn func(io.Reader) error) error {
	var (
		f   io.ReadCloser
		err error
	)
	if path != "" {
		f, err = os.Open(path)
	} else {
		f, err = embedded.Open(fallback)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	return fn(f)
}
