package cluster

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/careerfit/internal/trait"
)

// Bonus is one row of the preference lookup table: when the preference key
// answers Value (a select option or a picked chip) the category gains Points.
type Bonus struct {
	Question string `yaml:"question" json:"question"`
	Value    string `yaml:"value" json:"value"`
	Points   int    `yaml:"points" json:"points"`
}

// Category is one coarse world of work.
type Category struct {
	ID          string   `yaml:"id"`
	Label       string   `yaml:"label"`
	Description string   `yaml:"description"`
	Focus       []string `yaml:"focus"`
	Prefixes    []string `yaml:"prefixes"`
	Bonuses     []Bonus  `yaml:"bonuses,omitempty"`

	InterestProfile    trait.Vector `yaml:"interest-profile,omitempty"`
	PersonalityProfile trait.Vector `yaml:"personality-profile,omitempty"`
	InterestConflicts  trait.Vector `yaml:"interest-conflicts,omitempty"`
}

// Taxonomy is the ordered category list. Order breaks score ties.
type Taxonomy struct {
	Version    string
	Categories []Category
}

// NewTaxonomy validates categories against the trait shapes.
func NewTaxonomy(version string, categories []Category) (*Taxonomy, error) {
	seen := make(map[string]bool, len(categories))

	for i := range categories {
		c := &categories[i]
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("category %d has empty id", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("category %q is duplicated", c.ID)
		}
		seen[c.ID] = true

		if len(c.Focus) == 0 {
			return nil, fmt.Errorf("category %q has no focus dimensions", c.ID)
		}
		for _, f := range c.Focus {
			if !trait.Interest.Has(f) {
				return nil, fmt.Errorf("category %q: unknown focus %q", c.ID, f)
			}
		}
		if err := checkKeys(c.ID, trait.Interest, c.InterestProfile); err != nil {
			return nil, err
		}
		if err := checkKeys(c.ID, trait.Interest, c.InterestConflicts); err != nil {
			return nil, err
		}
		if err := checkKeys(c.ID, trait.Personality, c.PersonalityProfile); err != nil {
			return nil, err
		}
		for _, b := range c.Bonuses {
			if b.Question == "" || b.Value == "" {
				return nil, fmt.Errorf("category %q has an incomplete bonus row", c.ID)
			}
		}
	}

	return &Taxonomy{Version: version, Categories: categories}, nil
}

func checkKeys(id string, shape trait.Shape, v trait.Vector) error {
	for k := range v {
		if !shape.Has(k) {
			return fmt.Errorf("category %q: unknown %s key %q", id, shape.Name, k)
		}
	}
	return nil
}

// LoadTaxonomy parses a taxonomy document.
func LoadTaxonomy(r io.Reader) (*Taxonomy, error) {
	var doc struct {
		Version    string     `yaml:"version"`
		Categories []Category `yaml:"categories"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode cluster taxonomy: %w", err)
	}
	return NewTaxonomy(doc.Version, doc.Categories)
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.Categories)
}
