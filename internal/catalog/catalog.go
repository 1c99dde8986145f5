// Package catalog holds the read-only occupation records used for matching.
package catalog

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/careerfit/internal/trait"
)

// Record is one occupation with its interest profile. Interest values may use
// any non-negative domain; only their direction matters for matching.
type Record struct {
	ID          string       `yaml:"id" json:"id"`
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description" json:"description,omitempty"`
	Interests   trait.Vector `yaml:"interests" json:"interests"`
}

// Catalog is an immutable, ordered record list. It is safe for concurrent reads.
type Catalog struct {
	version string
	records []Record
}

// New copies records into a catalog, completing every interest vector.
func New(version string, records []Record) (*Catalog, error) {
	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))

	for i, r := range records {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return nil, fmt.Errorf("catalog record %d has empty id", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("catalog record %q is duplicated", r.ID)
		}
		for key, val := range r.Interests {
			if !trait.Interest.Has(key) {
				return nil, fmt.Errorf("catalog record %q: unknown interest key %q", r.ID, key)
			}
			if val < 0 {
				return nil, fmt.Errorf("catalog record %q: negative %s interest", r.ID, key)
			}
		}
		seen[r.ID] = true
		r.Interests = trait.Interest.Complete(r.Interests)
		out = append(out, r)
	}

	return &Catalog{version: version, records: out}, nil
}

// Load parses a catalog document (YAML or JSON).
func Load(r io.Reader) (*Catalog, error) {
	var doc struct {
		Version string   `yaml:"version"`
		Records []Record `yaml:"records"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Version, doc.Records)
}

func (c *Catalog) Version() string {
	return c.version
}

func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns a copy of the record slice in catalog order. The interest
// vectors are shared and must be treated as read-only.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Get returns the record with id.
func (c *Catalog) Get(id string) (Record, bool) {
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// WithPrefix returns records whose id starts with any of prefixes, in catalog order.
func (c *Catalog) WithPrefix(prefixes ...string) []Record {
	out := make([]Record, 0)
	for _, r := range c.records {
		for _, p := range prefixes {
			if p != "" && strings.HasPrefix(r.ID, p) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
