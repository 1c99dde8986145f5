// Package trait defines the fixed-dimension vectors shared by every scoring component.
package trait

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Vector maps dimension keys to scores. Vectors produced by a Shape always
// carry every key of that shape.
type Vector map[string]float64

// Shape describes the key set of one instrument family.
type Shape struct {
	Name   string
	Keys   []string
	Labels map[string]string
}

var (
	// Personality is the Big-Five style shape, means on a 1..5 scale.
	Personality = Shape{
		Name: "personality",
		Keys: []string{"O", "C", "E", "A", "N"},
		Labels: map[string]string{
			"O": "Openness",
			"C": "Conscientiousness",
			"E": "Extraversion",
			"A": "Agreeableness",
			"N": "Neuroticism",
		},
	}

	// Interest is the Holland/RIASEC shape.
	Interest = Shape{
		Name: "interest",
		Keys: []string{"R", "I", "A", "S", "E", "C"},
		Labels: map[string]string{
			"R": "Realistic",
			"I": "Investigative",
			"A": "Artistic",
			"S": "Social",
			"E": "Enterprising",
			"C": "Conventional",
		},
	}
)

// ShapeByName returns the shape registered under name.
func ShapeByName(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Personality.Name, "big5":
		return Personality, nil
	case Interest.Name, "riasec":
		return Interest, nil
	default:
		return Shape{}, fmt.Errorf("unknown trait shape %q", name)
	}
}

// Has reports whether key belongs to the shape.
func (s Shape) Has(key string) bool {
	for _, k := range s.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Label returns the human readable name of key, or the key itself.
func (s Shape) Label(key string) string {
	if label, ok := s.Labels[key]; ok {
		return label
	}
	return key
}

// New returns a vector with every key set to 0.
func (s Shape) New() Vector {
	v := make(Vector, len(s.Keys))
	for _, k := range s.Keys {
		v[k] = 0
	}
	return v
}

// Complete copies v into a full vector of the shape. Missing keys default to
// 0 and keys outside the shape are dropped.
func (s Shape) Complete(v Vector) Vector {
	out := s.New()
	for _, k := range s.Keys {
		if val, ok := v[k]; ok {
			out[k] = val
		}
	}
	return out
}

// Values returns the vector components in shape key order.
func (s Shape) Values(v Vector) []float64 {
	out := make([]float64, len(s.Keys))
	for i, k := range s.Keys {
		out[i] = v[k]
	}
	return out
}

// Top returns the n highest scoring keys. Ties keep shape key order.
func (s Shape) Top(v Vector, n int) []string {
	keys := make([]string, len(s.Keys))
	copy(keys, s.Keys)

	sort.SliceStable(keys, func(i, j int) bool {
		return v[keys[i]] > v[keys[j]]
	})

	if n < 0 || n > len(keys) {
		n = len(keys)
	}
	return keys[:n]
}

// IsZero reports whether every component of v over the shape is 0.
func (s Shape) IsZero(v Vector) bool {
	for _, k := range s.Keys {
		if v[k] != 0 {
			return false
		}
	}
	return true
}

// Parse reads "R=2,I=5" style pairs into a vector. Keys are upper-cased.
func Parse(raw string) (Vector, error) {
	v := Vector{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return v, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q, expected KEY=VALUE", pair)
		}

		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			return nil, fmt.Errorf("empty key in pair %q", pair)
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		v[key] = f
	}

	return v, nil
}
