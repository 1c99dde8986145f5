// Package scoring aggregates normalized item values into per-dimension trait means.
package scoring

import (
	"fmt"

	"github.com/spigell/careerfit/internal/instrument"
	"github.com/spigell/careerfit/internal/trait"
)

// InsufficientDataError is returned when an instrument has no answered items at all.
type InsufficientDataError struct {
	Instrument string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("instrument %s has no answered items", e.Instrument)
}

// Scores are the per-dimension means (1..5) and how many items produced them.
type Scores struct {
	Instrument string          `json:"instrument"`
	Shape      trait.Shape     `json:"-"`
	Means      trait.Vector    `json:"means"`
	Counts     map[string]int  `json:"counts"`
	Partial    map[string]bool `json:"partial,omitempty"`
}

// Score computes dimension means from normalized items. Dimensions without
// answers keep a mean of 0 and are flagged partial.
func Score(n instrument.Normalized) (*Scores, error) {
	if n.Answered() == 0 {
		return nil, &InsufficientDataError{Instrument: n.Instrument}
	}

	s := &Scores{
		Instrument: n.Instrument,
		Shape:      n.Shape,
		Means:      n.Shape.New(),
		Counts:     make(map[string]int, len(n.Shape.Keys)),
		Partial:    make(map[string]bool),
	}

	for _, key := range n.Shape.Keys {
		vals := n.Values[key]
		s.Counts[key] = len(vals)
		if len(vals) == 0 {
			s.Partial[key] = true
			continue
		}
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		s.Means[key] = sum / float64(len(vals))
	}

	return s, nil
}

// Normalized returns the means rescaled onto [0,1]. Uncovered dimensions stay 0.
func (s *Scores) Normalized() trait.Vector {
	v := s.Shape.New()
	for _, key := range s.Shape.Keys {
		if s.Counts[key] == 0 {
			continue
		}
		v[key] = instrument.NormalizeLikert(s.Means[key])
	}
	return v
}

// Mean returns the mean for key and whether any item contributed to it.
func (s *Scores) Mean(key string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	return s.Means[key], s.Counts[key] > 0
}

// Top returns up to n of the highest scoring answered dimensions. Dimensions
// without a single contributing item never rank. A negative n returns all of
// them.
func (s *Scores) Top(n int) []string {
	if s == nil {
		return nil
	}
	ranked := s.Shape.Top(s.Means, -1)
	out := make([]string, 0, len(ranked))
	for _, key := range ranked {
		if n >= 0 && len(out) == n {
			break
		}
		if s.Counts[key] > 0 {
			out = append(out, key)
		}
	}
	return out
}

// Covered returns the means of answered dimensions only.
func (s *Scores) Covered() trait.Vector {
	out := trait.Vector{}
	if s == nil {
		return out
	}
	for key, c := range s.Counts {
		if c > 0 {
			out[key] = s.Means[key]
		}
	}
	return out
}

// Answered returns the total number of contributing items.
func (s *Scores) Answered() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

// FromMeans builds scores from already aggregated means, counting one item per
// provided dimension. Keys outside the shape are ignored.
func FromMeans(instrumentName string, shape trait.Shape, means trait.Vector) *Scores {
	s := &Scores{
		Instrument: instrumentName,
		Shape:      shape,
		Means:      shape.New(),
		Counts:     make(map[string]int, len(shape.Keys)),
		Partial:    make(map[string]bool),
	}
	for _, key := range shape.Keys {
		v, ok := means[key]
		if !ok {
			s.Partial[key] = true
			continue
		}
		s.Means[key] = v
		s.Counts[key] = 1
	}
	return s
}
