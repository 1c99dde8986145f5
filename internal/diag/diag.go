// Package diag collects non-fatal scoring warnings.
package diag

import (
	"go.uber.org/zap"
)

type Kind string

const (
	// OutOfRange marks a raw answer clamped into its declared domain.
	OutOfRange Kind = "out_of_range"
	// DegenerateVector marks a zero-magnitude vector in a similarity computation.
	DegenerateVector Kind = "degenerate_vector"
	// PartialCoverage marks a dimension with no answered items.
	PartialCoverage Kind = "partial_coverage"
	// UnknownItem marks an answer for an item id missing from the bank.
	UnknownItem Kind = "unknown_item"
	// MissingSection marks an answer store section that could not be used.
	MissingSection Kind = "missing_section"
)

// Warning is a recovered problem with the value that was used instead.
type Warning struct {
	Kind   Kind   `json:"kind"`
	Source string `json:"source"`
	Detail string `json:"detail"`
}

// Fields renders the warning as zap fields.
func (w Warning) Fields() []zap.Field {
	return []zap.Field{
		zap.String("kind", string(w.Kind)),
		zap.String("source", w.Source),
		zap.String("detail", w.Detail),
	}
}

// Log writes every warning at warn level.
func Log(logger *zap.Logger, warnings []Warning) {
	if logger == nil {
		return
	}
	for _, w := range warnings {
		logger.Warn("scoring warning", w.Fields()...)
	}
}

// Count returns how many warnings are of kind k.
func Count(warnings []Warning, k Kind) int {
	n := 0
	for _, w := range warnings {
		if w.Kind == k {
			n++
		}
	}
	return n
}
