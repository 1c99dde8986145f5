// Package similarity ranks catalog records against a query interest vector.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/spigell/careerfit/internal/catalog"
	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/trait"
)

const source = "similarity"

// Match is a ranked record with its cosine score.
type Match struct {
	Record catalog.Record `json:"record"`
	Score  float64        `json:"score"`
}

// Cosine returns the cosine similarity of a and b over the shape keys in
// order. A zero-magnitude side yields 0 and degenerate=true.
func Cosine(shape trait.Shape, a, b trait.Vector) (score float64, degenerate bool) {
	var dot, na, nb float64
	for _, k := range shape.Keys {
		x, y := a[k], b[k]
		dot += x * y
		na += x * x
		nb += y * y
	}

	if na == 0 || nb == 0 {
		return 0, true
	}

	score = dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, score)), false
}

// Rank scores every record against query and returns the best limit matches.
// Ties keep input order; limit <= 0 returns every record.
func Rank(query trait.Vector, records []catalog.Record, limit int) ([]Match, []diag.Warning) {
	var warnings []diag.Warning
	if trait.Interest.IsZero(query) && len(records) > 0 {
		warnings = append(warnings, diag.Warning{
			Kind:   diag.DegenerateVector,
			Source: source,
			Detail: "query interest vector has zero magnitude; every record scores 0",
		})
	}

	matches := make([]Match, 0, len(records))
	for _, r := range records {
		score, degenerate := Cosine(trait.Interest, query, r.Interests)
		if degenerate && !trait.Interest.IsZero(query) {
			warnings = append(warnings, diag.Warning{
				Kind:   diag.DegenerateVector,
				Source: source,
				Detail: fmt.Sprintf("record %s has a zero interest vector", r.ID),
			})
		}
		matches = append(matches, Match{Record: r, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}

	return matches, warnings
}
