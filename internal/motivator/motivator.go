// Package motivator scores named work-value drivers from trait and preference signals.
package motivator

import (
	"sort"
	"strings"
)

type Key string

const (
	Mastery       Key = "mastery"
	Autonomy      Key = "autonomy"
	Impact        Key = "impact"
	Creativity    Key = "creativity"
	Recognition   Key = "recognition"
	Stability     Key = "stability"
	Belonging     Key = "belonging"
	Service       Key = "service"
	Variety       Key = "variety"
	Structure     Key = "structure"
	Leadership    Key = "leadership"
	Financial     Key = "financial"
	Learning      Key = "learning"
	Risk          Key = "risk"
	Collaboration Key = "collaboration"
	Harmony       Key = "harmony"
)

// DefaultTop is the presentation cap for ranked motivators.
const DefaultTop = 5

type Confidence string

const (
	Low    Confidence = "low"
	Medium Confidence = "medium"
	High   Confidence = "high"
)

func (c Confidence) rank() int {
	switch c {
	case High:
		return 2
	case Medium:
		return 1
	default:
		return 0
	}
}

// ConfidenceFor derives the tier from a 0..100 score.
func ConfidenceFor(score int) Confidence {
	switch {
	case score > 75:
		return High
	case score > 50:
		return Medium
	default:
		return Low
	}
}

// Evidence names one observed signal behind a score.
type Evidence struct {
	From   string `json:"from"`
	Signal string `json:"signal"`
}

// Result is one scored motivator.
type Result struct {
	Key        Key        `json:"key"`
	Label      string     `json:"label"`
	Score      int        `json:"score"`
	Confidence Confidence `json:"confidence"`
	Rationale  string     `json:"rationale"`
	Sources    []Evidence `json:"sources"`
}

// Merge folds incoming into existing for the same key. Provenance is
// deduplicated, the higher score wins and confidence never drops.
func Merge(existing, incoming Result) Result {
	merged := existing
	if merged.Label == "" {
		merged.Label = incoming.Label
	}

	merged.Sources = make([]Evidence, 0, len(existing.Sources)+len(incoming.Sources))
	seen := make(map[Evidence]bool, cap(merged.Sources))
	for _, src := range append(append([]Evidence{}, existing.Sources...), incoming.Sources...) {
		if seen[src] {
			continue
		}
		seen[src] = true
		merged.Sources = append(merged.Sources, src)
	}

	if incoming.Score > merged.Score {
		merged.Score = incoming.Score
	}

	merged.Confidence = existing.Confidence
	for _, c := range []Confidence{incoming.Confidence, ConfidenceFor(merged.Score)} {
		if c.rank() > merged.Confidence.rank() {
			merged.Confidence = c
		}
	}

	switch {
	case incoming.Rationale == "" || strings.Contains(existing.Rationale, incoming.Rationale):
	case existing.Rationale == "":
		merged.Rationale = incoming.Rationale
	default:
		merged.Rationale = existing.Rationale + " " + incoming.Rationale
	}

	return merged
}

// Reduce merges results by key. Output keeps the order in which each key first appeared.
func Reduce(results []Result) []Result {
	index := make(map[Key]int, len(results))
	out := make([]Result, 0, len(results))

	for _, r := range results {
		if i, ok := index[r.Key]; ok {
			out[i] = Merge(out[i], r)
			continue
		}
		index[r.Key] = len(out)
		r.Sources = append([]Evidence{}, r.Sources...)
		out = append(out, r)
	}

	return out
}

// Sort orders results by score descending. Equal scores keep their order.
func Sort(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// Top returns at most n results from an already sorted list.
func Top(results []Result, n int) []Result {
	if n <= 0 || n >= len(results) {
		return results
	}
	return results[:n]
}
