package motivator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/spigell/careerfit/internal/instrument"
	"github.com/spigell/careerfit/internal/signals"
)

// NotableThreshold is the normalized value above which a term earns a rationale clause.
const NotableThreshold = 0.6

// Compute scores every motivator in the bank for the bundle, merges evidence
// contributions by key and returns the full list sorted by score.
func Compute(b *signals.Bundle) []Result {
	in := NewInputs(b)

	rules := Rules()
	results := make([]Result, 0, len(rules))
	for _, r := range rules {
		results = append(results, Evaluate(r, in))
	}
	results = append(results, contributions(b)...)

	merged := Reduce(results)
	Sort(merged)
	return merged
}

// Inputs are the normalized signals a rule reads.
type Inputs struct {
	bundle *signals.Bundle
	text   string
}

// NewInputs builds the rule input view of a bundle.
func NewInputs(b *signals.Bundle) Inputs {
	keys := make([]string, 0, len(b.Preferences.Text))
	for k := range b.Preferences.Text {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{b.Intake.Text}
	for _, k := range keys {
		parts = append(parts, b.Preferences.Text[k])
	}
	return Inputs{bundle: b, text: cases.Fold().String(strings.Join(parts, " "))}
}

func (in Inputs) value(t Term) (float64, bool) {
	best, found := 0.0, false
	for _, key := range t.Keys {
		var v float64
		var ok bool
		switch t.From {
		case FromPersonality:
			v, ok = in.bundle.Personality.Mean(key)
		case FromInterest:
			v, ok = in.bundle.Interest.Mean(key)
		case FromPreferences:
			v, ok = in.bundle.Preferences.LikertValue(key)
		}
		if !ok {
			continue
		}
		v = instrument.NormalizeLikert(v)
		if !found || v > best {
			best, found = v, true
		}
	}
	return best, found
}

func (in Inputs) mentions(phrases ...string) bool {
	if in.text == "" {
		return false
	}
	folder := cases.Fold()
	for _, p := range phrases {
		if strings.Contains(in.text, folder.String(p)) {
			return true
		}
	}
	return false
}

// Evaluate scores a single rule. A term whose signal is absent contributes
// nothing.
func Evaluate(r Rule, in Inputs) Result {
	var sum float64
	sources := make([]Evidence, 0, len(r.Terms)+1)
	clauses := make([]string, 0, len(r.Terms))

	for _, t := range r.Terms {
		v, ok := in.value(t)
		if !ok {
			continue
		}
		sum += t.Weight * v
		sources = append(sources, Evidence{From: t.From, Signal: fmt.Sprintf("%s %.2f", t.Signal, v)})

		if t.Weight > 0 && v > NotableThreshold && t.Clause != "" {
			clauses = append(clauses, t.Clause)
		}
	}

	raw := sum
	mentioned := len(r.Keywords) > 0 && in.mentions(r.Keywords...)
	if mentioned {
		raw += r.KeywordBonus
		sources = append(sources, Evidence{From: FromIntake, Signal: r.KeywordSignal})
	}

	score := int(math.Round(math.Max(0, math.Min(1, raw)) * 100))

	return Result{
		Key:        r.Key,
		Label:      r.Label,
		Score:      score,
		Confidence: ConfidenceFor(score),
		Rationale:  rationale(r.Label, clauses, mentioned),
		Sources:    sources,
	}
}

func rationale(label string, clauses []string, mentioned bool) string {
	name := strings.ToLower(label)
	switch {
	case len(clauses) == 0 && !mentioned:
		return fmt.Sprintf("No single signal stands out strongly for %s; treat it as a secondary motivator.", name)
	case len(clauses) == 0:
		return fmt.Sprintf("You mentioned %s in your own words.", name)
	}

	text := "Driven by " + joinClauses(clauses) + "."
	if mentioned {
		text += " You also mentioned it in your own words."
	}
	return text
}

func joinClauses(clauses []string) string {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return strings.Join(clauses[:len(clauses)-1], ", ") + " and " + clauses[len(clauses)-1]
}
