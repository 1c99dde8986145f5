// Package cluster scores coarse career categories from the candidate's dominant
// interests and stated preferences, and attaches exemplar occupations.
package cluster

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spigell/careerfit/internal/catalog"
	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/fit"
	"github.com/spigell/careerfit/internal/signals"
	"github.com/spigell/careerfit/internal/similarity"
	"github.com/spigell/careerfit/internal/trait"
)

const (
	FocusBase     = 50
	FocusPerMatch = 15
	TopInterests  = 3
	MaxExemplars  = 4

	// PlaceholderID marks the stand-in exemplar of a category without catalog records.
	PlaceholderID = "none"
)

const (
	interestWeight     = 0.85
	personalityWeight  = 0.15
	neuroticismMargin  = 0.5
	personalityDeficit = 2.5
)

type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// TierFor maps a 0..100 score onto the match tier.
func TierFor(score int) Tier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 50:
		return TierMedium
	default:
		return TierLow
	}
}

// Sustainability is how livable the category looks for the candidate's
// interest and temperament profile. It is informative only.
type Sustainability struct {
	Score       int         `json:"score"`
	Level       string      `json:"level"`
	Interest    fit.Result  `json:"interest"`
	Personality *fit.Result `json:"personality,omitempty"`
}

// Result is one scored category.
type Result struct {
	ID             string             `json:"id"`
	Label          string             `json:"label"`
	Description    string             `json:"description"`
	Score          int                `json:"score"`
	Tier           Tier               `json:"tier"`
	Matched        []string           `json:"matched"`
	Bonuses        []Bonus            `json:"bonuses,omitempty"`
	Rationale      string             `json:"rationale"`
	Exemplars      []similarity.Match `json:"exemplars"`
	Sustainability *Sustainability    `json:"sustainability,omitempty"`
}

// Placeholder is the exemplar used when no catalog record matches a category.
func Placeholder() similarity.Match {
	return similarity.Match{
		Record: catalog.Record{
			ID:          PlaceholderID,
			Title:       "No specific examples",
			Description: "The catalog has no occupations filed under this category yet.",
			Interests:   trait.Interest.New(),
		},
	}
}

// Compute scores every category of the taxonomy and returns them sorted by
// score. Ties keep taxonomy order.
func Compute(b *signals.Bundle, cat *catalog.Catalog, tax *Taxonomy) ([]Result, []diag.Warning) {
	top := b.TopInterests(TopInterests)
	query := b.InterestVector()

	var warnings []diag.Warning
	seen := map[diag.Warning]bool{}
	collect := func(ws []diag.Warning) {
		for _, w := range ws {
			if !seen[w] {
				seen[w] = true
				warnings = append(warnings, w)
			}
		}
	}

	results := make([]Result, 0, tax.Len())
	for _, c := range tax.Categories {
		res := Result{
			ID:          c.ID,
			Label:       c.Label,
			Description: c.Description,
			Matched:     intersect(c.Focus, top),
			Bonuses:     []Bonus{},
		}

		score := 0
		if len(res.Matched) > 0 {
			score += FocusBase + FocusPerMatch*len(res.Matched)
		}
		for _, bonus := range c.Bonuses {
			if b.Preferences.Select(bonus.Question) == bonus.Value || b.Preferences.HasChip(bonus.Question, bonus.Value) {
				score += bonus.Points
				res.Bonuses = append(res.Bonuses, bonus)
			}
		}
		res.Score = clampScore(score)
		res.Tier = TierFor(res.Score)
		res.Rationale = rationale(res)

		var ws []diag.Warning
		res.Exemplars, ws = exemplars(query, cat, c.Prefixes)
		collect(ws)

		sus, err := sustainability(b, c)
		if err != nil {
			collect([]diag.Warning{{
				Kind:   diag.PartialCoverage,
				Source: "cluster",
				Detail: fmt.Sprintf("category %s sustainability skipped: %v", c.ID, err),
			}})
		}
		res.Sustainability = sus

		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, warnings
}

func exemplars(query trait.Vector, cat *catalog.Catalog, prefixes []string) ([]similarity.Match, []diag.Warning) {
	if cat == nil {
		return []similarity.Match{Placeholder()}, nil
	}
	records := cat.WithPrefix(prefixes...)
	if len(records) == 0 {
		return []similarity.Match{Placeholder()}, nil
	}
	return similarity.Rank(query, records, MaxExemplars)
}

// sustainability blends an interest fit against the category profile with a
// temperament fit whose neuroticism acts as a ceiling. It returns nil when the
// category carries no interest profile or the interest instrument is absent.
// Only answered dimensions are compared; unanswered ones are skipped.
func sustainability(b *signals.Bundle, c Category) (*Sustainability, error) {
	if len(c.InterestProfile) == 0 || b.Interest == nil {
		return nil, nil
	}

	interestOpts := fit.DefaultOptions()
	interestOpts.Lenient = true
	interestOpts.TraitOrder = trait.Interest.Keys
	interestOpts.Labels = trait.Interest.Labels

	interestFit, err := fit.Compute(b.Interest.Covered(), c.InterestProfile, c.InterestConflicts, interestOpts)
	if err != nil {
		return nil, fmt.Errorf("interest fit: %w", err)
	}

	sus := &Sustainability{Score: interestFit.Score, Interest: interestFit}

	if len(c.PersonalityProfile) > 0 && b.Personality != nil {
		target := trait.Vector{}
		for k, v := range c.PersonalityProfile {
			if k != "N" {
				target[k] = v
			}
		}
		n, ok := c.PersonalityProfile["N"]
		if !ok {
			n = 3
		}
		conflicts := trait.Vector{"N": math.Min(5, n+neuroticismMargin)}

		opts := fit.DefaultOptions()
		opts.DeficitFactor = personalityDeficit
		opts.Lenient = true
		opts.TraitOrder = trait.Personality.Keys
		opts.Labels = trait.Personality.Labels

		personalityFit, err := fit.Compute(b.Personality.Covered(), target, conflicts, opts)
		if err != nil {
			return nil, fmt.Errorf("personality fit: %w", err)
		}
		sus.Personality = &personalityFit
		sus.Score = int(math.Round(float64(interestFit.Score)*interestWeight + float64(personalityFit.Score)*personalityWeight))
	}

	sus.Score = clampScore(sus.Score)
	sus.Level = sustainabilityLevel(sus.Score)
	return sus, nil
}

func sustainabilityLevel(score int) string {
	switch {
	case score >= 80:
		return "safe"
	case score >= 60:
		return "risky"
	default:
		return "unsustainable"
	}
}

func rationale(r Result) string {
	parts := make([]string, 0, 2)
	if len(r.Matched) > 0 {
		names := make([]string, 0, len(r.Matched))
		for _, k := range r.Matched {
			names = append(names, trait.Interest.Label(k))
		}
		parts = append(parts, fmt.Sprintf("Your top interests include %s, which this world rewards.", strings.Join(names, " and ")))
	} else {
		parts = append(parts, "This world rewards interests outside your current top three.")
	}
	if len(r.Bonuses) > 0 {
		values := make([]string, 0, len(r.Bonuses))
		for _, b := range r.Bonuses {
			values = append(values, b.Value)
		}
		parts = append(parts, fmt.Sprintf("Your stated preferences (%s) point here too.", strings.Join(values, ", ")))
	}
	return strings.Join(parts, " ")
}

// intersect returns focus keys present in top, in focus order.
func intersect(focus, top []string) []string {
	out := make([]string, 0, len(focus))
	for _, f := range focus {
		for _, t := range top {
			if f == t {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
