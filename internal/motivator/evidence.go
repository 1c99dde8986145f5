package motivator

import (
	"fmt"
	"math"

	"github.com/spigell/careerfit/internal/instrument"
	"github.com/spigell/careerfit/internal/signals"
)

const (
	highTraitMean = 3.6
	lowTraitMean  = 2.4
	highLikert    = 4.0
)

func labels() map[Key]string {
	out := make(map[Key]string)
	for _, r := range Rules() {
		out[r.Key] = r.Label
	}
	return out
}

// contributions turns threshold evidence into per-key results that are
// merged with the weighted scores. Each carries the strength of the signal
// that triggered it as its score.
func contributions(b *signals.Bundle) []Result {
	names := labels()
	out := make([]Result, 0)

	add := func(key Key, strength float64, from, signal, rationale string) {
		score := int(math.Round(math.Max(0, math.Min(1, strength)) * 100))
		out = append(out, Result{
			Key:        key,
			Label:      names[key],
			Score:      score,
			Confidence: ConfidenceFor(score),
			Rationale:  rationale,
			Sources:    []Evidence{{From: from, Signal: signal}},
		})
	}

	likertHigh := func(key string) (float64, bool) {
		v, ok := b.Preferences.LikertValue(key)
		return instrument.NormalizeLikert(v), ok && v >= highLikert
	}

	if s, ok := likertHigh("impact"); ok {
		add(Impact, s, FromPreferences, "impact: High", "You care about seeing tangible outcomes that matter to people.")
	}
	if s, ok := likertHigh("flexibility"); ok {
		add(Autonomy, s, FromPreferences, "flexibility: High", "You value independence and ownership of how your work gets done.")
	}
	if s, ok := likertHigh("job_security"); ok {
		add(Stability, s, FromPreferences, "job security: High", "You prefer predictable environments with clear guardrails.")
	}
	income, incomeHigh := likertHigh("income")
	lead, leadHigh := likertHigh("leadership")
	if incomeHigh || leadHigh {
		add(Recognition, math.Max(income, lead), FromPreferences,
			fmt.Sprintf("income: %s / leadership: %s", likertLevel(b, "income"), likertLevel(b, "leadership")),
			"Status, visible outcomes or high-leverage paths motivate you.")
	}
	founder, founderHigh := likertHigh("entrepreneurial_drive")
	if leadHigh || founderHigh {
		add(Autonomy, math.Max(lead, founder), FromPreferences,
			fmt.Sprintf("leadership: %s / entrepreneurial drive: %s", likertLevel(b, "leadership"), likertLevel(b, "entrepreneurial_drive")),
			"You like taking the lead and owning outcomes.")
	}
	if s, ok := likertHigh("social_interaction"); ok {
		add(Service, s, FromPreferences, "social interaction: High", "People-facing work and mentoring likely feel meaningful.")
	}

	if top := b.TopInterests(1); len(top) == 1 {
		key := top[0]
		s := instrument.NormalizeLikert(b.InterestMean(key))
		signal := key + " high"
		switch key {
		case "I":
			add(Mastery, s, FromInterest, signal, "Deep understanding and improving your craft energize you.")
		case "A":
			add(Creativity, s, FromInterest, signal, "Originality and expressive work fuel you.")
		case "S":
			add(Service, s, FromInterest, signal, "Helping others grow is a natural fit.")
		case "E":
			add(Recognition, s, FromInterest, signal, "Influence, momentum and visible outcomes energize you.")
			add(Autonomy, s, FromInterest, signal, "You like taking the lead and owning outcomes.")
		case "R":
			add(Variety, s, FromInterest, signal, "Hands-on challenge and tangible work keep you engaged.")
			add(Structure, s, FromInterest, signal, "Clear procedures and good tools help you move fast.")
		case "C":
			add(Structure, s, FromInterest, signal, "You thrive with clarity and dependable systems.")
			add(Stability, s, FromInterest, signal, "Predictable environments help you deliver consistently.")
		}
	}

	if b.Personality == nil {
		return out
	}

	mean := func(key string) (float64, string) {
		v := b.PersonalityMean(key)
		return v, fmt.Sprintf("%s mean %.2f", key, v)
	}

	if v, sig := mean("O"); v >= highTraitMean {
		add(Creativity, instrument.NormalizeLikert(v), FromPersonality, sig, "You enjoy novel ideas, so creative work feels meaningful.")
		add(Variety, instrument.NormalizeLikert(v), FromPersonality, sig, "Challenge and new domains sustain your motivation.")
	}
	if v, sig := mean("C"); v >= highTraitMean {
		add(Mastery, instrument.NormalizeLikert(v), FromPersonality, sig, "You take pride in doing things well and improving over time.")
		add(Structure, instrument.NormalizeLikert(v), FromPersonality, sig, "Clear plans and standards help you perform at your best.")
	}
	if v, sig := mean("E"); v >= highTraitMean {
		add(Recognition, instrument.NormalizeLikert(v), FromPersonality, sig, "People, momentum and visible outcomes energize you.")
	}
	if v, sig := mean("A"); v >= highTraitMean {
		add(Service, instrument.NormalizeLikert(v), FromPersonality, sig, "Collaboration and mentoring likely feel meaningful.")
	}
	if v, sig := mean("N"); v > 0 && v <= lowTraitMean {
		add(Variety, 1-instrument.NormalizeLikert(v), FromPersonality, sig, "You tolerate ambiguity and change easily, which makes variety exciting.")
	} else if v >= highTraitMean {
		add(Stability, instrument.NormalizeLikert(v), FromPersonality, sig, "Clear expectations and healthy pacing help you sustain energy.")
	}

	return out
}

func likertLevel(b *signals.Bundle, key string) string {
	v, ok := b.Preferences.LikertValue(key)
	switch {
	case !ok:
		return "n/a"
	case v <= 2:
		return "Low"
	case v < highLikert:
		return "Medium"
	default:
		return "High"
	}
}
