// Package archetype infers a team-collaboration role from an ordered rule cascade.
package archetype

import (
	"github.com/spigell/careerfit/internal/signals"
)

type Role string

const (
	Explorer   Role = "explorer"
	Connector  Role = "connector"
	Organizer  Role = "organizer"
	Analyst    Role = "analyst"
	Driver     Role = "driver"
	Harmonizer Role = "harmonizer"
)

type Confidence string

const (
	Mixed  Confidence = "mixed"
	Likely Confidence = "likely"
	High   Confidence = "high"
)

// Bump moves one step up the mixed → likely → high ladder.
func (c Confidence) Bump() Confidence {
	switch c {
	case Mixed:
		return Likely
	default:
		return High
	}
}

// MaxSignals caps the provenance list; the earliest entries are dropped first.
const MaxSignals = 6

// Signal is one piece of provenance.
type Signal struct {
	From   string `json:"from"`
	Signal string `json:"signal"`
}

// Profile is the descriptive content attached to a role.
type Profile struct {
	Role        Role     `json:"role"`
	Label       string   `json:"label"`
	Tagline     string   `json:"tagline"`
	Rationale   string   `json:"rationale"`
	Strengths   []string `json:"strengths"`
	Frictions   []string `json:"frictions"`
	Complements []string `json:"complements"`
	Tips        []string `json:"tips"`
}

// Result is the inferred role with its confidence and provenance.
type Result struct {
	Profile
	Confidence Confidence `json:"confidence"`
	Signals    []Signal   `json:"signals"`
	Fired      []Role     `json:"fired"`
}

// Candidate is what a firing rule proposes.
type Candidate struct {
	Profile Profile
	Signal  Signal
}

// Rule evaluates one trigger condition.
type Rule struct {
	Name string
	Eval func(b *signals.Bundle) (Candidate, bool)
}

// Nudge adds tips and provenance without changing the role or confidence.
type Nudge struct {
	Name string
	Eval func(b *signals.Bundle) (tip string, s Signal, ok bool)
}

// Infer runs Rules then Nudges over the bundle.
func Infer(b *signals.Bundle) Result {
	return Fold(b, Rules(), Nudges())
}

// Fold evaluates rules in order. The last firing rule supplies the
// descriptive content; every firing rule contributes provenance and one
// confidence step.
func Fold(b *signals.Bundle, rules []Rule, nudges []Nudge) Result {
	res := Result{
		Profile:    clone(DefaultProfile()),
		Confidence: Mixed,
		Signals:    []Signal{},
		Fired:      []Role{},
	}

	for _, r := range rules {
		cand, ok := r.Eval(b)
		if !ok {
			continue
		}
		res.Profile = clone(cand.Profile)
		res.Confidence = res.Confidence.Bump()
		res.Signals = append(res.Signals, cand.Signal)
		res.Fired = append(res.Fired, cand.Profile.Role)
	}

	for _, n := range nudges {
		tip, s, ok := n.Eval(b)
		if !ok {
			continue
		}
		res.Tips = append(res.Tips, tip)
		res.Signals = append(res.Signals, s)
	}

	if len(res.Fired) == 0 {
		res.Confidence = Mixed
	}

	if extra := len(res.Signals) - MaxSignals; extra > 0 {
		res.Signals = res.Signals[extra:]
	}

	return res
}

func clone(p Profile) Profile {
	p.Strengths = append([]string{}, p.Strengths...)
	p.Frictions = append([]string{}, p.Frictions...)
	p.Complements = append([]string{}, p.Complements...)
	p.Tips = append([]string{}, p.Tips...)
	return p
}
