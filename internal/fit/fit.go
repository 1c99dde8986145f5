// Package fit scores how well a candidate vector meets a target profile.
//
// Deficits (candidate below target) and conflicts (candidate above a danger
// threshold) are penalized independently, so exceeding a target never hurts
// unless a conflict threshold says so.
package fit

import (
	"fmt"
	"math"
	"sort"

	"github.com/spigell/careerfit/internal/trait"
)

type Kind string

const (
	KindDeficit  Kind = "deficit"
	KindConflict Kind = "conflict"
)

const (
	DefaultNoiseBand      = 0.5
	DefaultDeficitFactor  = 3.0
	DefaultConflictFactor = 10.0
)

// MissingTraitError is returned in strict mode when the user vector lacks a
// dimension the target or conflicts refer to.
type MissingTraitError struct {
	Dimension string
}

func (e *MissingTraitError) Error() string {
	return fmt.Sprintf("user vector is missing dimension %q", e.Dimension)
}

// Options tune the penalty model. The zero value is not usable directly;
// start from DefaultOptions.
type Options struct {
	NoiseBand      float64
	DeficitFactor  float64
	ConflictFactor float64
	// ConflictLinear switches conflict penalties from excess² to excess.
	ConflictLinear bool
	// Lenient skips missing user dimensions instead of failing.
	Lenient bool
	// TraitOrder fixes iteration order; keys not listed follow in sorted order.
	TraitOrder []string
	// Labels names dimensions in explanations.
	Labels map[string]string
}

// DefaultOptions returns the strict quadratic model.
func DefaultOptions() Options {
	return Options{
		NoiseBand:      DefaultNoiseBand,
		DeficitFactor:  DefaultDeficitFactor,
		ConflictFactor: DefaultConflictFactor,
	}
}

// Penalty is one dimension's contribution to the total penalty.
type Penalty struct {
	Dimension string  `json:"dimension"`
	Penalty   float64 `json:"penalty"`
	Kind      Kind    `json:"kind"`
}

// Result is the 0..100 score with everything needed to explain it.
type Result struct {
	Score        int       `json:"score"`
	Breakdown    []Penalty `json:"breakdown"`
	Explanations []string  `json:"explanations"`
	Warnings     []string  `json:"warnings"`
}

// Compute scores user against target and conflict thresholds.
func Compute(user, target, conflicts trait.Vector, opts Options) (Result, error) {
	res := Result{
		Breakdown:    []Penalty{},
		Explanations: []string{},
		Warnings:     []string{},
	}
	noise := math.Max(0, opts.NoiseBand)
	total := 0.0

	for _, dim := range ordered(target, opts.TraitOrder) {
		u, ok := user[dim]
		if !ok {
			if opts.Lenient {
				continue
			}
			return Result{}, &MissingTraitError{Dimension: dim}
		}

		t := target[dim]
		deficit := math.Max(0, t-u-noise)
		if deficit <= 0 {
			continue
		}

		penalty := deficit * deficit * opts.DeficitFactor * (math.Max(1, t) / 3)
		total += penalty
		res.Breakdown = append(res.Breakdown, Penalty{Dimension: dim, Penalty: penalty, Kind: KindDeficit})
		res.Explanations = append(res.Explanations, fmt.Sprintf("Lower %s than ideal (-%d)", label(opts, dim), int(math.Round(penalty))))
	}

	for _, dim := range ordered(conflicts, opts.TraitOrder) {
		u, ok := user[dim]
		if !ok {
			if opts.Lenient {
				continue
			}
			return Result{}, &MissingTraitError{Dimension: dim}
		}

		excess := math.Max(0, u-conflicts[dim])
		if excess <= 0 {
			continue
		}

		penalty := excess * excess * opts.ConflictFactor
		if opts.ConflictLinear {
			penalty = excess * opts.ConflictFactor
		}
		total += penalty
		res.Breakdown = append(res.Breakdown, Penalty{Dimension: dim, Penalty: penalty, Kind: KindConflict})
		res.Warnings = append(res.Warnings, fmt.Sprintf("High %s may clash here (-%d)", label(opts, dim), int(math.Round(penalty))))
	}

	res.Score = int(math.Round(math.Max(0, math.Min(100, 100-total))))
	return res, nil
}

// Deficits returns the deficit entries sorted by penalty, largest first.
func (r Result) Deficits() []Penalty {
	return r.byKind(KindDeficit)
}

// Conflicts returns the conflict entries sorted by penalty, largest first.
func (r Result) Conflicts() []Penalty {
	return r.byKind(KindConflict)
}

func (r Result) byKind(k Kind) []Penalty {
	out := make([]Penalty, 0, len(r.Breakdown))
	for _, p := range r.Breakdown {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Penalty > out[j].Penalty })
	return out
}

func ordered(v trait.Vector, order []string) []string {
	keys := make([]string, 0, len(v))
	seen := make(map[string]bool, len(v))
	for _, k := range order {
		if _, ok := v[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}

	rest := make([]string, 0, len(v))
	for k := range v {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	return append(keys, rest...)
}

func label(opts Options, dim string) string {
	if l, ok := opts.Labels[dim]; ok && l != "" {
		return l
	}
	return dim
}
