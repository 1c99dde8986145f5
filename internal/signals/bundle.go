// Package signals assembles the per-candidate signal bundle from the answer store.
package signals

import (
	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/instrument"
	"github.com/spigell/careerfit/internal/scoring"
	"github.com/spigell/careerfit/internal/trait"
)

// Bundle is every available signal for one candidate session. It is built
// once per request and not modified afterwards. A nil trait section means the
// instrument is absent.
type Bundle struct {
	Session     string                 `json:"session"`
	Personality *scoring.Scores        `json:"personality,omitempty"`
	Interest    *scoring.Scores        `json:"interest,omitempty"`
	Preferences instrument.Preferences `json:"preferences"`
	Intake      Intake                 `json:"intake"`
	Warnings    []diag.Warning         `json:"warnings,omitempty"`
}

// Intake is the free-text part of the intake questionnaire.
type Intake struct {
	Text   string            `json:"text,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// PersonalityMean returns the 1..5 mean for key, or 0 when absent.
func (b *Bundle) PersonalityMean(key string) float64 {
	v, _ := b.Personality.Mean(key)
	return v
}

// InterestMean returns the 1..5 mean for key, or 0 when absent.
func (b *Bundle) InterestMean(key string) float64 {
	v, _ := b.Interest.Mean(key)
	return v
}

// TopInterests returns the n strongest interest dimensions, or nil when the
// interest instrument is absent.
func (b *Bundle) TopInterests(n int) []string {
	return b.Interest.Top(n)
}

// InterestVector returns the full 1..5 interest vector (zeros when absent).
func (b *Bundle) InterestVector() trait.Vector {
	if b.Interest == nil {
		return trait.Interest.New()
	}
	return trait.Interest.Complete(b.Interest.Means)
}

