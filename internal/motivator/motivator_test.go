package motivator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/careerfit/internal/instrument"
	"github.com/spigell/careerfit/internal/scoring"
	"github.com/spigell/careerfit/internal/signals"
	"github.com/spigell/careerfit/internal/trait"
)

func find(t *testing.T, results []Result, key Key) Result {
	t.Helper()
	for _, r := range results {
		if r.Key == key {
			return r
		}
	}
	t.Fatalf("motivator %s not found", key)
	return Result{}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		score int
		want  Confidence
	}{
		{0, Low},
		{50, Low},
		{51, Medium},
		{75, Medium},
		{76, High},
		{80, High},
		{100, High},
	}

	for _, tt := range tests {
		for range 3 {
			assert.Equal(t, tt.want, ConfidenceFor(tt.score), "score %d", tt.score)
		}
	}
}

func TestComputeHighOpenness(t *testing.T) {
	b := &signals.Bundle{
		Personality: scoring.FromMeans("personality", trait.Personality,
			trait.Vector{"O": 4.5, "C": 2, "E": 2, "A": 2, "N": 2}),
	}

	results := Compute(b)
	require.Len(t, results, len(Rules()))

	top := Top(results, 3)
	found := false
	for _, r := range top {
		if r.Key == Creativity || r.Key == Mastery {
			found = true
			assert.Contains(t, []Confidence{Medium, High}, r.Confidence)
		}
	}
	assert.True(t, found, "creativity or mastery should be in the top 3: %+v", top)

	creativity := find(t, results, Creativity)
	assert.Equal(t, 88, creativity.Score)
	assert.Equal(t, High, creativity.Confidence)
	assert.Contains(t, creativity.Sources, Evidence{From: FromPersonality, Signal: "O mean 4.50"})

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0)
		assert.LessOrEqual(t, r.Score, 100)
		assert.Equal(t, ConfidenceFor(r.Score), r.Confidence, r.Key)
	}
}

func TestComputeEmptyBundle(t *testing.T) {
	results := Compute(&signals.Bundle{})

	require.Len(t, results, len(Rules()))
	for _, r := range results {
		assert.Zero(t, r.Score, r.Key)
		assert.Equal(t, Low, r.Confidence)
		assert.Contains(t, r.Rationale, "No single signal stands out")
	}
}

func TestComputeKeywordBonus(t *testing.T) {
	b := &signals.Bundle{Intake: signals.Intake{Text: "I would love to MENTOR junior people"}}

	service := find(t, Compute(b), Service)
	assert.Equal(t, 20, service.Score)
	assert.Equal(t, []Evidence{{From: FromIntake, Signal: "mentions service/mentoring"}}, service.Sources)
	assert.Equal(t, "You mentioned service & mentorship in your own words.", service.Rationale)
}

func TestComputeStatedPreference(t *testing.T) {
	b := &signals.Bundle{
		Preferences: instrument.Preferences{Likert: map[string]float64{"impact": 5}},
	}

	impact := find(t, Compute(b), Impact)
	assert.Equal(t, 100, impact.Score)
	assert.Equal(t, High, impact.Confidence)
	assert.Contains(t, impact.Sources, Evidence{From: FromPreferences, Signal: "impact: High"})
}

func TestEvaluateAbsentInstrumentAddsNothing(t *testing.T) {
	financial := func(results []Result) Result { return find(t, results, Financial) }

	statedOnly := &signals.Bundle{
		Preferences: instrument.Preferences{Likert: map[string]float64{"income": 5}},
	}
	answered := &signals.Bundle{
		Preferences: instrument.Preferences{Likert: map[string]float64{"income": 5}},
		Interest:    scoring.FromMeans("interest", trait.Interest, trait.Vector{"E": 1}),
		Personality: scoring.FromMeans("personality", trait.Personality, trait.Vector{"C": 1}),
	}

	partial := financial(Compute(statedOnly))
	full := financial(Compute(answered))

	assert.Equal(t, 45, partial.Score)
	assert.Equal(t, Low, partial.Confidence)
	assert.Equal(t, 45, full.Score)
	assert.LessOrEqual(t, partial.Score, full.Score)
	assert.Len(t, partial.Sources, 1)
}

func TestMerge(t *testing.T) {
	existing := Result{
		Key: Mastery, Label: "Mastery & Growth", Score: 40, Confidence: Low,
		Rationale: "first.",
		Sources:   []Evidence{{From: FromPersonality, Signal: "C"}},
	}
	incoming := Result{
		Key: Mastery, Score: 70, Confidence: Medium,
		Rationale: "second.",
		Sources:   []Evidence{{From: FromPersonality, Signal: "C"}, {From: FromInterest, Signal: "I high"}},
	}

	merged := Merge(existing, incoming)
	assert.Equal(t, 70, merged.Score)
	assert.Equal(t, Medium, merged.Confidence)
	assert.Equal(t, "Mastery & Growth", merged.Label)
	assert.Equal(t, "first. second.", merged.Rationale)
	assert.Len(t, merged.Sources, 2)
	assert.Len(t, existing.Sources, 1)

	again := Merge(merged, incoming)
	assert.Equal(t, "first. second.", again.Rationale)
}

func TestMergeNeverLowersConfidence(t *testing.T) {
	merged := Merge(
		Result{Key: Stability, Score: 80, Confidence: High},
		Result{Key: Stability, Score: 30, Confidence: Low},
	)
	assert.Equal(t, 80, merged.Score)
	assert.Equal(t, High, merged.Confidence)
}

func TestReduceKeepsFirstAppearance(t *testing.T) {
	out := Reduce([]Result{
		{Key: Variety, Score: 10},
		{Key: Impact, Score: 60},
		{Key: Variety, Score: 90},
	})

	require.Len(t, out, 2)
	assert.Equal(t, Variety, out[0].Key)
	assert.Equal(t, 90, out[0].Score)

	Sort(out)
	assert.Equal(t, Variety, out[0].Key)
}

func TestTop(t *testing.T) {
	results := []Result{{Key: Impact}, {Key: Variety}, {Key: Service}}

	assert.Len(t, Top(results, 2), 2)
	assert.Len(t, Top(results, 0), 3)
	assert.Len(t, Top(results, 10), 3)
}
