package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/narrative"
	"github.com/spigell/careerfit/internal/reference"
	"github.com/spigell/careerfit/internal/report"
	"github.com/spigell/careerfit/internal/scoring"
	"github.com/spigell/careerfit/internal/signals"
	"github.com/spigell/careerfit/internal/trait"
)

func testBundle() *signals.Bundle {
	return &signals.Bundle{
		Session:     "s1",
		Personality: scoring.FromMeans("personality", trait.Personality, trait.Vector{"O": 4.5, "C": 2, "E": 2, "A": 2, "N": 2}),
		Interest:    scoring.FromMeans("interest", trait.Interest, trait.Vector{"R": 2, "I": 5, "A": 2, "S": 2, "E": 2, "C": 2}),
	}
}

func testDeps(t *testing.T, logger *zap.Logger) Deps {
	t.Helper()
	ref, err := reference.Default()
	require.NoError(t, err)
	writer, err := narrative.NewWriter(nil, logger, 0, 0, 0)
	require.NoError(t, err)
	return Deps{Logger: logger, Reference: ref, Narrative: writer}
}

type fakeStage struct {
	toggle
	name        string
	validateErr error
	step        Step
	applied     int
}

func (s *fakeStage) Name() string { return s.name }
func (s *fakeStage) Validate(*Config) error { return s.validateErr }
func (s *fakeStage) Apply(context.Context, Deps, *report.Report) (Step, error) {
	s.applied++
	return s.step, nil
}

func TestRunDefaultPipeline(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	stages := Default()
	r := report.New(testBundle())

	require.NoError(t, Run(context.Background(), &Config{Motivators: 3}, testDeps(t, logger), stages, r))

	require.Len(t, r.Stages, len(stages))
	for i, rec := range r.Stages {
		assert.Equal(t, stages[i].Name(), rec.Name)
		assert.True(t, rec.Enabled)
	}

	assert.Equal(t, []string{"I", "R", "A"}, r.TopInterests)
	assert.Len(t, r.Motivators, 3)
	assert.Greater(t, len(r.AllMotivators), 3)
	assert.Len(t, r.Matches, DefaultMatches)
	assert.Equal(t, "onet-28.3", r.CatalogVersion)
	assert.Len(t, r.Clusters, 16)
	require.NotNil(t, r.Archetype)
	require.NotNil(t, r.Narrative)
	assert.Equal(t, narrative.SourceTemplate, r.Narrative.Source)
	assert.Contains(t, r.Narrative.Text, "Investigative")

	assert.Equal(t, len(stages), logs.FilterMessage("stage").Len())

	statuses := Describe(stages)
	assert.Equal(t, "3", statuses[1].Details["top"])
	assert.Equal(t, "10", statuses[2].Details["limit"])
}

func TestRunDisabledStage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	stages := Default()
	assert.True(t, DisableByName(stages, StageNarrative, "disabled in config"))
	assert.False(t, DisableByName(stages, "horoscope", "nope"))

	r := report.New(testBundle())
	require.NoError(t, Run(context.Background(), nil, testDeps(t, zap.New(core)), stages, r))

	assert.Nil(t, r.Narrative)
	last := r.Stages[len(r.Stages)-1]
	assert.Equal(t, report.StageRecord{Name: StageNarrative, Reason: "disabled in config"}, last)

	entries := logs.FilterMessage("stage disabled").All()
	require.Len(t, entries, 1)
	assert.Equal(t, StageNarrative, entries[0].ContextMap()["name"])
}

func TestRunWithoutInterest(t *testing.T) {
	b := testBundle()
	b.Interest = nil
	r := report.New(b)

	require.NoError(t, Run(context.Background(), nil, testDeps(t, zap.NewNop()), Default(), r))

	assert.Empty(t, r.Matches)
	assert.Empty(t, r.TopInterests)
	require.Len(t, r.Clusters, 16)
	for _, c := range r.Clusters {
		assert.Zero(t, c.Score)
	}
}

func TestRunMergesWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := diag.Warning{Kind: diag.DegenerateVector, Source: "test", Detail: "zero"}
	stages := []Stage{
		&fakeStage{name: "a", step: Step{Items: 1, Warnings: []diag.Warning{w}}},
		&fakeStage{name: "b", step: Step{Warnings: []diag.Warning{w}}},
	}
	r := report.New(testBundle())

	require.NoError(t, Run(context.Background(), nil, Deps{Logger: zap.New(core)}, stages, r))

	assert.Equal(t, 1, diag.Count(r.Warnings, diag.DegenerateVector))
	entries := logs.FilterMessage("scoring warning").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ContextMap()["stage"])
}

func TestRunValidatesFirst(t *testing.T) {
	first := &fakeStage{name: "first"}
	broken := &fakeStage{name: "broken", validateErr: errors.New("bad config")}
	skipped := &fakeStage{name: "skipped", validateErr: errors.New("ignored")}
	skipped.Disable("off")

	err := Run(context.Background(), nil, Deps{}, []Stage{first, broken, skipped}, report.New(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: bad config")
	assert.Zero(t, first.applied)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stage := &fakeStage{name: "a"}

	err := Run(ctx, nil, Deps{}, []Stage{stage}, report.New(nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stage.applied)
}

func TestStagesRequireBundle(t *testing.T) {
	err := Run(context.Background(), nil, testDeps(t, zap.NewNop()), Default(), report.New(nil))
	assert.ErrorIs(t, err, errNoBundle)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{StageTraits, StageMotivators, StageMatches, StageClusters, StageArchetype, StageNarrative}, Names())
}
