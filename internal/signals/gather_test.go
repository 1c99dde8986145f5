package signals_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/careerfit/internal/answerstore"
	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/reference"
	"github.com/spigell/careerfit/internal/scoring"
	"github.com/spigell/careerfit/internal/signals"
)

type memStore struct {
	payloads map[answerstore.Section]string
	errs     map[answerstore.Section]error
}

func (m *memStore) Section(_ context.Context, session string, section answerstore.Section) (json.RawMessage, error) {
	if err, ok := m.errs[section]; ok {
		return nil, err
	}
	p, ok := m.payloads[section]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", session, section, answerstore.ErrNotFound)
	}
	return json.RawMessage(p), nil
}

func gatherer(t *testing.T, store answerstore.Store, logger *zap.Logger, required ...answerstore.Section) *signals.Gatherer {
	t.Helper()
	ref, err := reference.Default()
	require.NoError(t, err)

	personality, _ := ref.Bank(reference.PersonalityBank)
	interest, _ := ref.Bank(reference.InterestBank)
	return &signals.Gatherer{
		Store:       store,
		Personality: personality,
		Interest:    interest,
		Preferences: ref.Preferences,
		Required:    required,
		Logger:      logger,
	}
}

func kinds(ws []diag.Warning, kind diag.Kind) []diag.Warning {
	out := []diag.Warning{}
	for _, w := range ws {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

func TestGatherFullSession(t *testing.T) {
	store := &memStore{payloads: map[answerstore.Section]string{
		answerstore.Personality: `[{"itemId":"O1","score":5},{"itemId":"O2R","score":1},{"itemId":"C1","score":"3"}]`,
		answerstore.Interest:    `{"answers":[{"itemId":"I1","score":5},{"itemId":"R1","value":2}]}`,
		answerstore.Preferences: `[{"questionId":"m7","score":5},{"questionId":"work_env","value":"startup"}]`,
		answerstore.Intake:      `{"about":"I love puzzles","goals":"research","industry":["tech","science"],"age":31,"work_env":"corporate"}`,
	}}

	b, err := gatherer(t, store, nil).Gather(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, "s1", b.Session)
	assert.Equal(t, 5.0, b.PersonalityMean("O"))
	assert.Equal(t, 3.0, b.PersonalityMean("C"))
	assert.Equal(t, []string{"I"}, b.TopInterests(1))
	assert.Equal(t, 2.0, b.InterestMean("R"))

	impact, ok := b.Preferences.LikertValue("impact")
	assert.True(t, ok)
	assert.Equal(t, 5.0, impact)
	assert.Equal(t, "startup", b.Preferences.Select("work_env"))
	assert.True(t, b.Preferences.HasChip("industries", "science"))

	assert.Equal(t, "I love puzzles\nresearch", b.Intake.Text)
	assert.Equal(t, "31", b.Intake.Fields["age"])

	assert.Empty(t, kinds(b.Warnings, diag.MissingSection))
	assert.NotEmpty(t, kinds(b.Warnings, diag.PartialCoverage))
}

func TestGatherMissingOptionalSections(t *testing.T) {
	store := &memStore{payloads: map[answerstore.Section]string{
		answerstore.Interest: `[{"itemId":"S1","score":4}]`,
	}}

	b, err := gatherer(t, store, nil).Gather(context.Background(), "s1")
	require.NoError(t, err)

	assert.Nil(t, b.Personality)
	assert.NotNil(t, b.Interest)
	assert.True(t, b.Preferences.Empty())

	missing := kinds(b.Warnings, diag.MissingSection)
	sources := make([]string, 0, len(missing))
	for _, w := range missing {
		sources = append(sources, w.Source)
	}
	assert.ElementsMatch(t, []string{"personality", "preferences", "intake"}, sources)
}

func TestGatherRequiredSection(t *testing.T) {
	store := &memStore{payloads: map[answerstore.Section]string{
		answerstore.Interest: `[{"itemId":"S1","score":4}]`,
	}}

	_, err := gatherer(t, store, nil, answerstore.Personality).Gather(context.Background(), "s1")

	var required *signals.RequiredSectionError
	require.True(t, errors.As(err, &required))
	assert.Equal(t, answerstore.Personality, required.Section)
	assert.ErrorIs(t, err, answerstore.ErrNotFound)
}

func TestGatherNothingAnswered(t *testing.T) {
	store := &memStore{payloads: map[answerstore.Section]string{
		answerstore.Personality: `[{"itemId":"O1","score":0}]`,
		answerstore.Interest:    `[{"itemId":"S1","score":4}]`,
	}}

	b, err := gatherer(t, store, nil).Gather(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, b.Personality)

	_, err = gatherer(t, store, nil, answerstore.Personality).Gather(context.Background(), "s1")
	var insufficient *scoring.InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "personality", insufficient.Instrument)
}

func TestGatherLogsStoreFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store := &memStore{
		payloads: map[answerstore.Section]string{answerstore.Interest: `[{"itemId":"S1","score":4}]`},
		errs:     map[answerstore.Section]error{answerstore.Intake: errors.New("connection reset")},
	}

	b, err := gatherer(t, store, zap.New(core)).Gather(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotNil(t, b.Interest)

	entries := logs.FilterMessage("answer section unavailable").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "intake", entries[0].ContextMap()["section"])
}

func TestGatherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gatherer(t, &memStore{}, nil).Gather(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
}
