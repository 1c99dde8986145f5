package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/answerstore"
	"github.com/spigell/careerfit/internal/engine"
	"github.com/spigell/careerfit/internal/fit"
)

func TestRequiredSections(t *testing.T) {
	got, err := requiredSections([]string{" Interest", "personality"})
	require.NoError(t, err)
	assert.Equal(t, []answerstore.Section{answerstore.Interest, answerstore.Personality}, got)

	_, err = requiredSections([]string{"horoscope"})
	assert.ErrorContains(t, err, "unknown section")
}

func TestPrepareStages(t *testing.T) {
	stages, err := prepareStages([]string{"narrative "})
	require.NoError(t, err)

	for _, st := range engine.Describe(stages) {
		assert.Equal(t, st.Name != engine.StageNarrative, st.Enabled, st.Name)
	}

	_, err = prepareStages([]string{"horoscope"})
	assert.ErrorContains(t, err, "known: traits")
}

func TestFitOptions(t *testing.T) {
	assert.Equal(t, fit.DefaultOptions(), fitOptions(nil))

	opts := fitOptions(&FitConfig{NoiseBand: 0, DeficitFactor: 0, ConflictFactor: 4, ConflictLinear: true})
	assert.Equal(t, 0.0, opts.NoiseBand)
	assert.Equal(t, fit.DefaultDeficitFactor, opts.DeficitFactor)
	assert.Equal(t, 4.0, opts.ConflictFactor)
	assert.True(t, opts.ConflictLinear)
}

func TestOpenStore(t *testing.T) {
	log := zap.NewNop()

	store, closer, err := openStore(&StoreConfig{Kind: "file", Dir: t.TempDir()}, log)
	require.NoError(t, err)
	assert.IsType(t, &answerstore.FileStore{}, store)
	assert.NoError(t, closer())

	store, closer, err = openStore(&StoreConfig{Kind: "SQLite", SQLitePath: filepath.Join(t.TempDir(), "a.db")}, log)
	require.NoError(t, err)
	assert.IsType(t, &answerstore.SQLiteStore{}, store)
	assert.NoError(t, closer())

	_, _, err = openStore(&StoreConfig{Kind: "http"}, log)
	assert.ErrorContains(t, err, "store.url")

	_, _, err = openStore(&StoreConfig{Kind: "ftp"}, log)
	assert.ErrorContains(t, err, "unsupported store kind")

	_, _, err = openStore(nil, log)
	assert.Error(t, err)
}

func TestOpenHTTPStoreFromEnv(t *testing.T) {
	t.Setenv("CAREERFIT_STORE_TOKEN", "from-env")

	store, _, err := openStore(&StoreConfig{Kind: "http", URL: "https://drafts.example.com", UserAgent: "test-agent", MaxRetries: 0}, zap.NewNop())
	require.NoError(t, err)

	httpStore, ok := store.(*answerstore.HTTPStore)
	require.True(t, ok)
	assert.Equal(t, "test-agent", httpStore.UserAgent)
	assert.Equal(t, 0, httpStore.MaxRetries)
}

func TestNewNarrativeWriter(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	w, err := newNarrativeWriter(ctx, &NarrativeConfig{Enabled: false}, log)
	require.NoError(t, err)
	assert.NotNil(t, w)

	_, err = newNarrativeWriter(ctx, &NarrativeConfig{Enabled: true, Provider: "openai"}, log)
	assert.ErrorContains(t, err, "unsupported narrative provider")

	_, err = newNarrativeWriter(ctx, &NarrativeConfig{Enabled: true}, log)
	assert.ErrorContains(t, err, "gemini configuration is required")

	_, err = newNarrativeWriter(ctx, &NarrativeConfig{Enabled: true, Timeout: "soon", Gemini: &GeminiConfig{}}, log)
	assert.ErrorContains(t, err, "narrative.timeout")
}
