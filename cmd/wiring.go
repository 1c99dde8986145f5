package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/answerstore"
	"github.com/spigell/careerfit/internal/engine"
	"github.com/spigell/careerfit/internal/fit"
	"github.com/spigell/careerfit/internal/logger"
	"github.com/spigell/careerfit/internal/narrative"
	"github.com/spigell/careerfit/internal/reference"
	"github.com/spigell/careerfit/internal/secrets"
	"github.com/spigell/careerfit/internal/signals"
)

const (
	storeFile   = "file"
	storeHTTP   = "http"
	storeSQLite = "sqlite"
)

var noopClose = func() error { return nil }

// loadReference returns the embedded data unless the config overrides a document.
func loadReference(cfg *Config) (*reference.Set, error) {
	if cfg == nil || cfg.Reference == (reference.Paths{}) {
		return reference.Default()
	}
	return reference.Load(cfg.Reference)
}

// openStore builds the configured answer store. The returned closer releases
// any held resources.
func openStore(cfg *StoreConfig, log *zap.Logger) (answerstore.Store, func() error, error) {
	if cfg == nil {
		return nil, nil, errors.New("store configuration is required")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", storeFile:
		return answerstore.NewFileStore(cfg.Dir), noopClose, nil
	case storeHTTP:
		token, err := resolveStoreToken(cfg)
		if err != nil {
			return nil, nil, err
		}
		store := answerstore.NewHTTPStore(log, cfg.URL, token)
		if cfg.UserAgent != "" {
			store.UserAgent = cfg.UserAgent
		}
		if cfg.MaxRetries >= 0 {
			store.MaxRetries = cfg.MaxRetries
		}
		return store, noopClose, nil
	case storeSQLite:
		store, err := answerstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store kind: %s", cfg.Kind)
	}
}

func resolveStoreToken(cfg *StoreConfig) (string, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return "", errors.New("store.url is required for the http store")
	}

	tokenFile := strings.TrimSpace(cfg.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("store.token-file"))
	}

	return secrets.Load(secrets.Source{
		Name: "answer store token",
		File: tokenFile,
		Env:  "CAREERFIT_STORE_TOKEN",
	})
}

func requiredSections(names []string) ([]answerstore.Section, error) {
	known := map[string]answerstore.Section{}
	for _, s := range answerstore.Sections() {
		known[string(s)] = s
	}

	out := make([]answerstore.Section, 0, len(names))
	for _, name := range names {
		s, ok := known[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown section %q in report.required", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func newGatherer(store answerstore.Store, ref *reference.Set, required []answerstore.Section, log *zap.Logger) *signals.Gatherer {
	personality, _ := ref.Bank(reference.PersonalityBank)
	interest, _ := ref.Bank(reference.InterestBank)
	return &signals.Gatherer{
		Store:       store,
		Personality: personality,
		Interest:    interest,
		Preferences: ref.Preferences,
		Required:    required,
		Logger:      log,
	}
}

// newNarrativeWriter returns a template-only writer when the narrative is
// disabled.
func newNarrativeWriter(ctx context.Context, cfg *NarrativeConfig, log *zap.Logger) (*narrative.Writer, error) {
	if cfg == nil || !cfg.Enabled {
		return narrative.NewWriter(nil, log, 0, 0, 0)
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported narrative provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when the narrative is enabled")
	}

	timeout := narrative.DefaultTimeout
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("narrative.timeout: %w", err)
		}
		timeout = d
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set narrative.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := narrative.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithFields(log, logger.NarrativeFields("gemini", generator.Model())...)
	return narrative.NewWriter(generator, genLogger, timeout, cfg.CacheSize, cfg.Gemini.MaxLogLength)
}

// prepareStages returns the default pipeline with configured stages disabled.
func prepareStages(disabled []string) ([]engine.Stage, error) {
	stages := engine.Default()
	for _, name := range disabled {
		if !engine.DisableByName(stages, strings.TrimSpace(name), "disabled in config") {
			return nil, fmt.Errorf("unknown stage %q (known: %s)", name, strings.Join(engine.Names(), ", "))
		}
	}
	return stages, nil
}

func fitOptions(cfg *FitConfig) fit.Options {
	opts := fit.DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.NoiseBand >= 0 {
		opts.NoiseBand = cfg.NoiseBand
	}
	if cfg.DeficitFactor > 0 {
		opts.DeficitFactor = cfg.DeficitFactor
	}
	if cfg.ConflictFactor > 0 {
		opts.ConflictFactor = cfg.ConflictFactor
	}
	opts.ConflictLinear = cfg.ConflictLinear
	opts.Lenient = cfg.Lenient
	return opts
}
