package signals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/careerfit/internal/answerstore"
	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/instrument"
	"github.com/spigell/careerfit/internal/scoring"
)

// intakeTextKeys are the free-text intake fields, joined in this order.
var intakeTextKeys = []string{"text", "about", "goals", "ideal_role", "notes"}

// RequiredSectionError reports a section the caller marked required that
// could not be fetched or scored.
type RequiredSectionError struct {
	Section answerstore.Section
	Err     error
}

func (e *RequiredSectionError) Error() string {
	return fmt.Sprintf("required section %s: %v", e.Section, e.Err)
}

func (e *RequiredSectionError) Unwrap() error {
	return e.Err
}

// Gatherer fetches every section of a session concurrently and turns the raw
// payloads into a Bundle.
type Gatherer struct {
	Store       answerstore.Store
	Personality *instrument.Bank
	Interest    *instrument.Bank
	Preferences *instrument.PreferenceBank
	Required    []answerstore.Section
	Logger      *zap.Logger
}

func (g *Gatherer) required(s answerstore.Section) bool {
	for _, r := range g.Required {
		if r == s {
			return true
		}
	}
	return false
}

// Gather fetches and scores one session. Missing or malformed optional
// sections become MissingSection warnings and the instrument is absent.
func (g *Gatherer) Gather(ctx context.Context, session string) (*Bundle, error) {
	logger := g.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sections := answerstore.Sections()
	payloads := make([]json.RawMessage, len(sections))
	fetchErrs := make([]error, len(sections))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, section := range sections {
		eg.Go(func() error {
			data, err := g.Store.Section(egCtx, session, section)
			if err != nil {
				if g.required(section) {
					return &RequiredSectionError{Section: section, Err: err}
				}
				fetchErrs[i] = err
				return nil
			}
			payloads[i] = data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &Bundle{Session: session}
	missing := func(section answerstore.Section, err error) {
		b.Warnings = append(b.Warnings, diag.Warning{
			Kind:   diag.MissingSection,
			Source: string(section),
			Detail: err.Error(),
		})
	}

	for i, section := range sections {
		if fetchErrs[i] != nil {
			if !errors.Is(fetchErrs[i], answerstore.ErrNotFound) {
				logger.Warn("answer section unavailable", zap.String("section", string(section)), zap.Error(fetchErrs[i]))
			}
			missing(section, fetchErrs[i])
			continue
		}

		var err error
		switch section {
		case answerstore.Personality:
			b.Personality, err = g.score(b, payloads[i], g.Personality)
		case answerstore.Interest:
			b.Interest, err = g.score(b, payloads[i], g.Interest)
		case answerstore.Preferences:
			err = g.preferences(b, payloads[i])
		case answerstore.Intake:
			err = g.intake(b, payloads[i])
		}
		if err == nil {
			continue
		}
		if g.required(section) {
			return nil, &RequiredSectionError{Section: section, Err: err}
		}
		missing(section, err)
	}

	logger.Debug("gathered session signals",
		zap.String("session", session),
		zap.Bool("personality", b.Personality != nil),
		zap.Bool("interest", b.Interest != nil),
		zap.Bool("preferences", !b.Preferences.Empty()),
		zap.Int("warnings", len(b.Warnings)),
	)

	return b, nil
}

func (g *Gatherer) score(b *Bundle, payload json.RawMessage, bank *instrument.Bank) (*scoring.Scores, error) {
	if bank == nil {
		return nil, errors.New("no item bank configured")
	}

	raw, err := decodeAnswerArray(payload)
	if err != nil {
		return nil, err
	}
	answers, err := instrument.DecodeAnswers(raw)
	if err != nil {
		return nil, err
	}

	n := instrument.Normalize(answers, bank)
	b.Warnings = append(b.Warnings, n.Warnings...)

	return scoring.Score(n)
}

func (g *Gatherer) preferences(b *Bundle, payload json.RawMessage) error {
	if g.Preferences == nil {
		return errors.New("no preference bank configured")
	}
	raw, err := decodeAnswerArray(payload)
	if err != nil {
		return err
	}
	prefs, warnings := instrument.DecodePreferences(raw, g.Preferences)
	b.Warnings = append(b.Warnings, warnings...)
	b.Preferences = mergePreferences(b.Preferences, prefs)
	return nil
}

// intake reads the loose intake object. Scalar values become fields, the
// free-text keys form the intake text, and the work environment and industry
// answers fill preference gaps.
func (g *Gatherer) intake(b *Bundle, payload json.RawMessage) error {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("decode intake: %w", err)
	}

	fields := make(map[string]string, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				fields[k] = s
			}
		case float64, bool:
			fields[k] = fmt.Sprint(v)
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					parts = append(parts, strings.TrimSpace(s))
				}
			}
			if len(parts) > 0 {
				fields[k] = strings.Join(parts, ",")
			}
		}
	}

	texts := make([]string, 0, len(intakeTextKeys))
	for _, k := range intakeTextKeys {
		if s, ok := fields[k]; ok {
			texts = append(texts, s)
		}
	}

	b.Intake = Intake{Text: strings.Join(texts, "\n"), Fields: fields}

	stated := instrument.Preferences{Selects: map[string]string{}, Chips: map[string][]string{}}
	if env, ok := fields["work_env"]; ok {
		stated.Selects["work_env"] = env
	}
	if industries, ok := fields["industry"]; ok {
		stated.Chips["industries"] = strings.Split(industries, ",")
	}
	b.Preferences = mergePreferences(stated, b.Preferences)
	return nil
}

// mergePreferences overlays top on base. Answers in top win.
func mergePreferences(base, top instrument.Preferences) instrument.Preferences {
	out := instrument.Preferences{
		Likert:  map[string]float64{},
		Selects: map[string]string{},
		Chips:   map[string][]string{},
		Text:    map[string]string{},
	}
	for _, p := range []instrument.Preferences{base, top} {
		for k, v := range p.Likert {
			out.Likert[k] = v
		}
		for k, v := range p.Selects {
			out.Selects[k] = v
		}
		for k, v := range p.Chips {
			out.Chips[k] = v
		}
		for k, v := range p.Text {
			out.Text[k] = v
		}
	}
	return out
}

// decodeAnswerArray accepts a bare array or an object holding it under "answers".
func decodeAnswerArray(payload json.RawMessage) ([]map[string]any, error) {
	var arr []map[string]any
	if err := json.Unmarshal(payload, &arr); err == nil {
		return arr, nil
	}

	var wrapped struct {
		Answers []map[string]any `json:"answers"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if wrapped.Answers == nil {
		return nil, errors.New("decode answers: payload holds no answer array")
	}
	return wrapped.Answers, nil
}
