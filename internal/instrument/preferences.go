package instrument

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/careerfit/internal/diag"
)

const preferenceSource = "preferences"

type PreferenceType string

const (
	PreferenceLikert PreferenceType = "likert"
	PreferenceSelect PreferenceType = "select"
	PreferenceChips  PreferenceType = "chips"
	PreferenceText   PreferenceType = "text"
)

// PreferenceQuestion is one stated-preference question. Key is the stable
// semantic name consumers read answers by.
type PreferenceQuestion struct {
	ID      string         `yaml:"id"`
	Key     string         `yaml:"key"`
	Type    PreferenceType `yaml:"type"`
	Text    string         `yaml:"text"`
	Options []string       `yaml:"options,omitempty"`
}

// PreferenceBank is the versioned table of stated-preference questions.
type PreferenceBank struct {
	Version   string               `yaml:"version"`
	Questions []PreferenceQuestion `yaml:"questions"`

	byID map[string]PreferenceQuestion
}

// NewPreferenceBank validates questions and builds the id lookup.
func NewPreferenceBank(version string, questions []PreferenceQuestion) (*PreferenceBank, error) {
	byID := make(map[string]PreferenceQuestion, len(questions))
	keys := make(map[string]bool, len(questions))

	for _, q := range questions {
		if q.ID == "" || q.Key == "" {
			return nil, &IntegrityError{Instrument: preferenceSource, ItemID: q.ID, Reason: "question requires id and key"}
		}
		if _, dup := byID[q.ID]; dup {
			return nil, &IntegrityError{Instrument: preferenceSource, ItemID: q.ID, Reason: "duplicate id"}
		}
		if keys[q.Key] {
			return nil, &IntegrityError{Instrument: preferenceSource, ItemID: q.ID, Reason: fmt.Sprintf("duplicate key %q", q.Key)}
		}
		switch q.Type {
		case PreferenceLikert, PreferenceSelect, PreferenceChips, PreferenceText:
		default:
			return nil, &IntegrityError{Instrument: preferenceSource, ItemID: q.ID, Reason: fmt.Sprintf("unknown type %q", q.Type)}
		}
		byID[q.ID] = q
		keys[q.Key] = true
	}

	return &PreferenceBank{Version: version, Questions: questions, byID: byID}, nil
}

// LoadPreferences parses a preference bank document.
func LoadPreferences(r io.Reader) (*PreferenceBank, error) {
	var doc PreferenceBank
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode preference bank: %w", err)
	}
	return NewPreferenceBank(doc.Version, doc.Questions)
}

// Question returns the question registered under id.
func (b *PreferenceBank) Question(id string) (PreferenceQuestion, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Preferences are decoded stated-preference answers keyed by semantic key.
type Preferences struct {
	Likert  map[string]float64  `json:"likert,omitempty"`
	Selects map[string]string   `json:"selects,omitempty"`
	Chips   map[string][]string `json:"chips,omitempty"`
	Text    map[string]string   `json:"text,omitempty"`
}

// LikertValue returns the 1..5 answer for key.
func (p Preferences) LikertValue(key string) (float64, bool) {
	v, ok := p.Likert[key]
	return v, ok
}

// Select returns the selected option for key, or "".
func (p Preferences) Select(key string) string {
	return p.Selects[key]
}

// HasChip reports whether value was picked for the multi-select key.
func (p Preferences) HasChip(key, value string) bool {
	return slices.Contains(p.Chips[key], value)
}

// Empty reports whether no preference was answered.
func (p Preferences) Empty() bool {
	return len(p.Likert) == 0 && len(p.Selects) == 0 && len(p.Chips) == 0 && len(p.Text) == 0
}

type rawPreference struct {
	QuestionID string  `mapstructure:"questionId"`
	Score      float64 `mapstructure:"score"`
	Value      any     `mapstructure:"value"`
}

// DecodePreferences maps the heterogeneous preference answer array onto the
// bank. The bank's question type wins over any type the answer claims.
func DecodePreferences(raw []map[string]any, bank *PreferenceBank) (Preferences, []diag.Warning) {
	p := Preferences{
		Likert:  map[string]float64{},
		Selects: map[string]string{},
		Chips:   map[string][]string{},
		Text:    map[string]string{},
	}
	var warnings []diag.Warning

	warn := func(kind diag.Kind, format string, args ...any) {
		warnings = append(warnings, diag.Warning{Kind: kind, Source: preferenceSource, Detail: fmt.Sprintf(format, args...)})
	}

	for i, entry := range raw {
		var ra rawPreference
		if err := weakDecode(entry, &ra); err != nil {
			warn(diag.UnknownItem, "answer %d: %v", i, err)
			continue
		}

		q, ok := bank.Question(ra.QuestionID)
		if !ok {
			warn(diag.UnknownItem, "question %q is not in bank %s", ra.QuestionID, bank.Version)
			continue
		}

		switch q.Type {
		case PreferenceLikert:
			score := ra.Score
			if score == 0 {
				if f, ok := toFloat(ra.Value); ok {
					score = f
				}
			}
			if score == 0 || math.IsNaN(score) {
				continue
			}
			val, clamped := ClampLikert(score)
			if clamped {
				warn(diag.OutOfRange, "question %s value %g clamped to %g", q.ID, score, val)
			}
			p.Likert[q.Key] = val
		case PreferenceSelect:
			value := strings.TrimSpace(fmt.Sprint(valueOrEmpty(ra.Value)))
			if value == "" {
				continue
			}
			if len(q.Options) > 0 && !slices.Contains(q.Options, value) {
				warn(diag.UnknownItem, "question %s option %q is not declared", q.ID, value)
				continue
			}
			p.Selects[q.Key] = value
		case PreferenceChips:
			var values []string
			if err := weakDecode(ra.Value, &values); err != nil {
				warn(diag.UnknownItem, "question %s: %v", q.ID, err)
				continue
			}
			kept := make([]string, 0, len(values))
			for _, v := range values {
				v = strings.TrimSpace(v)
				if v == "" {
					continue
				}
				if len(q.Options) > 0 && !slices.Contains(q.Options, v) {
					warn(diag.UnknownItem, "question %s option %q is not declared", q.ID, v)
					continue
				}
				kept = append(kept, v)
			}
			if len(kept) > 0 {
				p.Chips[q.Key] = kept
			}
		case PreferenceText:
			if text := strings.TrimSpace(fmt.Sprint(valueOrEmpty(ra.Value))); text != "" {
				p.Text[q.Key] = text
			}
		}
	}

	return p, warnings
}

func valueOrEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}

func toFloat(v any) (float64, bool) {
	var f float64
	if v == nil {
		return 0, false
	}
	if err := weakDecode(v, &f); err != nil {
		return 0, false
	}
	return f, true
}
