// Package instrument turns raw inventory answers into bounded, grouped values.
package instrument

import (
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/careerfit/internal/diag"
	"github.com/spigell/careerfit/internal/trait"
)

const (
	LikertMin = 1.0
	LikertMax = 5.0
)

// Answer is a raw {itemId, score} pair from the answer store.
type Answer struct {
	ItemID string  `json:"itemId" mapstructure:"itemId"`
	Value  float64 `json:"score" mapstructure:"score"`
}

// NormalizeLikert rescales a 1..5 value onto [0,1].
func NormalizeLikert(v float64) float64 {
	return clamp01((v - LikertMin) / (LikertMax - LikertMin))
}

// ReverseKey inverts a 1..5 answer of an inversely worded item.
func ReverseKey(v float64) float64 {
	return LikertMin + LikertMax - v
}

// ClampLikert bounds v to the Likert domain and reports whether it moved.
func ClampLikert(v float64) (float64, bool) {
	switch {
	case v < LikertMin:
		return LikertMin, true
	case v > LikertMax:
		return LikertMax, true
	default:
		return v, false
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Normalized holds keyed 1..5 item values grouped by dimension.
type Normalized struct {
	Instrument string
	Shape      trait.Shape
	Values     map[string][]float64
	Warnings   []diag.Warning
}

// Answered returns the number of items that contributed a value.
func (n Normalized) Answered() int {
	total := 0
	for _, vals := range n.Values {
		total += len(vals)
	}
	return total
}

// Vector returns the 0..1 mean per dimension along with the dimensions that
// had no answered items. Every key of the shape is present.
func (n Normalized) Vector() (trait.Vector, map[string]bool) {
	v := n.Shape.New()
	partial := make(map[string]bool)

	for _, key := range n.Shape.Keys {
		vals := n.Values[key]
		if len(vals) == 0 {
			partial[key] = true
			continue
		}
		sum := 0.0
		for _, val := range vals {
			sum += NormalizeLikert(val)
		}
		v[key] = sum / float64(len(vals))
	}

	return v, partial
}

// Normalize applies reverse keying and clamping, then groups answers by the
// bank's explicit item→dimension table. A value of 0 or NaN means unanswered.
// Duplicate answers for one item keep the last value.
func Normalize(answers []Answer, bank *Bank) Normalized {
	out := Normalized{
		Instrument: bank.Instrument,
		Shape:      bank.Shape,
		Values:     make(map[string][]float64, len(bank.Shape.Keys)),
	}

	byID := make(map[string]float64, len(answers))
	for _, a := range answers {
		if _, ok := bank.Lookup(a.ItemID); !ok {
			out.Warnings = append(out.Warnings, diag.Warning{
				Kind:   diag.UnknownItem,
				Source: bank.Instrument,
				Detail: fmt.Sprintf("item %q is not in bank %s", a.ItemID, bank.Version),
			})
			continue
		}
		byID[strings.TrimSpace(a.ItemID)] = a.Value
	}

	for _, it := range bank.Items {
		raw, ok := byID[it.ID]
		if !ok || raw == 0 || math.IsNaN(raw) {
			continue
		}

		val, clamped := ClampLikert(raw)
		if clamped {
			out.Warnings = append(out.Warnings, diag.Warning{
				Kind:   diag.OutOfRange,
				Source: bank.Instrument,
				Detail: fmt.Sprintf("item %s value %g clamped to %g", it.ID, raw, val),
			})
		}
		if it.Reverse {
			val = ReverseKey(val)
		}

		out.Values[it.Dimension] = append(out.Values[it.Dimension], val)
	}

	if out.Answered() > 0 {
		for _, key := range bank.Shape.Keys {
			if len(out.Values[key]) == 0 {
				out.Warnings = append(out.Warnings, diag.Warning{
					Kind:   diag.PartialCoverage,
					Source: bank.Instrument,
					Detail: fmt.Sprintf("no answered items for %s", bank.Shape.Label(key)),
				})
			}
		}
	}

	return out
}

type rawAnswer struct {
	ItemID string   `mapstructure:"itemId"`
	Score  *float64 `mapstructure:"score"`
	Value  *float64 `mapstructure:"value"`
}

// DecodeAnswers converts the loosely typed answer array of the store into
// answers. Numeric strings are accepted; "value" is read when "score" is absent.
func DecodeAnswers(raw []map[string]any) ([]Answer, error) {
	out := make([]Answer, 0, len(raw))
	for i, entry := range raw {
		var ra rawAnswer
		if err := weakDecode(entry, &ra); err != nil {
			return nil, fmt.Errorf("answer %d: %w", i, err)
		}
		if ra.ItemID == "" {
			return nil, fmt.Errorf("answer %d: missing itemId", i)
		}

		a := Answer{ItemID: ra.ItemID}
		switch {
		case ra.Score != nil:
			a.Value = *ra.Score
		case ra.Value != nil:
			a.Value = *ra.Value
		}
		out = append(out, a)
	}
	return out, nil
}

func weakDecode(input any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
