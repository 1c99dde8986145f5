package narrative

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/careerfit/internal/archetype"
	"github.com/spigell/careerfit/internal/cluster"
	"github.com/spigell/careerfit/internal/motivator"
	"github.com/spigell/careerfit/internal/trait"
)

type stubGenerator struct {
	response string
	err      error
	block    bool
	calls    atomic.Int32
	prompt   string
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.calls.Add(1)
	s.prompt = prompt
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.response, s.err
}

func sampleInput() Input {
	analyst := archetype.Result{Profile: archetype.Profile{Label: "The Analyst", Tagline: "Clarity-seeker."}, Confidence: archetype.Likely}
	return Input{
		Session:      "s1",
		Interest:     trait.Vector{"R": 2, "I": 5, "A": 2, "S": 2, "E": 2, "C": 2},
		TopInterests: []string{"I", "R"},
		Motivators: []motivator.Result{
			{Label: "Creativity & Expression", Score: 88, Confidence: motivator.High},
			{Label: "Challenge & Variety", Score: 80, Confidence: motivator.High},
		},
		Clusters: []cluster.Result{
			{Label: "Science", Score: 65, Tier: cluster.TierMedium},
			{Label: "Software", Score: 50, Tier: cluster.TierMedium},
			{Label: "Arts", Score: 0, Tier: cluster.TierLow},
			{Label: "Sales", Score: 0, Tier: cluster.TierLow},
		},
		Archetype: &analyst,
	}
}

func newTestWriter(t *testing.T, gen contentGenerator, timeout time.Duration) *Writer {
	t.Helper()
	w, err := NewWriter(gen, zaptest.NewLogger(t), timeout, 4, 0)
	require.NoError(t, err)
	return w
}

func TestWriteModel(t *testing.T) {
	gen := &stubGenerator{response: "```json\n{\"summary\": \"You are a researcher.\", \"highlights\": [\"Investigative\", \"\", 5]}\n```"}
	w := newTestWriter(t, gen, time.Second)

	n := w.Write(context.Background(), sampleInput())
	assert.Equal(t, SourceModel, n.Source)
	assert.Equal(t, "You are a researcher.", n.Text)
	assert.Equal(t, []string{"Investigative", "5"}, n.Highlights)
	assert.Empty(t, n.Error)

	assert.Contains(t, gen.prompt, "• RIASEC: R=2.00, I=5.00")
	assert.Contains(t, gen.prompt, "• Team role: The Analyst (likely) - Clarity-seeker.")
	assert.NotContains(t, gen.prompt, "{{EVIDENCE}}")
}

func TestWriteCachesModelOutput(t *testing.T) {
	gen := &stubGenerator{response: `{"summary": "cached"}`}
	w := newTestWriter(t, gen, time.Second)

	first := w.Write(context.Background(), sampleInput())
	second := w.Write(context.Background(), sampleInput())

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestWriteFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
		want string
	}{
		{"generator error", &stubGenerator{err: errors.New("quota exceeded")}, "quota exceeded"},
		{"not json", &stubGenerator{response: "Sure! Here is your summary."}, "parse narrative response"},
		{"no summary", &stubGenerator{response: `{"highlights": ["x"]}`}, "no summary"},
		{"timeout", &stubGenerator{block: true}, context.DeadlineExceeded.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWriter(t, tt.gen, 20*time.Millisecond)

			n := w.Write(context.Background(), sampleInput())
			assert.Equal(t, SourceTemplate, n.Source)
			assert.Contains(t, n.Error, tt.want)
			assert.NotEmpty(t, n.Text)

			w.Write(context.Background(), sampleInput())
			assert.Equal(t, int32(2), tt.gen.calls.Load())
		})
	}
}

func TestWriteWithoutGenerator(t *testing.T) {
	w := newTestWriter(t, nil, 0)
	n := w.Write(context.Background(), sampleInput())
	assert.Equal(t, SourceTemplate, n.Source)
	assert.Empty(t, n.Error)

	var nilWriter *Writer
	assert.Equal(t, n, nilWriter.Write(context.Background(), sampleInput()))
}

func TestFallback(t *testing.T) {
	n := Fallback(sampleInput(), "")

	assert.Equal(t,
		"Your strongest interests are Investigative, Realistic. "+
			"What drives you most is Creativity & Expression, followed by Challenge & Variety. "+
			"The career area that fits you best is Science with a score of 65. "+
			"On a team you tend to act as The Analyst: Clarity-seeker.",
		n.Text,
	)
	assert.Equal(t, []string{"Creativity & Expression (88)", "Challenge & Variety (80)"}, n.Highlights)
}

func TestFallbackEmptyInput(t *testing.T) {
	n := Fallback(Input{}, "no data")

	assert.Equal(t, "We did not have enough interest answers to describe your interests.", n.Text)
	assert.Empty(t, n.Highlights)
	assert.Equal(t, "no data", n.Error)
}

func TestEvidenceLimitsClusters(t *testing.T) {
	ev := Evidence(sampleInput())

	assert.Contains(t, ev, "  - Science 65 (Medium)")
	assert.NotContains(t, ev, "Sales")
	assert.Equal(t, 1, strings.Count(ev, "• Motivators:"))
	assert.NotContains(t, ev, "Big-5")
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`  {"a":1} `))
}
