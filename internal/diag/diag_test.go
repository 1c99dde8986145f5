package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLog(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	warnings := []Warning{
		{Kind: OutOfRange, Source: "personality", Detail: "O1 value 7 clamped to 5"},
		{Kind: UnknownItem, Source: "interest", Detail: "item Z9 is not in bank"},
	}

	Log(zap.New(core), warnings)
	Log(nil, warnings)

	entries := logs.FilterMessage("scoring warning").All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]any{
		"kind":   "out_of_range",
		"source": "personality",
		"detail": "O1 value 7 clamped to 5",
	}, entries[0].ContextMap())
}

func TestCount(t *testing.T) {
	warnings := []Warning{
		{Kind: PartialCoverage, Source: "interest"},
		{Kind: PartialCoverage, Source: "personality"},
		{Kind: MissingSection, Source: "intake"},
	}

	assert.Equal(t, 2, Count(warnings, PartialCoverage))
	assert.Equal(t, 1, Count(warnings, MissingSection))
	assert.Zero(t, Count(nil, DegenerateVector))
}
