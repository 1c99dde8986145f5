package narrative

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGeneratorRequiresKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), "  ", "")
	assert.EqualError(t, err, "gemini api key is required")
}

func TestUninitializedGenerator(t *testing.T) {
	var g *Generator

	_, err := g.GenerateContent(context.Background(), "hello")
	assert.Error(t, err)
	assert.Empty(t, g.Model())

	_, err = (&Generator{}).GenerateContent(context.Background(), "hello")
	assert.Error(t, err)
}
