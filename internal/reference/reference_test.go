package reference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/careerfit/internal/instrument"
	"github.com/spigell/careerfit/internal/trait"
)

func TestDefault(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "onet-28.3", set.Catalog.Version())
	assert.Equal(t, 47, set.Catalog.Len())

	personality, ok := set.Bank(PersonalityBank)
	require.True(t, ok)
	assert.Equal(t, trait.Personality.Name, personality.Shape.Name)
	assert.Equal(t, 20, personality.Len())

	interest, ok := set.Bank(InterestBank)
	require.True(t, ok)
	assert.Equal(t, trait.Interest.Name, interest.Shape.Name)

	require.NotNil(t, set.Preferences)
	_, ok = set.Preferences.Question("m1")
	assert.True(t, ok)

	assert.Equal(t, 16, set.Clusters.Len())

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, set, again)
}

func TestDefaultCategoriesHaveExemplars(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	for _, c := range set.Clusters.Categories {
		assert.NotEmpty(t, set.Catalog.WithPrefix(c.Prefixes...), c.ID)
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.yaml")
	doc := `
version: local
categories:
  - id: only
    label: Only
    focus: [I]
    prefixes: ["15-"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	set, err := Load(Paths{Clusters: path})
	require.NoError(t, err)
	assert.Equal(t, "local", set.Clusters.Version)
	assert.Equal(t, 1, set.Clusters.Len())
	assert.Equal(t, 47, set.Catalog.Len())
}

func TestLoadMissingBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	doc := `
version: "1"
instruments:
  personality:
    shape: personality
    items:
      - {id: O1, dimension: O}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := Load(Paths{Items: path})
	var integrity *instrument.IntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, InterestBank, integrity.Instrument)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Paths{Catalog: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
