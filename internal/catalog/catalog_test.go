package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/careerfit/internal/trait"
)

func TestNewCompletesVectors(t *testing.T) {
	c, err := New("v1", []Record{
		{ID: " 15-1252 ", Title: "Software Developer", Interests: trait.Vector{"I": 5, "C": 3}},
	})
	require.NoError(t, err)

	r, ok := c.Get("15-1252")
	require.True(t, ok)
	assert.Len(t, r.Interests, len(trait.Interest.Keys))
	assert.Equal(t, 0.0, r.Interests["R"])
	assert.Equal(t, "v1", c.Version())
	assert.Equal(t, 1, c.Len())
}

func TestNewRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    string
	}{
		{
			name:    "empty id",
			records: []Record{{ID: " "}},
			want:    "empty id",
		},
		{
			name:    "duplicate",
			records: []Record{{ID: "a"}, {ID: "a"}},
			want:    "duplicated",
		},
		{
			name:    "unknown key",
			records: []Record{{ID: "a", Interests: trait.Vector{"O": 1}}},
			want:    "unknown interest key",
		},
		{
			name:    "negative",
			records: []Record{{ID: "a", Interests: trait.Vector{"R": -1}}},
			want:    "negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("v", tt.records)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	doc := `
version: test-1
records:
  - id: "29-1141"
    title: Registered Nurse
    interests: {S: 6.5, I: 4.1}
  - id: "47-2111"
    title: Electrician
    interests: {R: 6.8}
`
	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "test-1", c.Version())
	recs := c.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "29-1141", recs[0].ID)
	assert.Equal(t, 6.8, recs[1].Interests["R"])

	recs[0].ID = "changed"
	_, ok := c.Get("29-1141")
	assert.True(t, ok)
}

func TestWithPrefix(t *testing.T) {
	c, err := New("v", []Record{
		{ID: "15-1252"}, {ID: "29-1141"}, {ID: "15-2051"}, {ID: "47-2111"},
	})
	require.NoError(t, err)

	got := c.WithPrefix("15-", "", "47-")
	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"15-1252", "15-2051", "47-2111"}, ids)
	assert.Empty(t, c.WithPrefix("99-"))
}
