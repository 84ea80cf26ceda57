package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sanctuaries = []string{
	"Kaziranga National Park",
	"Jim Corbett",
	"Sundarbans",
	"Ranthambore",
	"Kanha",
	"Gir",
}

func TestResolveExact(t *testing.T) {
	r := New(sanctuaries)

	tests := []struct {
		input string
		want  string
	}{
		{"Kaziranga National Park", "Kaziranga National Park"},
		{"kaziranga national park", "Kaziranga National Park"},
		{"JIM CORBETT", "Jim Corbett"},
		{"gir", "Gir"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := r.Resolve(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := New(sanctuaries)
	for _, name := range sanctuaries {
		got, ok := r.Resolve(name)
		require.True(t, ok, name)
		assert.Equal(t, name, got)
	}
}

func TestResolveFuzzy(t *testing.T) {
	r := New(sanctuaries)

	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"dropped letter", "Kazirnga national park", "Kaziranga National Park", true},
		{"vowel swap", "sunderbans", "Sundarbans", true},
		{"extra letter", "Ranthambhore", "Ranthambore", true},
		{"exactly at cutoff", "kahna", "Kanha", true},
		{"below cutoff", "gil", "", false},
		{"unrelated", "Bandhavgarh", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDuplicateCase(t *testing.T) {
	r := New([]string{"Periyar", "PERIYAR", "Nagarhole"})

	for _, input := range []string{"periyar", "PERIYAR", "Periyar", "periyarr"} {
		got, ok := r.Resolve(input)
		require.True(t, ok, input)
		assert.Equal(t, "Periyar", got, "first-seen spelling wins for %q", input)
	}
}

func TestSuggestTieBreak(t *testing.T) {
	r := New([]string{"Habitat-B", "Habitat-A", "Elsewhere"})

	matches := r.Suggest("habitat-c", 5)
	require.Len(t, matches, 2)
	assert.Equal(t, "Habitat-B", matches[0].Name)
	assert.Equal(t, "Habitat-A", matches[1].Name)
	assert.InDelta(t, 16.0/18.0, matches[0].Score, 1e-9)
	assert.InDelta(t, matches[0].Score, matches[1].Score, 1e-9)

	// Equal scores resolve to the greatest lower-cased name
	got, ok := r.Resolve("habitat-c")
	require.True(t, ok)
	assert.Equal(t, "Habitat-B", got)

	// Listing order does not matter
	got, ok = New([]string{"Habitat-A", "Habitat-B"}).Resolve("HABITAT-C")
	require.True(t, ok)
	assert.Equal(t, "Habitat-B", got)

	assert.Empty(t, r.Suggest("habitat-c", 0))
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 12.0/13.0, Ratio("corbett", "corbet"), 1e-9)
	assert.InDelta(t, 0.8, Ratio("kanha", "kahna"), 1e-9)
	assert.InDelta(t, 1.0, Ratio("", ""), 1e-9)
	assert.InDelta(t, 0.0, Ratio("abc", "xyz"), 1e-9)
	// Multi-byte characters count as one element each
	assert.InDelta(t, 1.0, Ratio("Bhitarkanika – Odisha", "Bhitarkanika – Odisha"), 1e-9)
}
