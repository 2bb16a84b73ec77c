package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/buyer.atlas/internal/survey"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
		ok    bool
	}{
		{"lower abbrev", "ca", "California", true},
		{"upper abbrev", "TX", "Texas", true},
		{"full name", "California", "California", true},
		{"full name any case", "new   YORK", "New York", true},
		{"district", "District of Columbia", "District of Columbia", true},
		{"embedded token", "Austin, TX 78701", "Texas", true},
		{"embedded last token wins", "Moved from OH to WA", "Washington", true},
		{"lower-case token not extracted", "going in or out", "", false},
		{"padded abbrev", "  nv ", "Nevada", true},
		{"unknown", "Atlantis", "", false},
		{"unknown abbrev", "ZZ", "", false},
		{"blank", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := Match(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, st.Name)
		})
	}
}

func TestStatesTable(t *testing.T) {
	all := States()
	assert.Len(t, all, 51)
	all[0].Name = "mutated"
	assert.Equal(t, "Alabama", States()[0].Name)
}

func TestResolver(t *testing.T) {
	codes, err := survey.NewCodeTable(map[string]map[any]string{
		"RESIDENCE_STATE": {6: "California", 48: "Texas"},
	})
	require.NoError(t, err)
	r := NewResolver([]string{"STATE", "RESIDENCE_STATE"}, codes)

	tests := []struct {
		name   string
		fields map[string]any
		want   string
		ok     bool
	}{
		{"first field abbrev", map[string]any{"STATE": "ca"}, "California", true},
		{"blank first falls through to coded", map[string]any{"STATE": " ", "RESIDENCE_STATE": 48.0}, "Texas", true},
		{"unmatched first falls through", map[string]any{"STATE": "Atlantis", "RESIDENCE_STATE": "6"}, "California", true},
		{"code without label", map[string]any{"RESIDENCE_STATE": 99}, "", false},
		{"nothing", map[string]any{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := r.Resolve(survey.Record{Fields: tt.fields})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, st.Name)
		})
	}

	assert.Equal(t, DefaultFields, NewResolver(nil, nil).Fields)
}

func TestCanonical(t *testing.T) {
	name, ok := Canonical("ca")
	assert.True(t, ok)
	assert.Equal(t, "California", name)

	name, ok = Canonical("Narnia")
	assert.False(t, ok)
	assert.Equal(t, "Narnia", name)
}

func TestAggregate(t *testing.T) {
	scope := survey.Scope{
		{Fields: map[string]any{"STATE": "ca"}},
		{Fields: map[string]any{"STATE": "California"}},
		{Fields: map[string]any{"STATE": "TX"}},
		{Fields: map[string]any{"STATE": "Nowhere"}},
		{Fields: map[string]any{}},
	}
	got := Aggregate(scope, NewResolver(nil, nil))

	assert.Equal(t, 3, got.Resolved)
	assert.Equal(t, 2, got.Unresolved)
	require.Len(t, got.States, 2)

	assert.Equal(t, "California", got.States[0].State)
	assert.Equal(t, "CA", got.States[0].Abbrev)
	assert.Equal(t, 2, got.States[0].Count)
	assert.InDelta(t, 66.6667, got.States[0].Percentage, 1e-3)
	assert.Equal(t, 1.0, got.States[0].Intensity)

	assert.InDelta(t, 33.3333, got.States[1].Percentage, 1e-3)
	assert.InDelta(t, 0.5, got.States[1].Intensity, 1e-9)
	assert.InDelta(t, got.States[0].Percentage, got.Max, 1e-9)

	pcts := got.Percentages()
	sum := 0.0
	for _, p := range pcts {
		sum += p
	}
	assert.True(t, math.Abs(sum-100) < 1e-9)
}

func TestAggregate_NothingResolved(t *testing.T) {
	got := Aggregate(survey.Scope{{Fields: map[string]any{"STATE": "?"}}}, NewResolver(nil, nil))
	assert.Empty(t, got.States)
	assert.Zero(t, got.Max)
	assert.Equal(t, 1, got.Unresolved)
}
