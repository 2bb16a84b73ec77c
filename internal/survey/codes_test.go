package survey

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeTable_LookupOrder(t *testing.T) {
	ct, err := NewCodeTable(map[string]map[any]string{
		"GENDER": {1: "Male", 2: "Female"},
		"REGION": {"01": "North", 1.0: "Numeric one"},
		"MIXED":  {"7": "String seven", 7: "Int seven"},
		"FLAG":   {true: "Yes"},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		field string
		raw   any
		want  string
		ok    bool
	}{
		{"native int", "GENDER", 1, "Male", true},
		{"float from JSON via numeric form", "GENDER", 2.0, "Female", true},
		{"string via numeric form", "GENDER", "2", "Female", true},
		{"native string key", "REGION", "01", "North", true},
		{"numeric form float key", "REGION", "1", "Numeric one", true},
		{"native beats string", "MIXED", 7, "Int seven", true},
		{"string native", "MIXED", "7", "String seven", true},
		{"float falls to string form first", "MIXED", 7.0, "String seven", true},
		{"bool native", "FLAG", true, "Yes", true},
		{"no match", "GENDER", 9, "", false},
		{"unknown field", "AGE", 1, "", false},
		{"nil raw", "GENDER", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ct.Lookup(tt.field, tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodeTable_ResolveFallback(t *testing.T) {
	ct, err := NewCodeTable(map[string]map[any]string{"GENDER": {1: "Male"}})
	require.NoError(t, err)

	assert.Equal(t, "Male", ct.Resolve("GENDER", "1"))
	assert.Equal(t, "Other", ct.Resolve("GENDER", "Other"))
	assert.Equal(t, "3", ct.Resolve("GENDER", 3.0))
	assert.Equal(t, " raw ", ct.Resolve("NOPE", " raw "))

	var empty *CodeTable
	assert.Equal(t, "1", empty.Resolve("GENDER", 1))
	assert.False(t, empty.HasField("GENDER"))
	assert.True(t, ct.HasField("GENDER"))
}

func TestNewCodeTable_BlankField(t *testing.T) {
	_, err := NewCodeTable(map[string]map[any]string{"  ": {1: "x"}})
	assert.True(t, errors.Is(err, ErrBlankCodeField))
}

func TestParseCodeTable(t *testing.T) {
	doc := `
GENDER:
  1: Male
  2: Female
STATE:
  CA: California
  "06": California
`
	ct, err := ParseCodeTable([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Female", ct.Resolve("GENDER", 2.0))
	assert.Equal(t, "California", ct.Resolve("STATE", "06"))
	assert.Equal(t, "California", ct.Resolve("STATE", "CA"))

	_, err = ParseCodeTable([]byte("\"\":\n  1: x\n"))
	assert.ErrorIs(t, err, ErrBlankCodeField)

	_, err = ParseCodeTable([]byte("GENDER: [1, 2"))
	assert.Error(t, err)
}

func TestLoadCodeTable(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "codes.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"INCOME": {"1": "Under $50k", "2": "$50k+"}}`), 0644))
	ct, err := LoadCodeTable(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "$50k+", ct.Resolve("INCOME", 2))

	_, err = LoadCodeTable(filepath.Join(dir, "codes.txt"))
	assert.Error(t, err)

	_, err = LoadCodeTable(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
