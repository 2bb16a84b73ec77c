package survey

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrBlankCodeField is returned when a code table names a blank field.
var ErrBlankCodeField = errors.New("code table has a blank field name")

// CodeTable maps field name -> raw code -> human label. The zero value and a
// nil *CodeTable are empty tables.
type CodeTable struct {
	fields map[string]map[any]string
}

// NewCodeTable builds a table from field -> code -> label maps. Keys are kept
// in their native type; a blank field name is rejected.
func NewCodeTable(m map[string]map[any]string) (*CodeTable, error) {
	ct := &CodeTable{fields: make(map[string]map[any]string, len(m))}
	for field, codes := range m {
		if strings.TrimSpace(field) == "" {
			return nil, ErrBlankCodeField
		}
		dst := make(map[any]string, len(codes))
		for k, label := range codes {
			if !hashable(k) {
				return nil, fmt.Errorf("code table field %q: unsupported code type %T", field, k)
			}
			dst[k] = label
		}
		ct.fields[field] = dst
	}
	return ct, nil
}

// ParseCodeTable decodes a YAML (or JSON) document of the form
//
//	FIELD:
//	  1: Label
//	  "A": Other label
func ParseCodeTable(data []byte) (*CodeTable, error) {
	var raw map[string]map[any]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse code table: %w", err)
	}
	m := make(map[string]map[any]string, len(raw))
	for field, codes := range raw {
		labels := make(map[any]string, len(codes))
		for k, v := range codes {
			labels[k] = FormatValue(v)
		}
		m[field] = labels
	}
	return NewCodeTable(m)
}

// LoadCodeTable reads a code table from a .yaml, .yml or .json file.
func LoadCodeTable(path string) (*CodeTable, error) {
	cleanPath := filepath.Clean(path)
	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("code table must be .yaml, .yml or .json, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read code table: %w", err)
	}
	ct, err := ParseCodeTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return ct, nil
}

// HasField reports whether the table has codes for field.
func (ct *CodeTable) HasField(field string) bool {
	if ct == nil {
		return false
	}
	_, ok := ct.fields[field]
	return ok
}

// Lookup finds the label for raw in field's codes. It tries the native value,
// then its string form, then its numeric form.
func (ct *CodeTable) Lookup(field string, raw any) (string, bool) {
	if ct == nil {
		return "", false
	}
	codes, ok := ct.fields[field]
	if !ok || len(codes) == 0 || raw == nil {
		return "", false
	}

	if hashable(raw) {
		if label, ok := codes[raw]; ok {
			return label, true
		}
	}

	s := FormatValue(raw)
	if label, ok := codes[s]; ok {
		return label, true
	}

	if n, ok := ParseNumber(raw); ok {
		if label, ok := codes[n]; ok {
			return label, true
		}
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			if label, ok := codes[int(n)]; ok {
				return label, true
			}
		}
	}
	return "", false
}

// Resolve returns the label for raw, or raw's string form when no code
// matches. Every consumer that labels raw values goes through here.
func (ct *CodeTable) Resolve(field string, raw any) string {
	if label, ok := ct.Lookup(field, raw); ok {
		return label
	}
	return FormatValue(raw)
}

func hashable(v any) bool {
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
