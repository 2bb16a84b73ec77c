// Package survey holds the canonical respondent record, the normalizer that
// produces it from raw rows, and the code tables used to label raw values.
package survey

import "sort"

// RawRecord is one heterogeneous input row keyed by source field name.
type RawRecord map[string]any

// Record is one validated respondent. Fields carries every raw field of the
// source row and must be treated as read-only.
type Record struct {
	Model   string         `json:"model"`
	EmbX    float64        `json:"emb_x"`
	EmbY    float64        `json:"emb_y"`
	Cluster int            `json:"cluster"`
	Fields  map[string]any `json:"-"`
}

// Value returns the raw value of a survey field, or nil when absent.
func (r Record) Value(field string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[field]
}

// Scope is an ordered record subset produced by the scope resolver. Scopes
// are snapshots: callers must not modify the elements.
type Scope []Record

// Models returns the sorted distinct model names in records.
func Models(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.Model] {
			seen[r.Model] = true
			out = append(out, r.Model)
		}
	}
	sort.Strings(out)
	return out
}

// Clusters returns the sorted distinct cluster ids in records.
func Clusters(records []Record) []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range records {
		if !seen[r.Cluster] {
			seen[r.Cluster] = true
			out = append(out, r.Cluster)
		}
	}
	sort.Ints(out)
	return out
}
