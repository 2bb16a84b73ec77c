// Package view derives what the scatter view shows: scopes, group keys and
// their colors, centroids and the collapse interpolation, and the animated
// axis domains.
package view

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/banshee-data/buyer.atlas/internal/survey"
)

// GroupingMode selects the dimension records are grouped and colored by.
type GroupingMode string

const (
	ByCluster GroupingMode = "cluster"
	ByModel   GroupingMode = "model"
)

// ParseGroupingMode accepts "cluster" or "model".
func ParseGroupingMode(s string) (GroupingMode, error) {
	switch GroupingMode(s) {
	case ByCluster, ByModel:
		return GroupingMode(s), nil
	case "":
		return ByCluster, nil
	}
	return "", fmt.Errorf("unknown grouping mode %q (use cluster or model)", s)
}

// GroupKey identifies a group: a cluster id or a model name depending on Mode.
type GroupKey struct {
	Mode    GroupingMode `json:"mode"`
	Cluster int          `json:"cluster,omitempty"`
	Model   string       `json:"model,omitempty"`
}

// KeyOf returns rec's key under mode.
func KeyOf(rec survey.Record, mode GroupingMode) GroupKey {
	if mode == ByModel {
		return GroupKey{Mode: ByModel, Model: rec.Model}
	}
	return GroupKey{Mode: ByCluster, Cluster: rec.Cluster}
}

// String is the legend label.
func (k GroupKey) String() string {
	if k.Mode == ByModel {
		return k.Model
	}
	return "Cluster " + strconv.Itoa(k.Cluster)
}

// Less orders cluster keys numerically and model keys lexicographically.
func (k GroupKey) Less(o GroupKey) bool {
	if k.Mode != o.Mode {
		return k.Mode < o.Mode
	}
	if k.Mode == ByModel {
		return k.Model < o.Model
	}
	return k.Cluster < o.Cluster
}

// SortKeys sorts keys in canonical order.
func SortKeys(keys []GroupKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

// KnownKeys returns the canonical sorted key list for records. Pass the full
// corpus, not a scope, so colors stay put as filters change.
func KnownKeys(records []survey.Record, mode GroupingMode) []GroupKey {
	seen := make(map[GroupKey]bool)
	var keys []GroupKey
	for _, r := range records {
		k := KeyOf(r, mode)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	SortKeys(keys)
	return keys
}

// KeyIndex returns the position of k in keys, or -1.
func KeyIndex(keys []GroupKey, k GroupKey) int {
	i := sort.Search(len(keys), func(i int) bool { return !keys[i].Less(k) })
	if i < len(keys) && keys[i] == k {
		return i
	}
	return -1
}
