package view

import (
	"github.com/banshee-data/buyer.atlas/internal/survey"
)

// Centroid is the mean embedding coordinate of a group within a scope.
type Centroid struct {
	Key   GroupKey `json:"key"`
	Label string   `json:"label"`
	Color string   `json:"color"`
	CX    float64  `json:"cx"`
	CY    float64  `json:"cy"`
	Count int      `json:"count"`
}

// Point is one record as displayed: the raw coordinate is kept next to the
// displayed one so tooltips can show both.
type Point struct {
	Record survey.Record `json:"record"`
	Key    GroupKey      `json:"key"`
	Color  string        `json:"color"`
	RawX   float64       `json:"raw_x"`
	RawY   float64       `json:"raw_y"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
}

// Centroids computes per-group means over scope with running sums.
func Centroids(scope survey.Scope, mode GroupingMode) map[GroupKey]Centroid {
	type acc struct {
		sx, sy float64
		n      int
	}
	sums := make(map[GroupKey]*acc)
	for _, r := range scope {
		k := KeyOf(r, mode)
		a := sums[k]
		if a == nil {
			a = &acc{}
			sums[k] = a
		}
		a.sx += r.EmbX
		a.sy += r.EmbY
		a.n++
	}

	out := make(map[GroupKey]Centroid, len(sums))
	for k, a := range sums {
		out[k] = Centroid{
			Key:   k,
			Label: k.String(),
			CX:    a.sx / float64(a.n),
			CY:    a.sy / float64(a.n),
			Count: a.n,
		}
	}
	return out
}

// SortedCentroids lists centroids in canonical key order, colored by their
// position in keys.
func SortedCentroids(m map[GroupKey]Centroid, keys []GroupKey, palette Palette) []Centroid {
	ordered := make([]GroupKey, 0, len(m))
	for k := range m {
		ordered = append(ordered, k)
	}
	SortKeys(ordered)

	out := make([]Centroid, 0, len(ordered))
	for _, k := range ordered {
		c := m[k]
		c.Color = palette.ColorFor(k, keys)
		out = append(out, c)
	}
	return out
}

// Collapse moves each record toward its group centroid by t in [0,1]. The
// displayed coordinate is raw*(1-t) + centroid*t, which is the raw value
// exactly at t=0 and the centroid exactly at t=1. Records whose group has no
// centroid stay at their raw position.
func Collapse(scope survey.Scope, mode GroupingMode, centroids map[GroupKey]Centroid, t float64, keys []GroupKey, palette Palette) []Point {
	t = clamp01(t)
	out := make([]Point, len(scope))
	for i, r := range scope {
		k := KeyOf(r, mode)
		p := Point{
			Record: r,
			Key:    k,
			Color:  palette.ColorFor(k, keys),
			RawX:   r.EmbX,
			RawY:   r.EmbY,
			X:      r.EmbX,
			Y:      r.EmbY,
		}
		if c, ok := centroids[k]; ok {
			p.X = r.EmbX*(1-t) + c.CX*t
			p.Y = r.EmbY*(1-t) + c.CY*t
		}
		out[i] = p
	}
	return out
}
