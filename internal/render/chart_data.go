// Package render turns explorer snapshots into charts: an HTML page built
// with go-echarts and a PNG price histogram built with gonum/plot.
// This file separates data transformation from chart rendering for
// testability.
package render

import (
	"math"

	"github.com/banshee-data/buyer.atlas/internal/explorer"
	"github.com/banshee-data/buyer.atlas/internal/geo"
	"github.com/banshee-data/buyer.atlas/internal/summary"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

// Default choropleth ramp endpoints.
const (
	DefaultMapBase = "#f1f1f1"
	DefaultMapPeak = "#08519c"
)

// ScatterPoint is one displayed respondent.
type ScatterPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	RawX    float64 `json:"raw_x"`
	RawY    float64 `json:"raw_y"`
	Model   string  `json:"model"`
	Cluster int     `json:"cluster"`
}

// ScatterSeries is one group of the scatter, drawn in one color.
type ScatterSeries struct {
	Name   string         `json:"name"`
	Color  string         `json:"color"`
	Points []ScatterPoint `json:"points"`
}

// HotspotPoint marks a group centroid.
type HotspotPoint struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Count int     `json:"count"`
}

// ScatterChartData holds prepared data for the embedding scatter.
type ScatterChartData struct {
	Series    []ScatterSeries `json:"series"`
	Hotspots  []HotspotPoint  `json:"hotspots"`
	Domain    view.Domain     `json:"domain"`
	NumPoints int             `json:"num_points"`
}

// PrepareScatterChartData groups displayed points by key, in key order.
// Axes use the target domain so a static page shows the settled view.
func PrepareScatterChartData(snap explorer.Snapshot) *ScatterChartData {
	out := &ScatterChartData{
		Series:    []ScatterSeries{},
		Hotspots:  []HotspotPoint{},
		Domain:    snap.Target,
		NumPoints: len(snap.Points),
	}

	index := make(map[view.GroupKey]int, len(snap.Keys))
	for _, p := range snap.Points {
		i, ok := index[p.Key]
		if !ok {
			i = len(out.Series)
			index[p.Key] = i
			out.Series = append(out.Series, ScatterSeries{Name: p.Key.String(), Color: p.Color})
		}
		out.Series[i].Points = append(out.Series[i].Points, ScatterPoint{
			X: p.X, Y: p.Y, RawX: p.RawX, RawY: p.RawY,
			Model: p.Record.Model, Cluster: p.Record.Cluster,
		})
	}
	// order series like the legend
	ordered := make([]ScatterSeries, 0, len(out.Series))
	for _, k := range snap.Keys {
		if i, ok := index[k]; ok {
			ordered = append(ordered, out.Series[i])
		}
	}
	if len(ordered) == len(out.Series) {
		out.Series = ordered
	}

	for _, c := range snap.Hotspots {
		out.Hotspots = append(out.Hotspots, HotspotPoint{Name: c.Label, Color: c.Color, X: c.CX, Y: c.CY, Count: c.Count})
	}
	return out
}

// BarChartData holds one categorical section as bars.
type BarChartData struct {
	Title   string    `json:"title"`
	Labels  []string  `json:"labels"`
	Values  []float64 `json:"values"` // percentages rounded to one decimal
	Counts  []int     `json:"counts"`
	Subtext string    `json:"subtext"`
}

// PrepareSectionBars converts a categorical section. Numeric sections have
// no bars and return nil.
func PrepareSectionBars(s summary.Section) *BarChartData {
	if s.Kind != summary.KindCategorical {
		return nil
	}
	out := &BarChartData{
		Title:  s.Field,
		Labels: make([]string, len(s.Buckets)),
		Values: make([]float64, len(s.Buckets)),
		Counts: make([]int, len(s.Buckets)),
	}
	for i, b := range s.Buckets {
		out.Labels[i] = b.Label
		out.Values[i] = round1(b.Percentage)
		out.Counts[i] = b.Count
	}
	return out
}

// PriceSeries is one group's price distribution.
type PriceSeries struct {
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Values []float64 `json:"values"`
	Valid  int       `json:"valid"`
}

// PriceChartData holds grouped price bars sharing one label axis.
type PriceChartData struct {
	Labels []string      `json:"labels"`
	Series []PriceSeries `json:"series"`
}

// PreparePriceChartData lines up group histograms on a shared axis. Groups
// without a valid price are left out.
func PreparePriceChartData(hists []summary.PriceHistogram) *PriceChartData {
	out := &PriceChartData{Labels: []string{}, Series: []PriceSeries{}}
	for _, h := range hists {
		if len(out.Labels) == 0 {
			for _, b := range h.Buckets {
				out.Labels = append(out.Labels, b.Label)
			}
		}
		if h.Valid == 0 {
			continue
		}
		s := PriceSeries{Name: h.Label, Color: h.Color, Values: make([]float64, len(h.Buckets)), Valid: h.Valid}
		for i, b := range h.Buckets {
			s.Values[i] = round1(b.Percentage)
		}
		out.Series = append(out.Series, s)
	}
	return out
}

// MapItem is one state of the choropleth.
type MapItem struct {
	Name       string  `json:"name"`
	Abbrev     string  `json:"abbrev"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// MapChartData holds the per-state shares and color ramp.
type MapChartData struct {
	Items      []MapItem `json:"items"`
	Max        float64   `json:"max"`
	Base       string    `json:"base"`
	Peak       string    `json:"peak"`
	Unresolved int       `json:"unresolved"`
}

// PrepareStateMapData colors each state by its intensity between base and
// peak.
func PrepareStateMapData(shares geo.Shares, base, peak string) *MapChartData {
	if base == "" {
		base = DefaultMapBase
	}
	if peak == "" {
		peak = DefaultMapPeak
	}
	out := &MapChartData{Items: []MapItem{}, Max: shares.Max, Base: base, Peak: peak, Unresolved: shares.Unresolved}
	for _, s := range shares.States {
		out.Items = append(out.Items, MapItem{
			Name:       s.State,
			Abbrev:     s.Abbrev,
			Percentage: round1(s.Percentage),
			Color:      view.Blend(base, peak, s.Intensity),
		})
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
