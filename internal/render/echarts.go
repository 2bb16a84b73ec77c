package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/buyer.atlas/internal/explorer"
	"github.com/banshee-data/buyer.atlas/internal/summary"
)

// PageOptions controls the HTML page.
type PageOptions struct {
	Title string
	Theme string
	// AssetsHost overrides where echarts.min.js is loaded from. Empty keeps
	// the go-echarts default.
	AssetsHost string
	MapBase    string
	MapPeak    string
}

func (o PageOptions) init(height string) opts.Initialization {
	return opts.Initialization{
		PageTitle:  o.Title,
		Theme:      o.Theme,
		Width:      "100%",
		Height:     height,
		AssetsHost: o.AssetsHost,
	}
}

// WritePage renders every chart for snap into one HTML page.
func WritePage(w io.Writer, snap explorer.Snapshot, o PageOptions) error {
	if o.Title == "" {
		o.Title = "Buyer Atlas"
	}

	page := components.NewPage()
	page.PageTitle = o.Title
	if o.AssetsHost != "" {
		page.SetAssetsHost(o.AssetsHost)
	}

	page.AddCharts(ScatterChart(PrepareScatterChartData(snap), snap, o))
	if a := AttitudeChart(snap.Attitude, snap.Params.XVar, snap.Params.YVar, o); a != nil {
		page.AddCharts(a)
	}
	page.AddCharts(PriceChart(PreparePriceChartData(snap.Prices), o))
	for _, s := range snap.Sections {
		if b := SectionChart(PrepareSectionBars(s), o); b != nil {
			page.AddCharts(b)
		}
	}
	page.AddCharts(StateMap(PrepareStateMapData(snap.States, o.MapBase, o.MapPeak), o))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// ScatterChart draws one series per group plus the centroid overlay. The
// axes are pinned to the domain so collapse never rescales them.
func ScatterChart(data *ScatterChartData, snap explorer.Snapshot, o PageOptions) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(o.init("720px")),
		charts.WithTitleOpts(opts.Title{
			Title:    "Respondents",
			Subtitle: fmt.Sprintf("scope=%d of %d grouping=%s collapse=%.2f", snap.Scope, snap.Total, snap.Params.Grouping, snap.Params.Collapse),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Min: data.Domain.X.Min, Max: data.Domain.X.Max, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: data.Domain.Y.Min, Max: data.Domain.Y.Max, Name: "y", NameLocation: "middle", NameGap: 30}),
	)

	for _, s := range data.Series {
		points := make([]opts.ScatterData, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, opts.ScatterData{Name: p.Model, Value: []interface{}{p.X, p.Y}})
		}
		scatter.AddSeries(s.Name, points,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}

	if len(data.Hotspots) > 0 {
		points := make([]opts.ScatterData, 0, len(data.Hotspots))
		for _, h := range data.Hotspots {
			points = append(points, opts.ScatterData{
				Name:       fmt.Sprintf("%s (n=%d)", h.Name, h.Count),
				Value:      []interface{}{h.X, h.Y},
				Symbol:     "diamond",
				SymbolSize: 16,
			})
		}
		scatter.AddSeries("hotspots", points,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#222222"}),
		)
	}
	return scatter
}

// AttitudeChart plots each group's agreement on two variables. It returns
// nil when no axes are chosen.
func AttitudeChart(points []summary.AttitudePoint, xVar, yVar string, o PageOptions) *charts.Scatter {
	if len(points) == 0 {
		return nil
	}
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(o.init("480px")),
		charts.WithTitleOpts(opts.Title{Title: "Attitudes", Subtitle: fmt.Sprintf("%% agree: %s vs %s", xVar, yVar)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: 100, Name: xVar, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100, Name: yVar, NameLocation: "middle", NameGap: 30}),
	)
	for _, p := range points {
		scatter.AddSeries(p.Label, []opts.ScatterData{{
			Name:       fmt.Sprintf("n=%d", p.Count),
			Value:      []interface{}{round1(p.X), round1(p.Y)},
			SymbolSize: 12,
		}}, charts.WithItemStyleOpts(opts.ItemStyle{Color: p.Color}))
	}
	return scatter
}

// PriceChart draws grouped price bars.
func PriceChart(data *PriceChartData, o PageOptions) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(o.init("480px")),
		charts.WithTitleOpts(opts.Title{Title: "Purchase price", Subtitle: "% of respondents with a valid price"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	bar.SetXAxis(data.Labels)
	for _, s := range data.Series {
		values := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			values[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, values, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
	}
	return bar
}

// SectionChart draws one categorical breakdown. A nil section yields nil.
func SectionChart(data *BarChartData, o PageOptions) *charts.Bar {
	if data == nil {
		return nil
	}
	values := make([]opts.BarData, len(data.Values))
	for i, v := range data.Values {
		values[i] = opts.BarData{Name: fmt.Sprintf("n=%d", data.Counts[i]), Value: v}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(o.init("360px")),
		charts.WithTitleOpts(opts.Title{Title: data.Title, Subtitle: data.Subtext}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(data.Labels).
		AddSeries(data.Title, values,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

// StateMap draws the choropleth of respondent share per state.
func StateMap(data *MapChartData, o PageOptions) *charts.Map {
	top := data.Max
	if top == 0 {
		top = 1
	}

	m := charts.NewMap()
	m.RegisterMapType("USA")
	m.SetGlobalOptions(
		charts.WithInitializationOpts(o.init("560px")),
		charts.WithTitleOpts(opts.Title{Title: "States", Subtitle: fmt.Sprintf("unresolved=%d", data.Unresolved)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(top),
			InRange:    &opts.VisualMapInRange{Color: []string{data.Base, data.Peak}},
		}),
	)

	items := make([]opts.MapData, len(data.Items))
	for i, it := range data.Items {
		items[i] = opts.MapData{Name: it.Name, Value: it.Percentage}
	}
	m.AddSeries("share", items)
	return m
}
