package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/buyer.atlas/internal/summary"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

// PriceHistogramPlot builds a grouped bar chart with one bar per group in
// every price bucket.
func PriceHistogramPlot(hists []summary.PriceHistogram) (*plot.Plot, error) {
	data := PreparePriceChartData(hists)

	p := plot.New()
	p.Title.Text = "Purchase price by group"
	p.X.Label.Text = "Price"
	p.Y.Label.Text = "% of group"
	p.Y.Min = 0

	if len(data.Series) == 0 {
		return p, nil
	}

	width := vg.Points(40) / vg.Length(len(data.Series))
	for i, s := range data.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return nil, fmt.Errorf("bars for %s: %w", s.Name, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		if c, err := view.ParseHex(s.Color); err == nil {
			bars.Color = c
		}
		bars.Offset = width * (vg.Length(i) - vg.Length(len(data.Series)-1)/2)
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.NominalX(data.Labels...)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WritePriceHistogram saves the grouped price chart. The image format
// follows the file extension (.png, .svg, .pdf).
func WritePriceHistogram(file string, hists []summary.PriceHistogram) error {
	p, err := PriceHistogramPlot(hists)
	if err != nil {
		return err
	}
	if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save %s: %w", file, err)
	}
	return nil
}
