package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/banshee-data/buyer.atlas/internal/explorer"
	"github.com/banshee-data/buyer.atlas/internal/monitoring"
	"github.com/banshee-data/buyer.atlas/internal/render"
	"github.com/banshee-data/buyer.atlas/internal/security"
	"github.com/banshee-data/buyer.atlas/internal/summary"
	"github.com/banshee-data/buyer.atlas/internal/survey"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

// viewOptions are the per-command data and parameter flags.
type viewOptions struct {
	data     string
	table    string
	models   []string
	cluster  int
	state    string
	focus    string
	group    string
	collapse float64
	fields   []string
	numeric  []string
	xVar     string
	yVar     string
}

func (vo *viewOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&vo.data, "data", "", "corpus file (.json, .csv, .db or .sqlite)")
	f.StringVar(&vo.table, "table", "", "table to read from a SQLite corpus (default respondents)")
	f.StringSliceVar(&vo.models, "models", nil, "models to include (default all)")
	f.IntVar(&vo.cluster, "cluster", 0, "zoom into one cluster")
	f.StringVar(&vo.state, "state", "", "keep respondents from one state")
	f.StringVar(&vo.focus, "focus", "", "keep respondents of one model")
	f.StringVar(&vo.group, "group", string(view.ByCluster), "grouping: cluster or model")
	f.Float64Var(&vo.collapse, "collapse", 0, "collapse toward group centroids, 0 to 1")
	f.StringSliceVar(&vo.fields, "fields", nil, "categorical fields to summarise (default from config)")
	f.StringSliceVar(&vo.numeric, "numeric", nil, "numeric fields to summarise (default from config)")
	f.StringVar(&vo.xVar, "x", "", "attitude variable for the x axis")
	f.StringVar(&vo.yVar, "y", "", "attitude variable for the y axis")
	_ = cmd.MarkFlagRequired("data")
}

// session is one loaded corpus with parameters applied.
type session struct {
	ctrl    *explorer.Controller
	dropped int
}

// open loads the corpus, builds a controller, applies the flags, and settles
// the domain animation.
func open(ctx context.Context, cmd *cobra.Command, e *env, vo *viewOptions) (*session, error) {
	log := e.log.Sugar()

	var codes *survey.CodeTable
	if path := e.cfg.GetCodeTable(); path != "" {
		ct, err := survey.LoadCodeTable(path)
		if err != nil {
			return nil, err
		}
		codes = ct
	}

	raw, err := survey.LoadFile(ctx, vo.data, vo.table)
	if err != nil {
		return nil, err
	}
	res := survey.Normalize(raw, e.cfg.NormalizeOptions())

	metrics, err := monitoring.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}
	metrics.AddDropped(res.Dropped)
	log.Infow("corpus loaded", "file", vo.data, "records", len(res.Records), "dropped", res.Dropped)

	ctrl := explorer.New(res.Records, e.cfg,
		explorer.WithLogger(e.log),
		explorer.WithCodes(codes),
		explorer.WithMetrics(metrics),
	)

	mode, err := view.ParseGroupingMode(vo.group)
	if err != nil {
		return nil, err
	}
	if err := ctrl.SetGrouping(mode); err != nil {
		return nil, err
	}
	if len(vo.models) > 0 {
		ctrl.SetModels(vo.models)
	}
	if cmd.Flags().Changed("cluster") {
		ctrl.SetClusterZoom(vo.cluster)
	}
	ctrl.SetSecondary(view.SecondaryFilter{State: vo.state, ModelFocus: vo.focus})
	if vo.collapse < 0 || vo.collapse > 1 {
		log.Debugw("collapse clamped", "requested", vo.collapse)
	}
	ctrl.SetCollapse(vo.collapse)

	p := ctrl.Params()
	categorical, numeric := p.CategoricalFields, p.NumericFields
	if cmd.Flags().Changed("fields") {
		categorical = vo.fields
	}
	if cmd.Flags().Changed("numeric") {
		numeric = vo.numeric
	}
	ctrl.SetFields(categorical, numeric)
	ctrl.SetAttitudeAxes(vo.xVar, vo.yVar)
	ctrl.Settle()

	// Parameters that named something absent are reset by the controller.
	p = ctrl.Params()
	if cmd.Flags().Changed("cluster") && p.ClusterZoom == nil {
		log.Debugw("cluster not present in scope; zoom cleared", "cluster", vo.cluster)
	}
	if vo.state != "" && p.Secondary.State == "" {
		log.Debugw("state not present in scope; filter cleared", "state", vo.state)
	}
	if vo.focus != "" && p.Secondary.ModelFocus == "" {
		log.Debugw("model not present in scope; focus cleared", "model", vo.focus)
	}
	return &session{ctrl: ctrl, dropped: res.Dropped}, nil
}

// report is what the summary command prints.
type report struct {
	explorer.Snapshot
	Dropped   int                    `json:"dropped"`
	Agreement []summary.AgreementRow `json:"agreement,omitempty"`
}

func newSummaryCommand(e *env) *cobra.Command {
	vo := &viewOptions{}
	var (
		format    string
		out       string
		points    bool
		agreement []string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summaries for the current scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context(), cmd, e, vo)
			if err != nil {
				return err
			}
			r := report{Snapshot: s.ctrl.Snapshot(), Dropped: s.dropped}
			if !points {
				r.Points = nil
			}
			if len(agreement) > 0 {
				r.Agreement = s.ctrl.AgreementTable(agreement)
				for i := range r.Agreement {
					if !r.Agreement[i].OK || math.IsNaN(r.Agreement[i].Percentage) {
						r.Agreement[i].Percentage = 0
					}
				}
			}
			return withOutput(cmd, out, func(f io.Writer) error {
				return writeReport(f, format, r)
			})
		},
	}
	vo.register(cmd)
	cmd.Flags().StringVarP(&format, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&out, "out", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&points, "points", false, "include every displayed point")
	cmd.Flags().StringSliceVar(&agreement, "agree", nil, "variables to score for agreement")
	return cmd
}

func newRenderCommand(e *env) *cobra.Command {
	vo := &viewOptions{}
	var (
		out        string
		title      string
		assetsHost string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write an HTML page of charts for the current scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context(), cmd, e, vo)
			if err != nil {
				return err
			}
			return withOutput(cmd, out, func(f io.Writer) error {
				return render.WritePage(f, s.ctrl.Snapshot(), render.PageOptions{Title: title, AssetsHost: assetsHost})
			})
		},
	}
	vo.register(cmd)
	cmd.Flags().StringVar(&out, "out", "atlas.html", "output HTML file; - for stdout")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().StringVar(&assetsHost, "assets-host", "", "host serving echarts assets")
	return cmd
}

func newPlotCommand(e *env) *cobra.Command {
	vo := &viewOptions{}
	var out string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Write the grouped price histogram as an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context(), cmd, e, vo)
			if err != nil {
				return err
			}
			if err := security.CheckOutputPath(out); err != nil {
				return err
			}
			if err := render.WritePriceHistogram(out, s.ctrl.Snapshot().Prices); err != nil {
				return err
			}
			e.log.Sugar().Infow("price plot written", "file", out)
			return nil
		},
	}
	vo.register(cmd)
	cmd.Flags().StringVar(&out, "out", "prices.png", "output image (.png, .svg or .pdf)")
	return cmd
}

// withOutput writes to cmd's stdout when path is empty or "-", otherwise to
// a created file.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}
	if err := security.CheckOutputPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
