// Package explorer owns the interactive parameters of a respondent corpus
// view and derives every output from them. Derived values are memoized per
// input version, stale selections are repaired after each change, and the
// axis domain animates through a frame scheduler.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/banshee-data/buyer.atlas/internal/config"
	"github.com/banshee-data/buyer.atlas/internal/geo"
	"github.com/banshee-data/buyer.atlas/internal/monitoring"
	"github.com/banshee-data/buyer.atlas/internal/summary"
	"github.com/banshee-data/buyer.atlas/internal/survey"
	"github.com/banshee-data/buyer.atlas/internal/timeutil"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

// ErrExternalScheduler is returned by Run when frames are driven by a
// scheduler supplied through WithScheduler.
var ErrExternalScheduler = errors.New("explorer: frames are driven by an external scheduler")

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes debug events (stale resets, recomputations) to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l.Sugar()
		}
	}
}

// WithClock sets the animation clock.
func WithClock(clock timeutil.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithScheduler drives animation frames from sched instead of the
// controller's own frame loop.
func WithScheduler(sched timeutil.FrameScheduler) Option {
	return func(c *Controller) { c.sched = sched }
}

// WithMetrics attaches prometheus counters.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithCodes labels coded fields in summaries, geo resolution and agreement.
func WithCodes(codes *survey.CodeTable) Option {
	return func(c *Controller) { c.codes = codes }
}

// WithFrameListener receives every rendered domain. It is called from the
// frame driver and must not call back into the controller.
func WithFrameListener(fn func(view.Domain)) Option {
	return func(c *Controller) { c.onFrame = fn }
}

// Controller holds the parameter set for one corpus.
type Controller struct {
	mu sync.Mutex

	records []survey.Record
	models  []string
	cfg     *config.ExplorerConfig

	codes   *survey.CodeTable
	states  *geo.Resolver
	palette view.Palette
	padding float64
	prices  summary.PriceScheme
	policy  summary.AgreementPolicy
	clock   timeutil.Clock
	sched   timeutil.FrameScheduler
	loop    *timeutil.FrameLoop
	anim    *view.DomainAnimator
	metrics *monitoring.Metrics
	log     *zap.SugaredLogger
	onFrame func(view.Domain)

	p  Params
	in inputs
	cl cells
}

type inputs struct {
	models, zoom, grouping, collapse, secondary, fields, axes input
}

type cells struct {
	modelScope *cell[survey.Scope]
	zoomScope  *cell[survey.Scope]
	scope      *cell[survey.Scope]
	keys       *cell[[]view.GroupKey]
	centroids  *cell[map[view.GroupKey]view.Centroid]
	points     *cell[[]view.Point]
	hotspots   *cell[[]view.Centroid]
	domain     *cell[domainResult]
	sections   *cell[[]summary.Section]
	attitude   *cell[[]summary.AttitudePoint]
	prices     *cell[[]summary.PriceHistogram]
	geo        *cell[geo.Shares]
}

type domainResult struct {
	d  view.Domain
	ok bool
}

// New builds a controller over normalised records. A nil cfg uses defaults.
func New(records []survey.Record, cfg *config.ExplorerConfig, opts ...Option) *Controller {
	if cfg == nil {
		cfg = config.Empty()
	}
	c := &Controller{
		records: records,
		models:  survey.Models(records),
		cfg:     cfg,
		palette: cfg.GetPalette(),
		padding: cfg.GetDomainPadding(),
		prices:  cfg.PriceScheme(),
		clock:   timeutil.RealClock{},
		p: Params{
			Grouping:          view.ByCluster,
			CategoricalFields: append([]string(nil), cfg.CategoricalFields...),
			NumericFields:     append([]string(nil), cfg.NumericFields...),
		},
		cl: cells{
			modelScope: newCell[survey.Scope]("model_scope"),
			zoomScope:  newCell[survey.Scope]("zoom_scope"),
			scope:      newCell[survey.Scope]("scope"),
			keys:       newCell[[]view.GroupKey]("keys"),
			centroids:  newCell[map[view.GroupKey]view.Centroid]("centroids"),
			points:     newCell[[]view.Point]("points"),
			hotspots:   newCell[[]view.Centroid]("hotspots"),
			domain:     newCell[domainResult]("domain"),
			sections:   newCell[[]summary.Section]("sections"),
			attitude:   newCell[[]summary.AttitudePoint]("attitude"),
			prices:     newCell[[]summary.PriceHistogram]("prices"),
			geo:        newCell[geo.Shares]("geo"),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.states = geo.NewResolver(cfg.GetStateFields(), c.codes)
	c.policy = cfg.AgreementPolicy(c.codes)
	if c.sched == nil {
		c.loop = timeutil.NewFrameLoop()
		c.sched = c.loop
	}
	c.anim = view.NewDomainAnimator(c.sched, c.clock, cfg.GetAnimationDuration(), c.onFrame)
	c.anim.SetMetrics(c.metrics)

	c.mu.Lock()
	c.commitLocked()
	c.mu.Unlock()
	return c
}

func (c *Controller) debugf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Debugf(format, args...)
		return
	}
	monitoring.Debugf(format, args...)
}

func (c *Controller) recomputed(name string) {
	c.metrics.Recomputed(name)
}

// Models lists every model in the corpus.
func (c *Controller) Models() []string {
	return append([]string(nil), c.models...)
}

// Records returns the normalised corpus.
func (c *Controller) Records() []survey.Record {
	return c.records
}

// Frames returns the controller's own frame loop, or nil when an external
// scheduler drives the animation.
func (c *Controller) Frames() *timeutil.FrameLoop {
	return c.loop
}

// Run ticks the controller's frame loop until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	if c.loop == nil {
		return ErrExternalScheduler
	}
	return c.loop.Run(ctx, c.clock, c.cfg.GetFrameInterval())
}

// Settle finishes any domain animation immediately.
func (c *Controller) Settle() {
	c.anim.Finish()
}

// SetModels replaces the model selection. An empty selection shows every
// model.
func (c *Controller) SetModels(models []string) {
	c.update(func() bool {
		next := normalizeSelection(models)
		if equalStrings(next, c.p.Models) {
			return false
		}
		c.p.Models = next
		c.in.models.bump()
		return true
	})
}

// ToggleModel adds m to the selection or removes it.
func (c *Controller) ToggleModel(m string) {
	c.update(func() bool {
		next := make([]string, 0, len(c.p.Models)+1)
		found := false
		for _, s := range c.p.Models {
			if s == m {
				found = true
				continue
			}
			next = append(next, s)
		}
		if !found {
			next = append(next, m)
		}
		c.p.Models = normalizeSelection(next)
		c.in.models.bump()
		return true
	})
}

// SelectAllModels selects every model in the corpus explicitly.
func (c *Controller) SelectAllModels() {
	c.update(func() bool {
		if equalStrings(c.p.Models, c.models) {
			return false
		}
		c.p.Models = append([]string(nil), c.models...)
		c.in.models.bump()
		return true
	})
}

// ClearModels empties the selection, which removes the model restriction.
func (c *Controller) ClearModels() {
	c.update(func() bool {
		if len(c.p.Models) == 0 {
			return false
		}
		c.p.Models = nil
		c.in.models.bump()
		return true
	})
}

// SetClusterZoom zooms into one cluster.
func (c *Controller) SetClusterZoom(cluster int) {
	c.update(func() bool {
		if c.p.ClusterZoom != nil && *c.p.ClusterZoom == cluster {
			return false
		}
		c.p.ClusterZoom = &cluster
		c.in.zoom.bump()
		return true
	})
}

// ClearClusterZoom returns to the unzoomed view.
func (c *Controller) ClearClusterZoom() {
	c.update(func() bool {
		if c.p.ClusterZoom == nil {
			return false
		}
		c.p.ClusterZoom = nil
		c.in.zoom.bump()
		return true
	})
}

// SetGrouping switches between cluster and model grouping.
func (c *Controller) SetGrouping(mode view.GroupingMode) error {
	m, err := view.ParseGroupingMode(string(mode))
	if err != nil {
		return err
	}
	c.update(func() bool {
		if m == c.p.Grouping {
			return false
		}
		c.p.Grouping = m
		c.in.grouping.bump()
		return true
	})
	return nil
}

// SetCollapse sets the collapse interpolation, clamped to [0,1].
func (c *Controller) SetCollapse(t float64) {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	c.update(func() bool {
		if t == c.p.Collapse {
			return false
		}
		c.p.Collapse = t
		c.in.collapse.bump()
		return true
	})
}

// SetSecondary sets the state / model focus filter.
func (c *Controller) SetSecondary(f view.SecondaryFilter) {
	c.update(func() bool {
		if f == c.p.Secondary {
			return false
		}
		c.p.Secondary = f
		c.in.secondary.bump()
		return true
	})
}

// SetFields chooses the categorical and numeric summary fields.
func (c *Controller) SetFields(categorical, numeric []string) {
	c.update(func() bool {
		if equalStrings(categorical, c.p.CategoricalFields) && equalStrings(numeric, c.p.NumericFields) {
			return false
		}
		c.p.CategoricalFields = append([]string(nil), categorical...)
		c.p.NumericFields = append([]string(nil), numeric...)
		c.in.fields.bump()
		return true
	})
}

// SetAttitudeAxes chooses the two agreement variables for the attitude
// plot.
func (c *Controller) SetAttitudeAxes(x, y string) {
	c.update(func() bool {
		if x == c.p.XVar && y == c.p.YVar {
			return false
		}
		c.p.XVar, c.p.YVar = x, y
		c.in.axes.bump()
		return true
	})
}

// Params returns a copy of the committed parameters.
func (c *Controller) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.p.clone()
}

func (c *Controller) update(apply func() bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !apply() {
		return
	}
	c.commitLocked()
}

// commitLocked repairs stale selections and pushes the domain target to the
// animator.
func (c *Controller) commitLocked() {
	c.repairLocked()
	if dr := c.domainLocked(); dr.ok {
		c.anim.SetTarget(dr.d)
	}
}

// repairLocked resets a cluster zoom missing from the model-filtered scope,
// then a state or model focus missing from the zoomed scope.
func (c *Controller) repairLocked() {
	if z := c.p.ClusterZoom; z != nil && !hasCluster(c.modelScopeLocked(), *z) {
		c.staleReset("cluster_zoom", fmt.Sprint(*z))
		c.p.ClusterZoom = nil
		c.in.zoom.bump()
	}

	zoomed := c.zoomScopeLocked()
	sec := c.p.Secondary
	changed := false
	if sec.State != "" && !hasState(zoomed, sec.State, c.states) {
		c.staleReset("state", sec.State)
		sec.State = ""
		changed = true
	}
	if sec.ModelFocus != "" && !hasModel(zoomed, sec.ModelFocus) {
		c.staleReset("model_focus", sec.ModelFocus)
		sec.ModelFocus = ""
		changed = true
	}
	if changed {
		c.p.Secondary = sec
		c.in.secondary.bump()
	}
}

func (c *Controller) staleReset(param, value string) {
	c.debugf("reset stale %s %q to all", param, value)
	c.metrics.StaleReset(param)
}

func hasCluster(scope survey.Scope, cluster int) bool {
	for _, r := range scope {
		if r.Cluster == cluster {
			return true
		}
	}
	return false
}

func hasModel(scope survey.Scope, model string) bool {
	for _, r := range scope {
		if r.Model == model {
			return true
		}
	}
	return false
}

func hasState(scope survey.Scope, state string, states *geo.Resolver) bool {
	want, ok := geo.Canonical(state)
	if !ok {
		return false
	}
	for _, r := range scope {
		if st, ok := states.Resolve(r); ok && st.Name == want {
			return true
		}
	}
	return false
}

func normalizeSelection(models []string) []string {
	if len(models) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(models))
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
