package explorer

import (
	"github.com/banshee-data/buyer.atlas/internal/geo"
	"github.com/banshee-data/buyer.atlas/internal/summary"
	"github.com/banshee-data/buyer.atlas/internal/survey"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

// Cell accessors. Each reads its upstream cells first so their versions are
// current, then recomputes only if a dependency moved. Callers hold c.mu.

func (c *Controller) modelScopeLocked() survey.Scope {
	return c.cl.modelScope.get(deps(c.in.models.version), func() survey.Scope {
		return view.FilterModels(c.records, c.p.Models)
	}, c.recomputed)
}

func (c *Controller) zoomScopeLocked() survey.Scope {
	ms := c.modelScopeLocked()
	return c.cl.zoomScope.get(deps(c.cl.modelScope.version, c.in.zoom.version), func() survey.Scope {
		return view.FilterCluster(ms, c.p.ClusterZoom)
	}, c.recomputed)
}

func (c *Controller) scopeLocked() survey.Scope {
	zs := c.zoomScopeLocked()
	return c.cl.scope.get(deps(c.cl.zoomScope.version, c.in.secondary.version), func() survey.Scope {
		return view.FilterSecondary(zs, c.p.Secondary, c.states)
	}, c.recomputed)
}

// keysLocked is computed from the full corpus so colors do not depend on
// the scope.
func (c *Controller) keysLocked() []view.GroupKey {
	return c.cl.keys.get(deps(c.in.grouping.version), func() []view.GroupKey {
		return view.KnownKeys(c.records, c.p.Grouping)
	}, c.recomputed)
}

func (c *Controller) centroidsLocked() map[view.GroupKey]view.Centroid {
	s := c.scopeLocked()
	return c.cl.centroids.get(deps(c.cl.scope.version, c.in.grouping.version), func() map[view.GroupKey]view.Centroid {
		return view.Centroids(s, c.p.Grouping)
	}, c.recomputed)
}

func (c *Controller) pointsLocked() []view.Point {
	s := c.scopeLocked()
	cents := c.centroidsLocked()
	keys := c.keysLocked()
	d := deps(c.cl.scope.version, c.cl.centroids.version, c.cl.keys.version, c.in.collapse.version)
	return c.cl.points.get(d, func() []view.Point {
		return view.Collapse(s, c.p.Grouping, cents, c.p.Collapse, keys, c.palette)
	}, c.recomputed)
}

// hotspotsLocked is empty while a cluster is zoomed.
func (c *Controller) hotspotsLocked() []view.Centroid {
	cents := c.centroidsLocked()
	keys := c.keysLocked()
	d := deps(c.cl.centroids.version, c.cl.keys.version, c.in.zoom.version)
	return c.cl.hotspots.get(d, func() []view.Centroid {
		if c.p.ClusterZoom != nil {
			return nil
		}
		return view.SortedCentroids(cents, keys, c.palette)
	}, c.recomputed)
}

// domainLocked depends on the scope only. Collapse and grouping never move
// the axes.
func (c *Controller) domainLocked() domainResult {
	s := c.scopeLocked()
	return c.cl.domain.get(deps(c.cl.scope.version), func() domainResult {
		d, ok := view.DomainOf(s, c.padding)
		return domainResult{d: d, ok: ok}
	}, c.recomputed)
}

func (c *Controller) sectionsLocked() []summary.Section {
	s := c.scopeLocked()
	return c.cl.sections.get(deps(c.cl.scope.version, c.in.fields.version), func() []summary.Section {
		return summary.Summarize(s, c.p.CategoricalFields, c.codes, c.p.NumericFields)
	}, c.recomputed)
}

func (c *Controller) attitudeLocked() []summary.AttitudePoint {
	s := c.scopeLocked()
	keys := c.keysLocked()
	d := deps(c.cl.scope.version, c.cl.keys.version, c.in.grouping.version, c.in.axes.version)
	return c.cl.attitude.get(d, func() []summary.AttitudePoint {
		return c.policy.AttitudePoints(s, c.p.Grouping, keys, c.palette, c.p.XVar, c.p.YVar)
	}, c.recomputed)
}

func (c *Controller) pricesLocked() []summary.PriceHistogram {
	s := c.scopeLocked()
	keys := c.keysLocked()
	d := deps(c.cl.scope.version, c.cl.keys.version, c.in.grouping.version)
	return c.cl.prices.get(d, func() []summary.PriceHistogram {
		return c.prices.GroupHistograms(s, c.p.Grouping, keys, c.palette)
	}, c.recomputed)
}

func (c *Controller) geoLocked() geo.Shares {
	s := c.scopeLocked()
	return c.cl.geo.get(deps(c.cl.scope.version), func() geo.Shares {
		return geo.Aggregate(s, c.states)
	}, c.recomputed)
}
