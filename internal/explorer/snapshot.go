package explorer

import (
	"github.com/banshee-data/buyer.atlas/internal/geo"
	"github.com/banshee-data/buyer.atlas/internal/summary"
	"github.com/banshee-data/buyer.atlas/internal/survey"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

// Params is the committed parameter set.
type Params struct {
	Models            []string             `json:"models,omitempty" yaml:"models,omitempty"`
	ClusterZoom       *int                 `json:"cluster_zoom,omitempty" yaml:"cluster_zoom,omitempty"`
	Grouping          view.GroupingMode    `json:"grouping" yaml:"grouping"`
	Collapse          float64              `json:"collapse" yaml:"collapse"`
	Secondary         view.SecondaryFilter `json:"secondary" yaml:"secondary"`
	CategoricalFields []string             `json:"categorical_fields,omitempty" yaml:"categorical_fields,omitempty"`
	NumericFields     []string             `json:"numeric_fields,omitempty" yaml:"numeric_fields,omitempty"`
	XVar              string               `json:"x_var,omitempty" yaml:"x_var,omitempty"`
	YVar              string               `json:"y_var,omitempty" yaml:"y_var,omitempty"`
}

func (p Params) clone() Params {
	out := p
	out.Models = append([]string(nil), p.Models...)
	out.CategoricalFields = append([]string(nil), p.CategoricalFields...)
	out.NumericFields = append([]string(nil), p.NumericFields...)
	if p.ClusterZoom != nil {
		z := *p.ClusterZoom
		out.ClusterZoom = &z
	}
	return out
}

// Snapshot is every output for one committed parameter set. It shares no
// slices with the controller.
type Snapshot struct {
	Params Params `json:"params" yaml:"params"`

	Total int `json:"total" yaml:"total"`
	Scope int `json:"scope" yaml:"scope"`

	Keys   []view.GroupKey `json:"keys" yaml:"keys"`
	Colors []string        `json:"colors" yaml:"colors"`
	Points []view.Point    `json:"points" yaml:"points"`

	// Domain is the currently rendered domain; Target is where it is heading.
	Domain    view.Domain `json:"domain" yaml:"domain"`
	Target    view.Domain `json:"target" yaml:"target"`
	Animating bool        `json:"animating" yaml:"animating"`

	Hotspots []view.Centroid          `json:"hotspots,omitempty" yaml:"hotspots,omitempty"`
	Sections []summary.Section        `json:"sections" yaml:"sections"`
	Attitude []summary.AttitudePoint  `json:"attitude,omitempty" yaml:"attitude,omitempty"`
	Prices   []summary.PriceHistogram `json:"prices" yaml:"prices"`
	States   geo.Shares               `json:"states" yaml:"states"`
}

// Snapshot derives every output for the current parameters.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.keysLocked()
	s := Snapshot{
		Params:    c.p.clone(),
		Total:     len(c.records),
		Scope:     len(c.scopeLocked()),
		Keys:      append([]view.GroupKey(nil), keys...),
		Colors:    c.palette.Colors(keys),
		Points:    append([]view.Point(nil), c.pointsLocked()...),
		Domain:    c.anim.Current(),
		Target:    c.anim.Target(),
		Animating: c.anim.Animating(),
		Hotspots:  append([]view.Centroid(nil), c.hotspotsLocked()...),
		Sections:  append([]summary.Section(nil), c.sectionsLocked()...),
		Attitude:  append([]summary.AttitudePoint(nil), c.attitudeLocked()...),
		Prices:    append([]summary.PriceHistogram(nil), c.pricesLocked()...),
		States:    c.geoLocked(),
	}
	s.States.States = append([]geo.Share(nil), s.States.States...)
	return s
}

// Scope returns the current filtered records.
func (c *Controller) Scope() survey.Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(survey.Scope(nil), c.scopeLocked()...)
}

// AgreementTable scores variables over the current scope.
func (c *Controller) AgreementTable(variables []string) []summary.AgreementRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy.AgreementTable(c.scopeLocked(), variables)
}
