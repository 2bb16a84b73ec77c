package view

import (
	"github.com/banshee-data/buyer.atlas/internal/geo"
	"github.com/banshee-data/buyer.atlas/internal/survey"
)

// SecondaryFilter narrows a scope to one state or one focused model. Empty
// fields mean no restriction.
type SecondaryFilter struct {
	State      string `json:"state,omitempty"`
	ModelFocus string `json:"model_focus,omitempty"`
}

// IsEmpty reports whether the filter restricts nothing.
func (f SecondaryFilter) IsEmpty() bool {
	return f.State == "" && f.ModelFocus == ""
}

// Filter is the full cascade applied by Resolve.
type Filter struct {
	// Models is the model selection; empty selects every model.
	Models      []string
	ClusterZoom *int
	Secondary   SecondaryFilter
}

// Resolve applies the model selection, then the cluster zoom, then the
// secondary filter. It does not repair a zoom or selection that no longer
// matches anything; that is the controller's job.
func Resolve(records []survey.Record, f Filter, states *geo.Resolver) survey.Scope {
	s := FilterModels(records, f.Models)
	s = FilterCluster(s, f.ClusterZoom)
	return FilterSecondary(s, f.Secondary, states)
}

// FilterModels keeps records whose model is selected. An empty selection
// keeps everything.
func FilterModels(records []survey.Record, models []string) survey.Scope {
	if len(models) == 0 {
		return survey.Scope(records)
	}
	set := make(map[string]bool, len(models))
	for _, m := range models {
		set[m] = true
	}
	return keep(records, func(r survey.Record) bool { return set[r.Model] })
}

// FilterCluster keeps records in the zoomed cluster. A nil zoom keeps
// everything.
func FilterCluster(scope survey.Scope, zoom *int) survey.Scope {
	if zoom == nil {
		return scope
	}
	c := *zoom
	return keep(scope, func(r survey.Record) bool { return r.Cluster == c })
}

// FilterSecondary applies the state and model-focus restrictions. The state
// selection and each record's state are both compared in canonical form.
func FilterSecondary(scope survey.Scope, f SecondaryFilter, states *geo.Resolver) survey.Scope {
	if f.IsEmpty() {
		return scope
	}
	want, _ := geo.Canonical(f.State)
	return keep(scope, func(r survey.Record) bool {
		if f.ModelFocus != "" && r.Model != f.ModelFocus {
			return false
		}
		if f.State != "" {
			if states == nil {
				return false
			}
			st, ok := states.Resolve(r)
			if !ok || st.Name != want {
				return false
			}
		}
		return true
	})
}

func keep(records []survey.Record, pred func(survey.Record) bool) survey.Scope {
	out := make(survey.Scope, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
