package geo

import (
	"sort"

	"github.com/banshee-data/buyer.atlas/internal/survey"
)

// Share is one state's share of the resolved records in a scope.
type Share struct {
	State      string  `json:"state"`
	Abbrev     string  `json:"abbrev"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	// Intensity is Percentage/Max in [0,1], ready for a color ramp.
	Intensity float64 `json:"intensity"`
}

// Shares is the per-state aggregate for a scope.
type Shares struct {
	States     []Share `json:"states"`
	Max        float64 `json:"max_percentage"`
	Resolved   int     `json:"resolved"`
	Unresolved int     `json:"unresolved"`
}

// Percentages returns the state name -> percentage map.
func (s Shares) Percentages() map[string]float64 {
	out := make(map[string]float64, len(s.States))
	for _, sh := range s.States {
		out[sh.State] = sh.Percentage
	}
	return out
}

// Aggregate counts resolved states in scope. Unresolved records are
// excluded from the denominator.
func Aggregate(scope survey.Scope, r *Resolver) Shares {
	counts := make(map[State]int)
	var out Shares
	for _, rec := range scope {
		st, ok := r.Resolve(rec)
		if !ok {
			out.Unresolved++
			continue
		}
		counts[st]++
		out.Resolved++
	}
	if out.Resolved == 0 {
		return out
	}

	out.States = make([]Share, 0, len(counts))
	for st, n := range counts {
		pct := float64(n) / float64(out.Resolved) * 100
		if pct > out.Max {
			out.Max = pct
		}
		out.States = append(out.States, Share{State: st.Name, Abbrev: st.Abbrev, Count: n, Percentage: pct})
	}
	for i := range out.States {
		out.States[i].Intensity = out.States[i].Percentage / out.Max
	}
	sort.Slice(out.States, func(i, j int) bool {
		a, b := out.States[i], out.States[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.State < b.State
	})
	return out
}
