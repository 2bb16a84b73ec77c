package view

import (
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/buyer.atlas/internal/survey"
)

// DefaultPadding is the fraction of the span added on each side of a domain.
const DefaultPadding = 0.05

// degenerateSpan replaces a zero-width span so the interval stays non-empty.
const degenerateSpan = 1.0

// Interval is a closed numeric range.
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Lerp interpolates from i toward to by e.
func (i Interval) Lerp(to Interval, e float64) Interval {
	return Interval{
		Min: i.Min + (to.Min-i.Min)*e,
		Max: i.Max + (to.Max-i.Max)*e,
	}
}

// Domain holds one interval per axis.
type Domain struct {
	X Interval `json:"x"`
	Y Interval `json:"y"`
}

// Lerp interpolates each axis independently.
func (d Domain) Lerp(to Domain, e float64) Domain {
	return Domain{X: d.X.Lerp(to.X, e), Y: d.Y.Lerp(to.Y, e)}
}

// DomainOf returns the padded bounds of the raw embedding coordinates in
// scope. Displayed (collapsed) coordinates are never used, so the collapse
// parameter cannot move the axes. It returns false for an empty scope.
func DomainOf(scope survey.Scope, padding float64) (Domain, bool) {
	if len(scope) == 0 {
		return Domain{}, false
	}
	if padding < 0 {
		padding = DefaultPadding
	}
	xs := make([]float64, len(scope))
	ys := make([]float64, len(scope))
	for i, r := range scope {
		xs[i] = r.EmbX
		ys[i] = r.EmbY
	}
	return Domain{
		X: padded(floats.Min(xs), floats.Max(xs), padding),
		Y: padded(floats.Min(ys), floats.Max(ys), padding),
	}, true
}

func padded(lo, hi, padding float64) Interval {
	if lo == hi {
		lo -= degenerateSpan / 2
		hi += degenerateSpan / 2
	}
	pad := (hi - lo) * padding
	return Interval{Min: lo - pad, Max: hi + pad}
}
