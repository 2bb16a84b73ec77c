// Package summary aggregates survey fields over a scope: categorical
// distributions, numeric means, price histograms and agreement rates.
//
// Every function here is pure. Inputs are a survey.Scope and configuration;
// outputs are fresh values the caller may keep.
package summary

import (
	"math"

	"github.com/banshee-data/buyer.atlas/internal/units"
)

// Kind distinguishes categorical and numeric sections.
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindNumeric     Kind = "numeric"
)

// UnknownLabel names the synthetic bucket holding missing observations.
const UnknownLabel = "Unknown"

// percentTolerance is the drift from 100 that triggers residual correction.
const percentTolerance = 0.1

// Bucket is one label of a categorical distribution.
type Bucket struct {
	Label      string  `json:"label" yaml:"label"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	// Missing marks the synthetic Unknown bucket.
	Missing bool `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Section summarises one field over a scope.
type Section struct {
	Field   string   `json:"field" yaml:"field"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	Buckets []Bucket `json:"buckets,omitempty" yaml:"buckets,omitempty"`

	Valid   int `json:"valid" yaml:"valid"`
	Missing int `json:"missing" yaml:"missing"`
	// Invalid counts present values that are not numbers (numeric sections).
	Invalid int `json:"invalid,omitempty" yaml:"invalid,omitempty"`

	// Mean is NaN when a numeric section has no valid values.
	Mean    float64    `json:"-" yaml:"-"`
	Unit    units.Kind `json:"unit,omitempty" yaml:"unit,omitempty"`
	Display string     `json:"display,omitempty" yaml:"display,omitempty"`
}

// Total is the number of observations the section covers.
func (s Section) Total() int {
	return s.Valid + s.Missing + s.Invalid
}

// HasMean reports whether Mean is a finite value.
func (s Section) HasMean() bool {
	return s.Kind == KindNumeric && !math.IsNaN(s.Mean)
}

// Percentages lists bucket percentages in order.
func (s Section) Percentages() []float64 {
	out := make([]float64, len(s.Buckets))
	for i, b := range s.Buckets {
		out[i] = b.Percentage
	}
	return out
}

// correctResidual folds floating drift into the last bucket so the
// percentages add up to 100.
func correctResidual(buckets []Bucket) {
	if len(buckets) == 0 {
		return
	}
	sum := 0.0
	for _, b := range buckets {
		sum += b.Percentage
	}
	if d := 100 - sum; math.Abs(d) > percentTolerance {
		buckets[len(buckets)-1].Percentage += d
	}
}

func percentOf(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
