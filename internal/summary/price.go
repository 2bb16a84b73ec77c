package summary

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/banshee-data/buyer.atlas/internal/survey"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

// ErrInvalidPriceScheme is returned by PriceScheme.Validate.
var ErrInvalidPriceScheme = errors.New("invalid price scheme")

// Default price bucketing.
const (
	DefaultPriceField   = "PRICE"
	DefaultPriceFloor   = 30000.0
	DefaultPriceStep    = 5000.0
	DefaultPriceCeiling = 110000.0
)

// labelResolution is the gap between one bucket's upper label and the next
// bucket's lower bound ("$30k to $34.9k", "$35k to ...").
const labelResolution = 100.0

// PriceScheme splits prices into an open low bucket, fixed-width middle
// buckets, and an open high bucket.
type PriceScheme struct {
	Field   string  `json:"field" yaml:"field"`
	Floor   float64 `json:"floor" yaml:"floor"`
	Step    float64 `json:"step" yaml:"step"`
	Ceiling float64 `json:"ceiling" yaml:"ceiling"`
}

// DefaultPriceScheme returns PRICE bucketed from $30k to $110k in $5k steps.
func DefaultPriceScheme() PriceScheme {
	return PriceScheme{
		Field:   DefaultPriceField,
		Floor:   DefaultPriceFloor,
		Step:    DefaultPriceStep,
		Ceiling: DefaultPriceCeiling,
	}
}

// Validate checks that the scheme yields at least one middle bucket.
func (s PriceScheme) Validate() error {
	if s.Field == "" {
		return fmt.Errorf("%w: field is empty", ErrInvalidPriceScheme)
	}
	if !(s.Step > 0) || math.IsInf(s.Step, 0) {
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidPriceScheme, s.Step)
	}
	if !(s.Ceiling > s.Floor) || math.IsInf(s.Ceiling, 0) || math.IsInf(s.Floor, 0) {
		return fmt.Errorf("%w: ceiling %v must exceed floor %v", ErrInvalidPriceScheme, s.Ceiling, s.Floor)
	}
	return nil
}

func (s PriceScheme) middle() int {
	return int(math.Ceil((s.Ceiling - s.Floor) / s.Step))
}

// NumBuckets is the total bucket count including both open ends.
func (s PriceScheme) NumBuckets() int {
	return s.middle() + 2
}

// Labels returns the bucket labels in ascending price order.
func (s PriceScheme) Labels() []string {
	n := s.middle()
	out := make([]string, 0, n+2)
	out = append(out, "Under "+dollarsK(s.Floor))
	for i := 0; i < n; i++ {
		lo := s.Floor + float64(i)*s.Step
		hi := math.Min(lo+s.Step, s.Ceiling) - labelResolution
		out = append(out, dollarsK(lo)+" to "+dollarsK(hi))
	}
	out = append(out, dollarsK(s.Ceiling)+"+")
	return out
}

func dollarsK(v float64) string {
	return "$" + strconv.FormatFloat(v/1000, 'f', -1, 64) + "k"
}

// Index returns the bucket for price. Every finite price maps to exactly one
// bucket.
func (s PriceScheme) Index(price float64) int {
	last := s.NumBuckets() - 1
	switch {
	case price < s.Floor:
		return 0
	case price >= s.Ceiling:
		return last
	}
	i := 1 + int(math.Floor((price-s.Floor)/s.Step))
	if i < 1 {
		i = 1
	}
	if i > last-1 {
		i = last - 1
	}
	return i
}

// PriceBucket is one bar of a price histogram.
type PriceBucket struct {
	Label      string  `json:"label" yaml:"label"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// PriceHistogram is the price distribution of one group. Percentages are
// relative to Valid.
type PriceHistogram struct {
	Key     *view.GroupKey `json:"key,omitempty" yaml:"key,omitempty"`
	Label   string         `json:"label" yaml:"label"`
	Color   string         `json:"color,omitempty" yaml:"color,omitempty"`
	Buckets []PriceBucket  `json:"buckets" yaml:"buckets"`
	Valid   int            `json:"valid" yaml:"valid"`
	Missing int            `json:"missing" yaml:"missing"`
}

// Histogram buckets every price in scope into one distribution labelled
// "All".
func (s PriceScheme) Histogram(scope survey.Scope) PriceHistogram {
	h := s.histogram(scope)
	h.Label = "All"
	return h
}

// GroupHistograms returns one histogram per group present in scope, in the
// order of keys, colored like the scatter.
func (s PriceScheme) GroupHistograms(scope survey.Scope, mode view.GroupingMode, keys []view.GroupKey, palette view.Palette) []PriceHistogram {
	groups := make(map[view.GroupKey]survey.Scope)
	for _, r := range scope {
		k := view.KeyOf(r, mode)
		groups[k] = append(groups[k], r)
	}

	out := make([]PriceHistogram, 0, len(groups))
	emit := func(k view.GroupKey) {
		g, ok := groups[k]
		if !ok {
			return
		}
		delete(groups, k)
		h := s.histogram(g)
		key := k
		h.Key = &key
		h.Label = k.String()
		h.Color = palette.ColorFor(k, keys)
		out = append(out, h)
	}
	for _, k := range keys {
		emit(k)
	}
	// groups outside keys still get a histogram, after the known ones
	rest := make([]view.GroupKey, 0, len(groups))
	for k := range groups {
		rest = append(rest, k)
	}
	view.SortKeys(rest)
	for _, k := range rest {
		emit(k)
	}
	return out
}

func (s PriceScheme) histogram(scope survey.Scope) PriceHistogram {
	labels := s.Labels()
	h := PriceHistogram{Buckets: make([]PriceBucket, len(labels))}
	for i, l := range labels {
		h.Buckets[i].Label = l
	}
	for _, r := range scope {
		p, ok := survey.ParseNumber(r.Value(s.Field))
		if !ok {
			h.Missing++
			continue
		}
		h.Buckets[s.Index(p)].Count++
		h.Valid++
	}
	for i := range h.Buckets {
		h.Buckets[i].Percentage = percentOf(h.Buckets[i].Count, h.Valid)
	}
	return h
}
