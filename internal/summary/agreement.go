package summary

import (
	"math"
	"path"
	"strings"

	"github.com/banshee-data/buyer.atlas/internal/survey"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

// AgreementRule is how a variable's labels are classified.
type AgreementRule string

const (
	RuleTopThree AgreementRule = "top3"
	RuleTopTwo   AgreementRule = "top2"
	RuleExact    AgreementRule = "exact"
)

// Default agreement policy values.
const (
	DefaultLoyaltyVariable = "LOYALTY"
	DefaultLikertPoints    = 7
)

var (
	DefaultLoyaltyAgreeLabels = []string{"yes"}
	DefaultTopTwoPatterns     = []string{"STATE_*"}
)

var (
	topThreeLabels = map[string]bool{"strongly agree": true, "agree": true, "somewhat agree": true}
	topTwoLabels   = map[string]bool{"strongly agree": true, "agree": true}
)

// AgreementPolicy maps a variable's resolved labels to agree or not.
type AgreementPolicy struct {
	LoyaltyVariable    string
	LoyaltyAgreeLabels []string
	// TopTwoPatterns are path.Match globs over variable names.
	TopTwoPatterns []string
	// LikertPoints bounds the numeric scale; 1 is the strongest agreement.
	LikertPoints int
	// IncludeMissing counts missing responses in the denominator.
	IncludeMissing bool
	Codes          *survey.CodeTable
}

// DefaultAgreementPolicy returns the stock policy with missing responses
// counted in the denominator.
func DefaultAgreementPolicy() AgreementPolicy {
	return AgreementPolicy{
		LoyaltyVariable:    DefaultLoyaltyVariable,
		LoyaltyAgreeLabels: append([]string(nil), DefaultLoyaltyAgreeLabels...),
		TopTwoPatterns:     append([]string(nil), DefaultTopTwoPatterns...),
		LikertPoints:       DefaultLikertPoints,
		IncludeMissing:     true,
	}
}

// RuleFor returns the rule that applies to variable.
func (p AgreementPolicy) RuleFor(variable string) AgreementRule {
	if p.LoyaltyVariable != "" && variable == p.LoyaltyVariable {
		return RuleExact
	}
	for _, pat := range p.TopTwoPatterns {
		if ok, err := path.Match(pat, variable); err == nil && ok {
			return RuleTopTwo
		}
	}
	return RuleTopThree
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Agrees classifies one present raw value of variable. Missing values never
// agree.
func (p AgreementPolicy) Agrees(variable string, raw any) bool {
	if survey.IsMissing(raw) {
		return false
	}
	label := normalizeLabel(p.Codes.Resolve(variable, raw))

	rule := p.RuleFor(variable)
	if rule == RuleExact {
		for _, l := range p.LoyaltyAgreeLabels {
			if normalizeLabel(l) == label {
				return true
			}
		}
		return false
	}

	top, set := 3, topThreeLabels
	if rule == RuleTopTwo {
		top, set = 2, topTwoLabels
	}
	if set[label] {
		return true
	}
	if n, ok := survey.ParseNumber(label); ok && n == math.Trunc(n) {
		points := p.LikertPoints
		if points <= 0 {
			points = DefaultLikertPoints
		}
		return n >= 1 && n <= float64(points) && n <= float64(top)
	}
	return false
}

// AgreementCount tallies one variable over a scope.
type AgreementCount struct {
	Agree   int `json:"agree" yaml:"agree"`
	Valid   int `json:"valid" yaml:"valid"`
	Missing int `json:"missing" yaml:"missing"`
}

// Count tallies variable over scope.
func (p AgreementPolicy) Count(scope survey.Scope, variable string) AgreementCount {
	var c AgreementCount
	for _, r := range scope {
		v := r.Value(variable)
		if survey.IsMissing(v) {
			c.Missing++
			continue
		}
		c.Valid++
		if p.Agrees(variable, v) {
			c.Agree++
		}
	}
	return c
}

// Percent converts a count to percent agree under the policy's
// denominator. A zero denominator gives false.
func (p AgreementPolicy) Percent(c AgreementCount) (float64, bool) {
	den := c.Valid
	if p.IncludeMissing {
		den += c.Missing
	}
	if den == 0 {
		return math.NaN(), false
	}
	return float64(c.Agree) / float64(den) * 100, true
}

// PercentAgree is the share of scope agreeing on variable.
func (p AgreementPolicy) PercentAgree(scope survey.Scope, variable string) (float64, bool) {
	return p.Percent(p.Count(scope, variable))
}

// AttitudePoint places one group by its percent agree on two variables.
type AttitudePoint struct {
	Key   view.GroupKey `json:"key" yaml:"key"`
	Label string        `json:"label" yaml:"label"`
	Color string        `json:"color" yaml:"color"`
	X     float64       `json:"x" yaml:"x"`
	Y     float64       `json:"y" yaml:"y"`
	Count int           `json:"count" yaml:"count"`
}

// AttitudePoints computes one point per group present in scope, in key
// order. Groups without a finite percentage on both axes are left out.
func (p AgreementPolicy) AttitudePoints(scope survey.Scope, mode view.GroupingMode, keys []view.GroupKey, palette view.Palette, xVar, yVar string) []AttitudePoint {
	if xVar == "" || yVar == "" {
		return nil
	}
	groups := make(map[view.GroupKey]survey.Scope)
	for _, r := range scope {
		k := view.KeyOf(r, mode)
		groups[k] = append(groups[k], r)
	}
	ordered := make([]view.GroupKey, 0, len(groups))
	for k := range groups {
		ordered = append(ordered, k)
	}
	view.SortKeys(ordered)

	var out []AttitudePoint
	for _, k := range ordered {
		g := groups[k]
		x, okX := p.PercentAgree(g, xVar)
		y, okY := p.PercentAgree(g, yVar)
		if !okX || !okY || math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		out = append(out, AttitudePoint{
			Key:   k,
			Label: k.String(),
			Color: palette.ColorFor(k, keys),
			X:     x,
			Y:     y,
			Count: len(g),
		})
	}
	return out
}

// AgreementRow is one line of the agreement table.
type AgreementRow struct {
	Variable string        `json:"variable" yaml:"variable"`
	Rule     AgreementRule `json:"rule" yaml:"rule"`
	AgreementCount `yaml:",inline"`
	// Percentage is only meaningful when OK is true.
	Percentage float64 `json:"percentage" yaml:"percentage"`
	OK         bool    `json:"ok" yaml:"ok"`
}

// AgreementTable scores each variable over scope.
func (p AgreementPolicy) AgreementTable(scope survey.Scope, variables []string) []AgreementRow {
	rows := make([]AgreementRow, 0, len(variables))
	for _, v := range variables {
		c := p.Count(scope, v)
		pct, ok := p.Percent(c)
		if !ok {
			pct = 0
		}
		rows = append(rows, AgreementRow{
			Variable:       v,
			Rule:           p.RuleFor(v),
			AgreementCount: c,
			Percentage:     pct,
			OK:             ok,
		})
	}
	return rows
}
