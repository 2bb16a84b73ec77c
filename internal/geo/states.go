// Package geo resolves loosely formatted US state identifiers to a canonical
// state and aggregates per-state shares of a scope.
package geo

import "strings"

// State is a canonical state identity.
type State struct {
	Abbrev string `json:"abbrev"`
	Name   string `json:"name"`
}

var states = []State{
	{"AL", "Alabama"}, {"AK", "Alaska"}, {"AZ", "Arizona"}, {"AR", "Arkansas"},
	{"CA", "California"}, {"CO", "Colorado"}, {"CT", "Connecticut"}, {"DE", "Delaware"},
	{"DC", "District of Columbia"}, {"FL", "Florida"}, {"GA", "Georgia"}, {"HI", "Hawaii"},
	{"ID", "Idaho"}, {"IL", "Illinois"}, {"IN", "Indiana"}, {"IA", "Iowa"},
	{"KS", "Kansas"}, {"KY", "Kentucky"}, {"LA", "Louisiana"}, {"ME", "Maine"},
	{"MD", "Maryland"}, {"MA", "Massachusetts"}, {"MI", "Michigan"}, {"MN", "Minnesota"},
	{"MS", "Mississippi"}, {"MO", "Missouri"}, {"MT", "Montana"}, {"NE", "Nebraska"},
	{"NV", "Nevada"}, {"NH", "New Hampshire"}, {"NJ", "New Jersey"}, {"NM", "New Mexico"},
	{"NY", "New York"}, {"NC", "North Carolina"}, {"ND", "North Dakota"}, {"OH", "Ohio"},
	{"OK", "Oklahoma"}, {"OR", "Oregon"}, {"PA", "Pennsylvania"}, {"RI", "Rhode Island"},
	{"SC", "South Carolina"}, {"SD", "South Dakota"}, {"TN", "Tennessee"}, {"TX", "Texas"},
	{"UT", "Utah"}, {"VT", "Vermont"}, {"VA", "Virginia"}, {"WA", "Washington"},
	{"WV", "West Virginia"}, {"WI", "Wisconsin"}, {"WY", "Wyoming"},
}

var (
	byAbbrev = make(map[string]State, len(states))
	byName   = make(map[string]State, len(states))
)

func init() {
	for _, s := range states {
		byAbbrev[s.Abbrev] = s
		byName[strings.ToLower(s.Name)] = s
	}
}

// States returns the canonical state list in table order.
func States() []State {
	out := make([]State, len(states))
	copy(out, states)
	return out
}

// Match resolves a label to a state: a two-letter abbreviation (any case),
// then a full name (any case), then an upper-case two-letter token embedded
// in a longer string, scanning from the end ("Austin, TX 78701").
func Match(label string) (State, bool) {
	s := strings.TrimSpace(label)
	if s == "" {
		return State{}, false
	}
	if len(s) == 2 {
		if st, ok := byAbbrev[strings.ToUpper(s)]; ok {
			return st, true
		}
	}
	if st, ok := byName[strings.ToLower(strings.Join(strings.Fields(s), " "))]; ok {
		return st, true
	}
	return embeddedToken(s)
}

func embeddedToken(s string) (State, bool) {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z')
	})
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		if len(tok) != 2 || tok != strings.ToUpper(tok) {
			continue
		}
		if st, ok := byAbbrev[tok]; ok {
			return st, true
		}
	}
	return State{}, false
}
