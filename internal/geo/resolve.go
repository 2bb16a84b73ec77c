package geo

import (
	"github.com/banshee-data/buyer.atlas/internal/survey"
)

// DefaultFields are the candidate state fields, in priority order.
var DefaultFields = []string{"STATE", "State", "state", "RESIDENCE_STATE", "ST"}

// Resolver finds a record's state from a list of candidate fields. Coded
// fields are labelled through Codes before name matching.
type Resolver struct {
	Fields []string
	Codes  *survey.CodeTable
}

// NewResolver returns a resolver over fields, or DefaultFields when empty.
func NewResolver(fields []string, codes *survey.CodeTable) *Resolver {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	return &Resolver{Fields: fields, Codes: codes}
}

// Resolve returns the first candidate field value that matches a state.
func (r *Resolver) Resolve(rec survey.Record) (State, bool) {
	for _, field := range r.Fields {
		v := rec.Value(field)
		if survey.IsMissing(v) {
			continue
		}
		if st, ok := Match(r.Codes.Resolve(field, v)); ok {
			return st, true
		}
	}
	return State{}, false
}

// Canonical resolves a user-supplied state selection ("ca", "California")
// to a state name. Unknown input is returned unchanged with ok=false.
func Canonical(selection string) (string, bool) {
	st, ok := Match(selection)
	if !ok {
		return selection, false
	}
	return st.Name, true
}
