package summary

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/buyer.atlas/internal/survey"
	"github.com/banshee-data/buyer.atlas/internal/units"
)

// Numeric averages field over scope. Missing and non-numeric values are
// counted but excluded from the mean. The display string is formatted by
// the unit guessed from the field name.
func Numeric(scope survey.Scope, field string) (Section, bool) {
	var vals []float64
	missing, invalid := 0, 0
	for _, r := range scope {
		v := r.Value(field)
		if survey.IsMissing(v) {
			missing++
			continue
		}
		f, ok := survey.ParseNumber(v)
		if !ok {
			invalid++
			continue
		}
		vals = append(vals, f)
	}
	if len(vals)+missing+invalid == 0 {
		return Section{}, false
	}

	kind := units.KindForField(field)
	s := Section{
		Field:   field,
		Kind:    KindNumeric,
		Valid:   len(vals),
		Missing: missing,
		Invalid: invalid,
		Mean:    math.NaN(),
		Unit:    kind,
	}
	if len(vals) > 0 {
		s.Mean = stat.Mean(vals, nil)
	}
	s.Display = units.Format(kind, s.Mean)
	return s, true
}
