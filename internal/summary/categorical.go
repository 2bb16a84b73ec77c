package summary

import (
	"sort"

	"github.com/banshee-data/buyer.atlas/internal/survey"
)

// Categorical builds the label distribution of field over scope. Present
// values are labelled through codes; missing ones land in a trailing
// Unknown bucket. It returns false when the scope has no records.
func Categorical(scope survey.Scope, field string, codes *survey.CodeTable) (Section, bool) {
	counts := make(map[string]int)
	valid, missing := 0, 0
	for _, r := range scope {
		v := r.Value(field)
		if survey.IsMissing(v) {
			missing++
			continue
		}
		counts[codes.Resolve(field, v)]++
		valid++
	}
	total := valid + missing
	if total == 0 {
		return Section{}, false
	}

	buckets := make([]Bucket, 0, len(counts)+1)
	for label, n := range counts {
		buckets = append(buckets, Bucket{Label: label, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	if missing > 0 {
		buckets = append(buckets, Bucket{Label: UnknownLabel, Count: missing, Missing: true})
	}
	for i := range buckets {
		buckets[i].Percentage = percentOf(buckets[i].Count, total)
	}
	correctResidual(buckets)

	return Section{
		Field:   field,
		Kind:    KindCategorical,
		Buckets: buckets,
		Valid:   valid,
		Missing: missing,
	}, true
}

// Summarize builds one section per field, in order. Fields listed in
// numericFields are averaged; the rest are categorical. Numeric fields not
// named in fields are appended. Fields with no observations are skipped.
func Summarize(scope survey.Scope, fields []string, codes *survey.CodeTable, numericFields []string) []Section {
	numeric := make(map[string]bool, len(numericFields))
	for _, f := range numericFields {
		numeric[f] = true
	}
	order := make([]string, 0, len(fields)+len(numericFields))
	seen := make(map[string]bool)
	for _, f := range append(append([]string(nil), fields...), numericFields...) {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		order = append(order, f)
	}

	sections := make([]Section, 0, len(order))
	for _, f := range order {
		var (
			s  Section
			ok bool
		)
		if numeric[f] {
			s, ok = Numeric(scope, f)
		} else {
			s, ok = Categorical(scope, f, codes)
		}
		if ok {
			sections = append(sections, s)
		}
	}
	return sections
}
