// Package units picks and applies display formats for numeric survey fields
package units

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind is the display family of a numeric field
type Kind string

// Kind constants
const (
	Plain    Kind = "plain"
	Percent  Kind = "percent"
	Currency Kind = "currency"
	Months   Kind = "months"
)

// ValidKinds contains all valid kind values
var ValidKinds = []Kind{Plain, Percent, Currency, Months}

// IsValid checks if the given kind is in the list of valid kinds
func IsValid(k Kind) bool {
	for _, v := range ValidKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Field-name fragments, checked in this order. Matching is case-insensitive.
var (
	percentPatterns  = []string{"PCT", "PERCENT", "RATE", "APR", "SHARE"}
	monthsPatterns   = []string{"MONTH", "TERM", "DURATION", "TENURE"}
	currencyPatterns = []string{"PRICE", "AMT", "AMOUNT", "INCOME", "COST", "PAYMENT", "MSRP", "LOAN", "BUDGET", "DOWN"}
)

// KindForField guesses the display kind from a field name. LOAN_RATE is a
// percent and LOAN_TERM a length, so percent and months win over currency.
func KindForField(name string) Kind {
	n := strings.ToUpper(name)
	switch {
	case containsAny(n, percentPatterns):
		return Percent
	case containsAny(n, monthsPatterns):
		return Months
	case containsAny(n, currencyPatterns):
		return Currency
	default:
		return Plain
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Format renders v for display in US English. Non-finite values render as
// "n/a".
func Format(kind Kind, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	p := message.NewPrinter(language.AmericanEnglish)
	switch kind {
	case Percent:
		return p.Sprintf("%.1f%%", v)
	case Currency:
		if v < 0 {
			return p.Sprintf("-$%.0f", math.Abs(v))
		}
		return p.Sprintf("$%.0f", v)
	case Months:
		if v == math.Trunc(v) {
			return p.Sprintf("%.0f months", v)
		}
		return p.Sprintf("%.1f months", v)
	default:
		return p.Sprintf("%.2f", v)
	}
}

// FormatField formats v using the kind guessed from field.
func FormatField(field string, v float64) string {
	return Format(KindForField(field), v)
}
