package units

import (
	"math"
	"testing"
)

func TestKindForField(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected Kind
	}{
		{"price", "PRICE", Currency},
		{"lower case amount", "loan_amt", Currency},
		{"income", "HH_INCOME", Currency},
		{"rate beats loan", "LOAN_RATE", Percent},
		{"term beats loan", "LOAN_TERM", Months},
		{"pct suffix", "DOWN_PCT", Percent},
		{"months", "OWNERSHIP_MONTHS", Months},
		{"plain", "HOUSEHOLD_SIZE", Plain},
		{"empty", "", Plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindForField(tt.field); got != tt.expected {
				t.Errorf("KindForField(%q) = %s, want %s", tt.field, got, tt.expected)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		value    float64
		expected string
	}{
		{"percent", Percent, 12.5, "12.5%"},
		{"percent rounds", Percent, 33.3333, "33.3%"},
		{"currency grouped", Currency, 32150, "$32,150"},
		{"currency rounds", Currency, 999.6, "$1,000"},
		{"currency negative", Currency, -1500, "-$1,500"},
		{"whole months", Months, 60, "60 months"},
		{"fractional months", Months, 37.5, "37.5 months"},
		{"plain grouped", Plain, 1234.5, "1,234.50"},
		{"nan", Currency, math.NaN(), "n/a"},
		{"inf", Plain, math.Inf(1), "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.kind, tt.value); got != tt.expected {
				t.Errorf("Format(%s, %v) = %q, want %q", tt.kind, tt.value, got, tt.expected)
			}
		})
	}
}

func TestFormatField(t *testing.T) {
	if got := FormatField("PRICE", 45000); got != "$45,000" {
		t.Errorf("FormatField(PRICE) = %q", got)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected bool
	}{
		{Plain, true},
		{Percent, true},
		{Currency, true},
		{Months, true},
		{"Currency", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.kind); got != tt.expected {
			t.Errorf("IsValid(%q) = %v, want %v", tt.kind, got, tt.expected)
		}
	}
}
