// Package testutil provides shared test fixtures and assertions.
//
// This package centralises the respondent corpus used across package tests so
// that scope, summary and controller tests agree on the same numbers.
package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/buyer.atlas/internal/survey"
)

// Record builds a survey.Record with the given survey fields.
func Record(model string, x, y float64, cluster int, fields map[string]any) survey.Record {
	if fields == nil {
		fields = map[string]any{}
	}
	return survey.Record{Model: model, EmbX: x, EmbY: y, Cluster: cluster, Fields: fields}
}

// Corpus returns six respondents across three models and three clusters.
//
//	#  model   cl  x   y  STATE        PRICE   STATE_VALUE      ATT_COMFORT      LOYALTY GENDER LOAN_AMT
//	1  Civic   0   0   0  CA           29000   Strongly agree   Agree            Yes     1      20,000
//	2  Civic   0   2   0  ca           31000   Somewhat agree   Neutral          No      2      (blank)
//	3  Civic   1   4   4  California   112000  Agree            Strongly agree   Yes     2      35,000
//	4  Accord  1   6   4  TX           45000   Neutral          Somewhat agree   (blank) 1      (nil)
//	5  Accord  2   8   8  Austin, TX   52000   Disagree         Disagree         No      (blank) 41,000
//	6  Pilot   2   10  8  NY           n/a     Strongly agree   Agree            Yes     1      50,000
func Corpus() []survey.Record {
	return []survey.Record{
		Record("Civic", 0, 0, 0, map[string]any{
			"STATE": "CA", "PRICE": 29000.0, "STATE_VALUE": "Strongly agree", "ATT_COMFORT": "Agree",
			"LOYALTY": "Yes", "GENDER": 1.0, "LOAN_AMT": "20,000",
		}),
		Record("Civic", 2, 0, 0, map[string]any{
			"STATE": "ca", "PRICE": 31000.0, "STATE_VALUE": "Somewhat agree", "ATT_COMFORT": "Neutral",
			"LOYALTY": "No", "GENDER": 2.0, "LOAN_AMT": "",
		}),
		Record("Civic", 4, 4, 1, map[string]any{
			"STATE": "California", "PRICE": 112000.0, "STATE_VALUE": "Agree", "ATT_COMFORT": "Strongly agree",
			"LOYALTY": "Yes", "GENDER": 2.0, "LOAN_AMT": "35,000",
		}),
		Record("Accord", 6, 4, 1, map[string]any{
			"STATE": "TX", "PRICE": 45000.0, "STATE_VALUE": "Neutral", "ATT_COMFORT": "Somewhat agree",
			"LOYALTY": "", "GENDER": 1.0, "LOAN_AMT": nil,
		}),
		Record("Accord", 8, 8, 2, map[string]any{
			"STATE": "Austin, TX", "PRICE": "52,000", "STATE_VALUE": "Disagree", "ATT_COMFORT": "Disagree",
			"LOYALTY": "No", "GENDER": "", "LOAN_AMT": "41,000",
		}),
		Record("Pilot", 10, 8, 2, map[string]any{
			"STATE": "NY", "PRICE": "n/a", "STATE_VALUE": "Strongly agree", "ATT_COMFORT": "Agree",
			"LOYALTY": "Yes", "GENDER": 1.0, "LOAN_AMT": "50,000",
		}),
	}
}

// GenderCodes labels the GENDER field of Corpus.
func GenderCodes(t testing.TB) *survey.CodeTable {
	t.Helper()
	ct, err := survey.NewCodeTable(map[string]map[any]string{
		"GENDER": {1: "Male", 2: "Female"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ct
}

// AssertPercentSum fails the test unless pcts sum to 100 within 0.001.
func AssertPercentSum(t testing.TB, pcts []float64) {
	t.Helper()
	sum := 0.0
	for _, p := range pcts {
		sum += p
	}
	if math.Abs(sum-100) > 0.001 {
		t.Errorf("percentages sum to %v, want 100 ± 0.001 (%v)", sum, pcts)
	}
}
