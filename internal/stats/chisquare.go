package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareTest runs Pearson's chi-squared test of independence on the
// 2x2 group-by-converted contingency table, with Yates' continuity
// correction (the same convention scipy's chi2_contingency applies to
// 2x2 tables by default). Degrees of freedom is always 1.
func ChiSquareTest(controlConv, controlN, treatConv, treatN int, alpha float64) (TestResult, error) {
	if !validAlpha(alpha) {
		return TestResult{}, fmt.Errorf("alpha %v: %w", alpha, ErrInvalidParameter)
	}
	if controlN <= 0 || treatN <= 0 {
		return TestResult{}, fmt.Errorf("chi-squared test needs observations in both groups: %w", ErrInsufficientData)
	}

	observed := [2][2]float64{
		{float64(controlConv), float64(controlN - controlConv)},
		{float64(treatConv), float64(treatN - treatConv)},
	}

	rowTotals := [2]float64{float64(controlN), float64(treatN)}
	colTotals := [2]float64{observed[0][0] + observed[1][0], observed[0][1] + observed[1][1]}
	total := rowTotals[0] + rowTotals[1]

	statistic := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			expected := rowTotals[i] * colTotals[j] / total
			if expected == 0 {
				// A degenerate column (everyone converted, or no one did)
				// is uninformative, not an error.
				return TestResult{Statistic: 0, PValue: 1, DF: 1, Alpha: alpha, Significant: false}, nil
			}
			diff := math.Abs(observed[i][j]-expected) - 0.5
			if diff < 0 {
				diff = 0
			}
			statistic += diff * diff / expected
		}
	}

	chi2 := distuv.ChiSquared{K: 1}
	p := clampProb(chi2.Survival(statistic))

	return TestResult{
		Statistic:   statistic,
		PValue:      p,
		DF:          1,
		Alpha:       alpha,
		Significant: p < alpha,
	}, nil
}
