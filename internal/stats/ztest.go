package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// TwoProportionZTest compares two conversion rates with a two-sided
// two-proportion z-test. The statistic is directional: treatment minus
// control, so a positive z means the treatment converts better.
//
// The standard error is pooled under the null hypothesis, which is the
// usual convention for the test itself. Note that RateDifferenceInterval
// deliberately uses the unpooled standard error instead; see effect.go.
func TwoProportionZTest(controlConv, controlN, treatConv, treatN int, alpha float64) (TestResult, error) {
	if !validAlpha(alpha) {
		return TestResult{}, fmt.Errorf("alpha %v: %w", alpha, ErrInvalidParameter)
	}
	if controlN <= 0 || treatN <= 0 {
		return TestResult{}, fmt.Errorf("two-proportion z-test needs observations in both groups: %w", ErrInsufficientData)
	}

	pC := float64(controlConv) / float64(controlN)
	pT := float64(treatConv) / float64(treatN)

	pooled := float64(controlConv+treatConv) / float64(controlN+treatN)
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(controlN) + 1/float64(treatN)))

	// Both rates identical at 0 or 1: the data carries no information,
	// report the null rather than divide by zero.
	if se == 0 {
		return TestResult{Statistic: 0, PValue: 1, Alpha: alpha, Significant: false}, nil
	}

	z := (pT - pC) / se
	p := clampProb(2 * stdNormal.Survival(math.Abs(z)))

	return TestResult{
		Statistic:   z,
		PValue:      p,
		Alpha:       alpha,
		Significant: p < alpha,
	}, nil
}
