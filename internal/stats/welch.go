package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// WelchTTest compares two means without assuming equal variances, using
// the Welch-Satterthwaite approximation for the degrees of freedom.
// Like the z-test, the statistic is treatment minus control. Inputs are
// the sample mean and unbiased sample variance of each group.
func WelchTTest(controlMean, controlVar float64, controlN int, treatMean, treatVar float64, treatN int, alpha float64) (TestResult, error) {
	if !validAlpha(alpha) {
		return TestResult{}, fmt.Errorf("alpha %v: %w", alpha, ErrInvalidParameter)
	}
	if controlN < 2 || treatN < 2 {
		return TestResult{}, fmt.Errorf("welch t-test needs at least 2 observations per group: %w", ErrInsufficientData)
	}

	vC := controlVar / float64(controlN)
	vT := treatVar / float64(treatN)
	se := math.Sqrt(vC + vT)

	// Zero variance in both groups: every observation identical, nothing
	// to infer from.
	if se == 0 {
		return TestResult{Statistic: 0, PValue: 1, Alpha: alpha, Significant: false}, nil
	}

	t := (treatMean - controlMean) / se

	df := (vC + vT) * (vC + vT) /
		(vC*vC/float64(controlN-1) + vT*vT/float64(treatN-1))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := clampProb(2 * tDist.Survival(math.Abs(t)))

	return TestResult{
		Statistic:   t,
		PValue:      p,
		DF:          df,
		Alpha:       alpha,
		Significant: p < alpha,
	}, nil
}
