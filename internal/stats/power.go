package stats

import (
	"fmt"
	"math"
)

// AchievedPower estimates the power of the two-proportion z-test for the
// observed rates and sample sizes via the normal approximation to the
// binomial: the probability of rejecting the null at the given alpha if
// the true rates are pC and pT.
func AchievedPower(controlRate, treatmentRate float64, controlN, treatN int, alpha float64) (float64, error) {
	if !validAlpha(alpha) {
		return 0, fmt.Errorf("alpha %v: %w", alpha, ErrInvalidParameter)
	}
	if controlRate < 0 || controlRate > 1 || treatmentRate < 0 || treatmentRate > 1 {
		return 0, fmt.Errorf("rates must be within [0,1]: %w", ErrInvalidParameter)
	}
	if controlN <= 0 || treatN <= 0 {
		return 0, fmt.Errorf("power needs observations in both groups: %w", ErrInsufficientData)
	}

	nC := float64(controlN)
	nT := float64(treatN)

	pooled := (controlRate*nC + treatmentRate*nT) / (nC + nT)
	sePooled := math.Sqrt(pooled * (1 - pooled) * (1/nC + 1/nT))
	seAlt := math.Sqrt(controlRate*(1-controlRate)/nC + treatmentRate*(1-treatmentRate)/nT)

	if seAlt == 0 {
		// Degenerate rates (both 0 or both 1): no detectable effect exists.
		return 0, nil
	}

	zAlpha := stdNormal.Quantile(1 - alpha/2)
	zBeta := (math.Abs(treatmentRate-controlRate) - zAlpha*sePooled) / seAlt

	return stdNormal.CDF(zBeta), nil
}

// PlannedPower computes the power a test with n subjects per group would
// have to detect a relative lift of mde over the baseline rate.
func PlannedPower(baselineRate, mde, alpha float64, n int) (float64, error) {
	if err := validateSizingInputs(baselineRate, mde, alpha); err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("sample size %d must be positive: %w", n, ErrInvalidParameter)
	}
	return AchievedPower(baselineRate, baselineRate*(1+mde), n, n, alpha)
}

// SampleSize returns the minimum subjects per group for the z-test to
// detect a relative lift of mde over the baseline rate with the target
// power. Closed form under the normal approximation; always rounds up.
func SampleSize(baselineRate, mde, alpha, power float64) (int, error) {
	if err := validateSizingInputs(baselineRate, mde, alpha); err != nil {
		return 0, err
	}
	if power <= 0 || power >= 1 {
		return 0, fmt.Errorf("power %v must be within (0,1): %w", power, ErrInvalidParameter)
	}

	p1 := baselineRate
	p2 := baselineRate * (1 + mde)

	zAlpha := stdNormal.Quantile(1 - alpha/2)
	zBeta := stdNormal.Quantile(power)
	pooled := (p1 + p2) / 2

	numerator := zAlpha*math.Sqrt(2*pooled*(1-pooled)) + zBeta*math.Sqrt(p1*(1-p1)+p2*(1-p2))
	n := numerator * numerator / ((p2 - p1) * (p2 - p1))

	return int(math.Ceil(n)), nil
}

func validateSizingInputs(baselineRate, mde, alpha float64) error {
	if baselineRate <= 0 || baselineRate >= 1 {
		return fmt.Errorf("baseline rate %v must be within (0,1): %w", baselineRate, ErrInvalidParameter)
	}
	if mde <= 0 {
		return fmt.Errorf("mde %v must be positive: %w", mde, ErrInvalidParameter)
	}
	if baselineRate*(1+mde) >= 1 {
		return fmt.Errorf("lifted rate %v reaches 1: %w", baselineRate*(1+mde), ErrInvalidParameter)
	}
	if !validAlpha(alpha) {
		return fmt.Errorf("alpha %v: %w", alpha, ErrInvalidParameter)
	}
	return nil
}
