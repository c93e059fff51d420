package stats

import (
	"fmt"
	"math"
)

// CohensH returns Cohen's h effect size for the difference between two
// proportions: 2*asin(sqrt(pT)) - 2*asin(sqrt(pC)). Positive values mean
// the treatment rate is higher.
func CohensH(controlRate, treatmentRate float64) float64 {
	phiC := 2 * math.Asin(math.Sqrt(controlRate))
	phiT := 2 * math.Asin(math.Sqrt(treatmentRate))
	return phiT - phiC
}

// EffectSizeLabel maps |h| onto the conventional 0.2/0.5/0.8 bands.
func EffectSizeLabel(h float64) string {
	switch abs := math.Abs(h); {
	case abs < 0.2:
		return "small"
	case abs < 0.5:
		return "medium"
	case abs < 0.8:
		return "large"
	default:
		return "very large"
	}
}

// RateDifferenceInterval builds a confidence interval for the difference
// between the treatment and control conversion rates.
//
// The standard error here is unpooled (each rate contributes its own
// variance). This intentionally differs from TwoProportionZTest, which
// pools under the null: the test asks "could these rates be equal?", the
// interval describes how far apart they plausibly are. The two can
// disagree near the significance boundary.
func RateDifferenceInterval(controlConv, controlN, treatConv, treatN int, level float64) (ConfidenceInterval, error) {
	if level <= 0 || level >= 1 {
		return ConfidenceInterval{}, fmt.Errorf("confidence level %v: %w", level, ErrInvalidParameter)
	}
	if controlN <= 0 || treatN <= 0 {
		return ConfidenceInterval{}, fmt.Errorf("rate difference interval needs observations in both groups: %w", ErrInsufficientData)
	}

	pC := float64(controlConv) / float64(controlN)
	pT := float64(treatConv) / float64(treatN)

	se := math.Sqrt(pC*(1-pC)/float64(controlN) + pT*(1-pT)/float64(treatN))
	z := stdNormal.Quantile(0.5 + level/2)
	diff := pT - pC

	return ConfidenceInterval{
		Lower: diff - z*se,
		Upper: diff + z*se,
		Level: level,
	}, nil
}

// ProportionInterval returns a Wilson score interval for a single
// conversion rate. Wilson behaves better than the plain normal
// approximation at small n and near 0 or 1, and never leaves [0,1].
func ProportionInterval(conversions, n int, level float64) ConfidenceInterval {
	if n == 0 {
		return ConfidenceInterval{Level: level}
	}

	z := stdNormal.Quantile(0.5 + level/2)
	p := float64(conversions) / float64(n)
	nn := float64(n)

	denominator := 1 + z*z/nn
	center := (p + z*z/(2*nn)) / denominator
	spread := (z / denominator) * math.Sqrt(p*(1-p)/nn+z*z/(4*nn*nn))

	return ConfidenceInterval{
		Lower: clampProb(center - spread),
		Upper: clampProb(center + spread),
		Level: level,
	}
}
