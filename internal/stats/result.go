package stats

// TestResult is the outcome of a single frequentist hypothesis test.
type TestResult struct {
	Statistic   float64
	PValue      float64
	DF          float64 // degrees of freedom, 0 when the test has none
	Alpha       float64
	Significant bool // PValue < Alpha
}

// ConfidenceInterval is a two-sided interval at the given confidence level.
type ConfidenceInterval struct {
	Lower float64
	Upper float64
	Level float64 // e.g. 0.95
}

// ContainsZero reports whether zero lies inside the interval. For a
// difference interval this means the data is consistent with no effect.
func (ci ConfidenceInterval) ContainsZero() bool {
	return ci.Lower <= 0 && ci.Upper >= 0
}

func validAlpha(alpha float64) bool {
	return alpha > 0 && alpha < 1
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
