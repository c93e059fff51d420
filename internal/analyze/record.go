package analyze

import (
	"github.com/convlift/convlift/internal/stats"
)

// ConversionRates pairs the observed rates with the relative lift,
// (treatment-control)/control. Lift is zero when the control rate is zero.
type ConversionRates struct {
	Control   float64
	Treatment float64
	Lift      float64
}

// SampleSizes records how many subjects landed in each group and how many
// of them converted.
type SampleSizes struct {
	Control              int
	Treatment            int
	Total                int
	ControlConversions   int
	TreatmentConversions int
}

// MetricTest is the Welch t-test outcome for one continuous metric. When a
// group lacks the two observations the test needs, Insufficient is set and
// Test is zero-valued — the marker replaces the result instead of failing
// the whole analysis.
type MetricTest struct {
	Metric        string
	ControlMean   float64
	TreatmentMean float64
	Test          stats.TestResult
	Insufficient  bool
}

// ResultsRecord is the orchestrator's output: one immutable record per
// analysis call, consumed by reporting. Required fields are always
// populated; Bayesian is nil unless requested.
type ResultsRecord struct {
	ControlGroup   string
	TreatmentGroup string

	// Alpha is the caller's significance level. CorrectedAlpha is what the
	// decisions actually used; it only differs under the segment
	// analyzer's opt-in Bonferroni correction.
	Alpha          float64
	CorrectedAlpha float64

	Rates ConversionRates
	Sizes SampleSizes

	ZTest     stats.TestResult
	ChiSquare stats.TestResult

	ControlCI    stats.ConfidenceInterval
	TreatmentCI  stats.ConfidenceInterval
	DifferenceCI stats.ConfidenceInterval

	EffectSize  float64
	EffectLabel string
	Power       float64

	MetricTests []MetricTest

	Bayesian *stats.BayesianResult
}

// Map flattens the record into nested maps of primitives for the
// reporting boundary. No internal struct crosses it.
func (r *ResultsRecord) Map() map[string]any {
	m := map[string]any{
		"control_group":   r.ControlGroup,
		"treatment_group": r.TreatmentGroup,
		"alpha":           r.Alpha,
		"corrected_alpha": r.CorrectedAlpha,
		"conversion_rates": map[string]any{
			"control":   r.Rates.Control,
			"treatment": r.Rates.Treatment,
			"lift":      r.Rates.Lift,
		},
		"sample_sizes": map[string]any{
			"control":               r.Sizes.Control,
			"treatment":             r.Sizes.Treatment,
			"total":                 r.Sizes.Total,
			"control_conversions":   r.Sizes.ControlConversions,
			"treatment_conversions": r.Sizes.TreatmentConversions,
		},
		"z_test":            testMap(r.ZTest),
		"chi_square":        testMap(r.ChiSquare),
		"control_ci":        intervalMap(r.ControlCI),
		"treatment_ci":      intervalMap(r.TreatmentCI),
		"difference_ci":     intervalMap(r.DifferenceCI),
		"effect_size":       r.EffectSize,
		"effect_size_label": r.EffectLabel,
		"power":             r.Power,
	}

	if len(r.MetricTests) > 0 {
		metrics := make([]map[string]any, len(r.MetricTests))
		for i, mt := range r.MetricTests {
			entry := map[string]any{
				"metric":            mt.Metric,
				"insufficient_data": mt.Insufficient,
			}
			if !mt.Insufficient {
				entry["control_mean"] = mt.ControlMean
				entry["treatment_mean"] = mt.TreatmentMean
				entry["test"] = testMap(mt.Test)
			}
			metrics[i] = entry
		}
		m["metric_tests"] = metrics
	}

	if r.Bayesian != nil {
		m["bayesian"] = map[string]any{
			"control_alpha":            r.Bayesian.ControlAlpha,
			"control_beta":             r.Bayesian.ControlBeta,
			"treatment_alpha":          r.Bayesian.TreatmentAlpha,
			"treatment_beta":           r.Bayesian.TreatmentBeta,
			"prob_treatment_better":    r.Bayesian.ProbTreatmentBetter,
			"posterior_mean_control":   r.Bayesian.PosteriorMeanControl,
			"posterior_mean_treatment": r.Bayesian.PosteriorMeanTreatment,
			"expected_loss_control":    r.Bayesian.ExpectedLossControl,
			"expected_loss_treatment":  r.Bayesian.ExpectedLossTreatment,
			"draws":                    r.Bayesian.Draws,
		}
	}

	return m
}

func testMap(t stats.TestResult) map[string]any {
	return map[string]any{
		"statistic":   t.Statistic,
		"p_value":     t.PValue,
		"df":          t.DF,
		"alpha":       t.Alpha,
		"significant": t.Significant,
	}
}

func intervalMap(ci stats.ConfidenceInterval) map[string]any {
	return map[string]any{
		"lower":         ci.Lower,
		"upper":         ci.Upper,
		"level":         ci.Level,
		"contains_zero": ci.ContainsZero(),
	}
}
