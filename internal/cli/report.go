package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/convlift/convlift/internal/analyze"
)

func printRecord(r *analyze.ResultsRecord) {
	fmt.Printf("GROUPS: control=%s  treatment=%s\n", r.ControlGroup, r.TreatmentGroup)
	if r.CorrectedAlpha != r.Alpha {
		fmt.Printf("ALPHA: %.4g (bonferroni-corrected to %.4g)\n", r.Alpha, r.CorrectedAlpha)
	} else {
		fmt.Printf("ALPHA: %.4g\n", r.Alpha)
	}
	fmt.Println()

	ciLevel := int(r.ControlCI.Level * 100)
	fmt.Printf("GROUP       N        CONVERSIONS  RATE     %d%% CI\n", ciLevel)
	fmt.Println(strings.Repeat("─", 60))
	printGroupRow(r.ControlGroup, r.Sizes.Control, r.Sizes.ControlConversions, r.Rates.Control, r.ControlCI.Lower, r.ControlCI.Upper)
	printGroupRow(r.TreatmentGroup, r.Sizes.Treatment, r.Sizes.TreatmentConversions, r.Rates.Treatment, r.TreatmentCI.Lower, r.TreatmentCI.Upper)
	fmt.Println()

	fmt.Printf("Lift: %+.2f%%\n", r.Rates.Lift*100)
	fmt.Printf("Rate difference: %+.4f  %d%% CI [%+.4f, %+.4f]\n",
		r.Rates.Treatment-r.Rates.Control, ciLevel, r.DifferenceCI.Lower, r.DifferenceCI.Upper)
	fmt.Printf("Effect size (Cohen's h): %.4f (%s)\n", r.EffectSize, r.EffectLabel)
	fmt.Printf("Achieved power: %.1f%%\n", r.Power*100)
	fmt.Println()

	printTest("z-test", r.ZTest.Statistic, r.ZTest.PValue, r.ZTest.Significant)
	printTest("chi-squared", r.ChiSquare.Statistic, r.ChiSquare.PValue, r.ChiSquare.Significant)

	for _, mt := range r.MetricTests {
		if mt.Insufficient {
			fmt.Printf("%-12s insufficient data\n", mt.Metric+":")
			continue
		}
		fmt.Printf("%-12s control mean %.2f, treatment mean %.2f\n", mt.Metric+":", mt.ControlMean, mt.TreatmentMean)
		printTest("  welch t", mt.Test.Statistic, mt.Test.PValue, mt.Test.Significant)
	}

	if r.Bayesian != nil {
		fmt.Println()
		fmt.Printf("Bayesian: P(treatment > control) = %.1f%% (%d draws)\n",
			r.Bayesian.ProbTreatmentBetter*100, r.Bayesian.Draws)
		fmt.Printf("  posterior means: control %.4f, treatment %.4f\n",
			r.Bayesian.PosteriorMeanControl, r.Bayesian.PosteriorMeanTreatment)
		fmt.Printf("  expected loss: control %.5f, treatment %.5f\n",
			r.Bayesian.ExpectedLossControl, r.Bayesian.ExpectedLossTreatment)
	}
}

func printGroupRow(name string, n, conversions int, rate, ciLower, ciUpper float64) {
	if len(name) > 10 {
		name = name[:7] + "..."
	}
	fmt.Printf("%-10s  %-7d  %-11d  %-7s  [%.1f%%, %.1f%%]\n",
		name, n, conversions, formatPercent(rate), ciLower*100, ciUpper*100)
}

func printTest(name string, statistic, pValue float64, significant bool) {
	verdict := "not significant"
	if significant {
		verdict = "SIGNIFICANT"
	}
	fmt.Printf("%-12s statistic=%+.4f  p=%s  %s\n", name+":", statistic, formatPValue(pValue), verdict)
}

func printSegments(results map[string]analyze.SegmentResult) {
	values := make([]string, 0, len(results))
	for v := range results {
		values = append(values, v)
	}
	sort.Strings(values)

	fmt.Println("SEGMENT       CONTROL   TREATMENT  LIFT      P-VALUE  SIGNIFICANT")
	fmt.Println(strings.Repeat("─", 68))

	for _, v := range values {
		r := results[v]
		name := v
		if len(name) > 12 {
			name = name[:9] + "..."
		}

		if r.Insufficient {
			fmt.Printf("%-12s  insufficient data (%s)\n", name, r.Reason)
			continue
		}

		rec := r.Record
		fmt.Printf("%-12s  %-8s  %-9s  %+7.1f%%  %-7s  %v\n",
			name,
			formatPercent(rec.Rates.Control),
			formatPercent(rec.Rates.Treatment),
			rec.Rates.Lift*100,
			formatPValue(rec.ZTest.PValue),
			rec.ZTest.Significant,
		)
	}
}
