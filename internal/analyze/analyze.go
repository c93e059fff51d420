// Package analyze drives the inference pipeline: aggregate the dataset,
// run the frequentist suite, effect/power, and optionally the Bayesian
// comparison, and assemble one ResultsRecord.
package analyze

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/convlift/convlift/internal/dataset"
	"github.com/convlift/convlift/internal/stats"
)

// ErrUnknownGroup indicates a requested control or treatment label that is
// absent from the dataset.
var ErrUnknownGroup = errors.New("unknown group")

// Metric names recognized by Options.Metrics.
const (
	MetricConversionRate = "conversion_rate"
	MetricRevenue        = "revenue"
	MetricOrderValue     = "aov"
)

// Options configures one analysis call. The zero value is not usable
// directly; use DefaultOptions or fill every field.
type Options struct {
	ControlGroup   string
	TreatmentGroup string
	Alpha          float64
	Metrics        []string

	Bayesian      bool
	BayesianDraws int
	Seed          uint64

	// Bonferroni opts in to alpha/k correction in segment analysis,
	// where k is the segment count. Ignored by Run.
	Bonferroni bool
}

// DefaultOptions mirrors the conventional experiment setup: groups A/B,
// alpha 0.05, conversion rate only, Bayesian off.
func DefaultOptions() Options {
	return Options{
		ControlGroup:   "A",
		TreatmentGroup: "B",
		Alpha:          0.05,
		Metrics:        []string{MetricConversionRate},
		BayesianDraws:  stats.DefaultBayesianDraws,
	}
}

func (o Options) normalized() Options {
	if o.ControlGroup == "" {
		o.ControlGroup = "A"
	}
	if o.TreatmentGroup == "" {
		o.TreatmentGroup = "B"
	}
	if o.Alpha == 0 {
		o.Alpha = 0.05
	}
	if len(o.Metrics) == 0 {
		o.Metrics = []string{MetricConversionRate}
	}
	if o.BayesianDraws == 0 {
		o.BayesianDraws = stats.DefaultBayesianDraws
	}
	return o
}

// Run executes the full pipeline over the dataset. The dataset is only
// read; the result is deterministic given identical inputs and seed.
func Run(obs []dataset.Observation, opts Options) (*ResultsRecord, error) {
	opts = opts.normalized()

	if err := dataset.Validate(obs); err != nil {
		return nil, err
	}
	if err := checkGroups(obs, opts); err != nil {
		return nil, err
	}

	summaries, err := dataset.Aggregate(obs, []string{opts.ControlGroup, opts.TreatmentGroup})
	if err != nil {
		return nil, err
	}
	control := summaries[opts.ControlGroup]
	treatment := summaries[opts.TreatmentGroup]

	log.Debug().
		Str("control", opts.ControlGroup).Int("control_n", control.N).
		Str("treatment", opts.TreatmentGroup).Int("treatment_n", treatment.N).
		Float64("alpha", opts.Alpha).
		Msg("running analysis")

	record := &ResultsRecord{
		ControlGroup:   opts.ControlGroup,
		TreatmentGroup: opts.TreatmentGroup,
		Alpha:          opts.Alpha,
		CorrectedAlpha: opts.Alpha,
		Sizes: SampleSizes{
			Control:              control.N,
			Treatment:            treatment.N,
			Total:                control.N + treatment.N,
			ControlConversions:   control.Conversions,
			TreatmentConversions: treatment.Conversions,
		},
		Rates: ConversionRates{
			Control:   control.ConversionRate,
			Treatment: treatment.ConversionRate,
		},
	}
	if control.ConversionRate > 0 {
		record.Rates.Lift = (treatment.ConversionRate - control.ConversionRate) / control.ConversionRate
	}

	record.ZTest, err = stats.TwoProportionZTest(control.Conversions, control.N, treatment.Conversions, treatment.N, opts.Alpha)
	if err != nil {
		return nil, err
	}
	record.ChiSquare, err = stats.ChiSquareTest(control.Conversions, control.N, treatment.Conversions, treatment.N, opts.Alpha)
	if err != nil {
		return nil, err
	}

	level := 1 - opts.Alpha
	record.ControlCI = stats.ProportionInterval(control.Conversions, control.N, level)
	record.TreatmentCI = stats.ProportionInterval(treatment.Conversions, treatment.N, level)
	record.DifferenceCI, err = stats.RateDifferenceInterval(control.Conversions, control.N, treatment.Conversions, treatment.N, level)
	if err != nil {
		return nil, err
	}

	record.EffectSize = stats.CohensH(control.ConversionRate, treatment.ConversionRate)
	record.EffectLabel = stats.EffectSizeLabel(record.EffectSize)

	record.Power, err = stats.AchievedPower(control.ConversionRate, treatment.ConversionRate, control.N, treatment.N, opts.Alpha)
	if err != nil {
		return nil, err
	}

	for _, metric := range opts.Metrics {
		if metric == MetricConversionRate {
			continue // always covered by the tests above
		}
		mt, err := runMetricTest(metric, control, treatment, opts.Alpha)
		if err != nil {
			return nil, err
		}
		record.MetricTests = append(record.MetricTests, mt)
	}

	if opts.Bayesian {
		bayes, err := stats.BayesianCompare(control.Conversions, control.N, treatment.Conversions, treatment.N, opts.BayesianDraws, opts.Seed)
		if err != nil {
			return nil, err
		}
		record.Bayesian = &bayes
	}

	return record, nil
}

func runMetricTest(metric string, control, treatment dataset.GroupSummary, alpha float64) (MetricTest, error) {
	var c, t dataset.MetricSummary
	switch metric {
	case MetricRevenue:
		c, t = control.Revenue, treatment.Revenue
	case MetricOrderValue:
		c, t = control.OrderValue, treatment.OrderValue
	default:
		return MetricTest{}, fmt.Errorf("metric %q is not recognized: %w", metric, stats.ErrInvalidParameter)
	}

	test, err := stats.WelchTTest(c.Mean, c.Variance, c.N, t.Mean, t.Variance, t.N, alpha)
	if errors.Is(err, stats.ErrInsufficientData) {
		return MetricTest{Metric: metric, Insufficient: true}, nil
	}
	if err != nil {
		return MetricTest{}, err
	}

	return MetricTest{
		Metric:        metric,
		ControlMean:   c.Mean,
		TreatmentMean: t.Mean,
		Test:          test,
	}, nil
}

func checkGroups(obs []dataset.Observation, opts Options) error {
	present := make(map[string]bool)
	for _, o := range obs {
		present[o.Group] = true
	}
	if !present[opts.ControlGroup] {
		return fmt.Errorf("control group %q not in dataset: %w", opts.ControlGroup, ErrUnknownGroup)
	}
	if !present[opts.TreatmentGroup] {
		return fmt.Errorf("treatment group %q not in dataset: %w", opts.TreatmentGroup, ErrUnknownGroup)
	}
	return nil
}
