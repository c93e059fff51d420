package stats

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultBayesianDraws is the Monte Carlo draw count used when the caller
// does not choose one.
const DefaultBayesianDraws = 100000

// BayesianResult holds the Beta-Binomial posterior for each group and the
// Monte Carlo estimate of P(treatment rate > control rate). No decision
// threshold is applied; consumers interpret the probability.
type BayesianResult struct {
	ControlAlpha   float64
	ControlBeta    float64
	TreatmentAlpha float64
	TreatmentBeta  float64

	ProbTreatmentBetter float64

	PosteriorMeanControl   float64
	PosteriorMeanTreatment float64

	// Expected loss of shipping each arm if the other is actually better,
	// in absolute conversion rate.
	ExpectedLossControl   float64
	ExpectedLossTreatment float64

	Draws int
}

// BayesianCompare models each group's conversion rate as
// Beta(1+conversions, 1+non-conversions) — a uniform prior — and compares
// paired posterior draws. The seed fully determines the draw sequence, so
// results are reproducible and calls are independent of any global state.
func BayesianCompare(controlConv, controlN, treatConv, treatN, draws int, seed uint64) (BayesianResult, error) {
	if controlN <= 0 || treatN <= 0 {
		return BayesianResult{}, fmt.Errorf("bayesian comparison needs observations in both groups: %w", ErrInsufficientData)
	}
	if controlConv < 0 || controlConv > controlN || treatConv < 0 || treatConv > treatN {
		return BayesianResult{}, fmt.Errorf("conversions must be within [0,n]: %w", ErrInvalidParameter)
	}
	if draws <= 0 {
		return BayesianResult{}, fmt.Errorf("draw count %d must be positive: %w", draws, ErrInvalidParameter)
	}

	result := BayesianResult{
		ControlAlpha:   1 + float64(controlConv),
		ControlBeta:    1 + float64(controlN-controlConv),
		TreatmentAlpha: 1 + float64(treatConv),
		TreatmentBeta:  1 + float64(treatN-treatConv),
		Draws:          draws,
	}

	// One shared source keeps the interleaved draw order deterministic.
	src := rand.NewSource(seed)
	control := distuv.Beta{Alpha: result.ControlAlpha, Beta: result.ControlBeta, Src: src}
	treatment := distuv.Beta{Alpha: result.TreatmentAlpha, Beta: result.TreatmentBeta, Src: src}

	var wins int
	var sumControl, sumTreatment, lossControl, lossTreatment float64
	for i := 0; i < draws; i++ {
		c := control.Rand()
		t := treatment.Rand()

		sumControl += c
		sumTreatment += t
		if t > c {
			wins++
			lossControl += t - c
		} else if c > t {
			lossTreatment += c - t
		}
	}

	n := float64(draws)
	result.ProbTreatmentBetter = float64(wins) / n
	result.PosteriorMeanControl = sumControl / n
	result.PosteriorMeanTreatment = sumTreatment / n
	result.ExpectedLossControl = lossControl / n
	result.ExpectedLossTreatment = lossTreatment / n

	return result, nil
}
