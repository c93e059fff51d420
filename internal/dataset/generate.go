package dataset

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/convlift/convlift/internal/stats"
)

// GenerateOptions controls the synthetic dataset generator. Zero-valued
// fields fall back to the defaults documented on each field.
type GenerateOptions struct {
	ControlGroup   string // default "A"
	TreatmentGroup string // default "B"
	ControlN       int
	TreatmentN     int
	ControlRate    float64
	TreatmentRate  float64

	// WithSegments adds device and user_type attributes with a fixed
	// categorical mix, so segment analysis has something to chew on.
	WithSegments bool

	// MeanOrderValue is the expected revenue of a converter; revenue is
	// drawn from Gamma(2, MeanOrderValue/2). Default 1000.
	MeanOrderValue float64

	Seed uint64
}

var (
	deviceValues  = []string{"mobile", "desktop", "tablet"}
	deviceWeights = []float64{0.60, 0.35, 0.05}

	userTypeValues  = []string{"new", "returning"}
	userTypeWeights = []float64{0.40, 0.60}
)

// Generate produces a seeded synthetic A/B dataset: Bernoulli conversions
// at the configured rates and gamma-distributed revenue for converters.
// The same seed always yields the same dataset.
func Generate(opts GenerateOptions) ([]Observation, error) {
	if opts.ControlGroup == "" {
		opts.ControlGroup = "A"
	}
	if opts.TreatmentGroup == "" {
		opts.TreatmentGroup = "B"
	}
	if opts.MeanOrderValue == 0 {
		opts.MeanOrderValue = 1000
	}

	if opts.ControlN <= 0 || opts.TreatmentN <= 0 {
		return nil, fmt.Errorf("group sizes must be positive: %w", stats.ErrInvalidParameter)
	}
	for _, rate := range []float64{opts.ControlRate, opts.TreatmentRate} {
		if rate < 0 || rate > 1 {
			return nil, fmt.Errorf("conversion rate %v must be within [0,1]: %w", rate, stats.ErrInvalidParameter)
		}
	}
	if opts.MeanOrderValue < 0 {
		return nil, fmt.Errorf("mean order value %v must be non-negative: %w", opts.MeanOrderValue, stats.ErrInvalidParameter)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	orderValue := distuv.Gamma{Alpha: 2, Beta: 2 / opts.MeanOrderValue, Src: rng}

	obs := make([]Observation, 0, opts.ControlN+opts.TreatmentN)
	obs = generateGroup(obs, opts.ControlGroup, opts.ControlN, opts.ControlRate, opts.WithSegments, rng, orderValue)
	obs = generateGroup(obs, opts.TreatmentGroup, opts.TreatmentN, opts.TreatmentRate, opts.WithSegments, rng, orderValue)

	return obs, nil
}

func generateGroup(obs []Observation, group string, n int, rate float64, withSegments bool, rng *rand.Rand, orderValue distuv.Gamma) []Observation {
	for i := 0; i < n; i++ {
		o := Observation{
			UserID:    uuid.Must(uuid.NewRandomFromReader(rng)).String(),
			Group:     group,
			Converted: rng.Float64() < rate,
		}
		if o.Converted {
			o.Revenue = orderValue.Rand()
		}
		if withSegments {
			o.Segments = map[string]string{
				"device":    weightedChoice(rng, deviceValues, deviceWeights),
				"user_type": weightedChoice(rng, userTypeValues, userTypeWeights),
			}
		}
		obs = append(obs, o)
	}
	return obs
}

func weightedChoice(rng *rand.Rand, values []string, weights []float64) string {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return values[i]
		}
	}
	return values[len(values)-1]
}
