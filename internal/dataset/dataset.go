package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/convlift/convlift/internal/stats"
)

// Observation is one experiment subject. Group and Converted are required;
// everything else is optional. Segments holds arbitrary categorical
// attributes such as device or user_type.
type Observation struct {
	UserID    string
	Group     string
	Converted bool
	Revenue   float64
	Segments  map[string]string
}

// MetricSummary holds the sample moments of a continuous metric within one
// group. Variance is the unbiased (n-1) estimate, zero when n < 2.
type MetricSummary struct {
	N        int
	Sum      float64
	Mean     float64
	Variance float64
}

// GroupSummary is the per-group reduction the test suite consumes. It is
// recomputed from the observations on every call and never mutated.
type GroupSummary struct {
	N              int
	Conversions    int
	ConversionRate float64
	RevenueSum     float64
	RevenuePerUser float64

	// Revenue is per-subject revenue over every subject in the group
	// (zero for non-converters). OrderValue is revenue over converters
	// only, i.e. average order value.
	Revenue    MetricSummary
	OrderValue MetricSummary
}

// Aggregate reduces the observations into one GroupSummary per named group.
// Pure: the input slice is only read. A named group with zero observations
// fails with stats.ErrInsufficientData.
func Aggregate(obs []Observation, groups []string) (map[string]GroupSummary, error) {
	revenueByGroup := make(map[string][]float64, len(groups))
	orderValues := make(map[string][]float64, len(groups))
	conversions := make(map[string]int, len(groups))

	named := make(map[string]bool, len(groups))
	for _, g := range groups {
		named[g] = true
		revenueByGroup[g] = nil
	}

	for _, o := range obs {
		if !named[o.Group] {
			continue
		}
		revenueByGroup[o.Group] = append(revenueByGroup[o.Group], o.Revenue)
		if o.Converted {
			conversions[o.Group]++
			orderValues[o.Group] = append(orderValues[o.Group], o.Revenue)
		}
	}

	summaries := make(map[string]GroupSummary, len(groups))
	for _, g := range groups {
		revenues := revenueByGroup[g]
		if len(revenues) == 0 {
			return nil, fmt.Errorf("group %q has no observations: %w", g, stats.ErrInsufficientData)
		}

		n := len(revenues)
		conv := conversions[g]
		revenue := summarize(revenues)

		summaries[g] = GroupSummary{
			N:              n,
			Conversions:    conv,
			ConversionRate: float64(conv) / float64(n),
			RevenueSum:     revenue.Sum,
			RevenuePerUser: revenue.Mean,
			Revenue:        revenue,
			OrderValue:     summarize(orderValues[g]),
		}
	}

	return summaries, nil
}

func summarize(values []float64) MetricSummary {
	s := MetricSummary{N: len(values)}
	if s.N == 0 {
		return s
	}
	for _, v := range values {
		s.Sum += v
	}
	s.Mean = stat.Mean(values, nil)
	if s.N >= 2 {
		s.Variance = stat.Variance(values, nil)
	}
	return s
}

// Groups returns the distinct group labels present, sorted.
func Groups(obs []Observation) []string {
	seen := make(map[string]bool)
	var groups []string
	for _, o := range obs {
		if !seen[o.Group] {
			seen[o.Group] = true
			groups = append(groups, o.Group)
		}
	}
	sort.Strings(groups)
	return groups
}

// SegmentValues returns the distinct values of a segment attribute, sorted.
// Observations without the attribute are ignored.
func SegmentValues(obs []Observation, field string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, o := range obs {
		if v, ok := o.Segments[field]; ok && v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

// Partition splits the observations by the values of a segment attribute.
// Observations without the attribute are left out of every partition.
func Partition(obs []Observation, field string) map[string][]Observation {
	parts := make(map[string][]Observation)
	for _, o := range obs {
		if v, ok := o.Segments[field]; ok && v != "" {
			parts[v] = append(parts[v], o)
		}
	}
	return parts
}

// Validate rejects observations that would poison aggregation: an empty
// group label or negative revenue.
func Validate(obs []Observation) error {
	for i, o := range obs {
		if o.Group == "" {
			return fmt.Errorf("observation %d: empty group label", i)
		}
		if o.Revenue < 0 {
			return fmt.Errorf("observation %d: negative revenue %v", i, o.Revenue)
		}
	}
	return nil
}
