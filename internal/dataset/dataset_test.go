package dataset_test

import (
	"errors"
	"math"
	"testing"

	"github.com/convlift/convlift/internal/dataset"
	"github.com/convlift/convlift/internal/stats"
)

func TestAggregate_CountsAndRates(t *testing.T) {
	obs := []dataset.Observation{
		{Group: "A", Converted: true, Revenue: 100},
		{Group: "A", Converted: false},
		{Group: "A", Converted: false},
		{Group: "A", Converted: true, Revenue: 300},
		{Group: "B", Converted: true, Revenue: 200},
		{Group: "B", Converted: false},
	}

	summaries, err := dataset.Aggregate(obs, []string{"A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := summaries["A"]
	if a.N != 4 || a.Conversions != 2 {
		t.Errorf("expected A with 4 subjects and 2 conversions, got %d/%d", a.Conversions, a.N)
	}
	if a.ConversionRate != 0.5 {
		t.Errorf("expected rate 0.5, got %f", a.ConversionRate)
	}
	if a.RevenueSum != 400 {
		t.Errorf("expected revenue sum 400, got %f", a.RevenueSum)
	}
	if a.RevenuePerUser != 100 {
		t.Errorf("expected revenue per user 100, got %f", a.RevenuePerUser)
	}

	b := summaries["B"]
	if b.N != 2 || b.Conversions != 1 {
		t.Errorf("expected B with 2 subjects and 1 conversion, got %d/%d", b.Conversions, b.N)
	}
}

func TestAggregate_MetricMoments(t *testing.T) {
	obs := []dataset.Observation{
		{Group: "A", Converted: true, Revenue: 100},
		{Group: "A", Converted: true, Revenue: 200},
		{Group: "A", Converted: false},
	}

	summaries, err := dataset.Aggregate(obs, []string{"A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := summaries["A"]

	// Revenue covers every subject, order value only converters.
	if a.Revenue.N != 3 || math.Abs(a.Revenue.Mean-100) > 1e-9 {
		t.Errorf("revenue moments wrong: n=%d mean=%f", a.Revenue.N, a.Revenue.Mean)
	}
	if a.OrderValue.N != 2 || math.Abs(a.OrderValue.Mean-150) > 1e-9 {
		t.Errorf("order value moments wrong: n=%d mean=%f", a.OrderValue.N, a.OrderValue.Mean)
	}
	if math.Abs(a.OrderValue.Variance-5000) > 1e-6 {
		t.Errorf("expected unbiased variance 5000, got %f", a.OrderValue.Variance)
	}
}

func TestAggregate_SingletonVarianceIsZero(t *testing.T) {
	obs := []dataset.Observation{{Group: "A", Converted: true, Revenue: 100}}

	summaries, err := dataset.Aggregate(obs, []string{"A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summaries["A"].OrderValue.Variance != 0 {
		t.Errorf("variance undefined for n=1, expected 0, got %f", summaries["A"].OrderValue.Variance)
	}
}

func TestAggregate_MissingGroup(t *testing.T) {
	obs := []dataset.Observation{{Group: "A", Converted: true}}

	_, err := dataset.Aggregate(obs, []string{"A", "B"})
	if !errors.Is(err, stats.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for empty group, got %v", err)
	}
}

func TestGroups_SortedDistinct(t *testing.T) {
	obs := []dataset.Observation{
		{Group: "B"}, {Group: "A"}, {Group: "B"}, {Group: "C"},
	}

	groups := dataset.Groups(obs)
	want := []string{"A", "B", "C"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %v", len(want), groups)
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Errorf("groups[%d] = %q, want %q", i, groups[i], want[i])
		}
	}
}

func TestPartition_DropsMissingAttribute(t *testing.T) {
	obs := []dataset.Observation{
		{Group: "A", Segments: map[string]string{"device": "mobile"}},
		{Group: "A", Segments: map[string]string{"device": "desktop"}},
		{Group: "B", Segments: map[string]string{"device": "mobile"}},
		{Group: "B"},
	}

	parts := dataset.Partition(obs, "device")
	if len(parts) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(parts))
	}
	if len(parts["mobile"]) != 2 || len(parts["desktop"]) != 1 {
		t.Errorf("partition sizes wrong: mobile=%d desktop=%d", len(parts["mobile"]), len(parts["desktop"]))
	}

	values := dataset.SegmentValues(obs, "device")
	if len(values) != 2 || values[0] != "desktop" || values[1] != "mobile" {
		t.Errorf("expected sorted [desktop mobile], got %v", values)
	}
}

func TestValidate_RejectsBadRows(t *testing.T) {
	if err := dataset.Validate([]dataset.Observation{{Group: "", Converted: true}}); err == nil {
		t.Error("expected error for empty group label")
	}
	if err := dataset.Validate([]dataset.Observation{{Group: "A", Revenue: -5}}); err == nil {
		t.Error("expected error for negative revenue")
	}
	if err := dataset.Validate([]dataset.Observation{{Group: "A"}}); err != nil {
		t.Errorf("unexpected error for valid row: %v", err)
	}
}
