package dataset_test

import (
	"errors"
	"math"
	"testing"

	"github.com/convlift/convlift/internal/dataset"
	"github.com/convlift/convlift/internal/stats"
)

func TestGenerate_SizesAndGroups(t *testing.T) {
	obs, err := dataset.Generate(dataset.GenerateOptions{
		ControlN:      500,
		TreatmentN:    300,
		ControlRate:   0.1,
		TreatmentRate: 0.12,
		Seed:          1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs) != 800 {
		t.Fatalf("expected 800 observations, got %d", len(obs))
	}

	counts := make(map[string]int)
	for _, o := range obs {
		counts[o.Group]++
		if o.UserID == "" {
			t.Fatal("every observation needs a user id")
		}
		if !o.Converted && o.Revenue != 0 {
			t.Fatalf("non-converter with revenue %f", o.Revenue)
		}
		if o.Converted && o.Revenue <= 0 {
			t.Fatal("converter without revenue")
		}
	}
	if counts["A"] != 500 || counts["B"] != 300 {
		t.Errorf("group sizes wrong: %v", counts)
	}
}

func TestGenerate_DeterministicPerSeed(t *testing.T) {
	opts := dataset.GenerateOptions{
		ControlN: 100, TreatmentN: 100,
		ControlRate: 0.1, TreatmentRate: 0.15,
		WithSegments: true,
		Seed:         42,
	}

	first, err := dataset.Generate(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := dataset.Generate(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		if first[i].UserID != second[i].UserID ||
			first[i].Converted != second[i].Converted ||
			first[i].Revenue != second[i].Revenue ||
			first[i].Segments["device"] != second[i].Segments["device"] {
			t.Fatalf("observation %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerate_RatesRoughlyMatch(t *testing.T) {
	obs, err := dataset.Generate(dataset.GenerateOptions{
		ControlN: 10000, TreatmentN: 10000,
		ControlRate: 0.10, TreatmentRate: 0.20,
		Seed: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summaries, err := dataset.Aggregate(obs, []string{"A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(summaries["A"].ConversionRate-0.10) > 0.02 {
		t.Errorf("control rate drifted: %f", summaries["A"].ConversionRate)
	}
	if math.Abs(summaries["B"].ConversionRate-0.20) > 0.02 {
		t.Errorf("treatment rate drifted: %f", summaries["B"].ConversionRate)
	}
}

func TestGenerate_SegmentsMix(t *testing.T) {
	obs, err := dataset.Generate(dataset.GenerateOptions{
		ControlN: 1000, TreatmentN: 1000,
		ControlRate: 0.1, TreatmentRate: 0.1,
		WithSegments: true,
		Seed:         3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	devices := dataset.SegmentValues(obs, "device")
	if len(devices) != 3 {
		t.Errorf("expected 3 device values, got %v", devices)
	}
	users := dataset.SegmentValues(obs, "user_type")
	if len(users) != 2 {
		t.Errorf("expected 2 user_type values, got %v", users)
	}

	// Mobile carries the largest weight and should dominate.
	parts := dataset.Partition(obs, "device")
	if len(parts["mobile"]) <= len(parts["desktop"]) || len(parts["desktop"]) <= len(parts["tablet"]) {
		t.Errorf("device mix out of order: mobile=%d desktop=%d tablet=%d",
			len(parts["mobile"]), len(parts["desktop"]), len(parts["tablet"]))
	}
}

func TestGenerate_InvalidOptions(t *testing.T) {
	if _, err := dataset.Generate(dataset.GenerateOptions{ControlN: 0, TreatmentN: 10}); !errors.Is(err, stats.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for zero group, got %v", err)
	}
	if _, err := dataset.Generate(dataset.GenerateOptions{ControlN: 10, TreatmentN: 10, ControlRate: 1.5}); !errors.Is(err, stats.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for rate > 1, got %v", err)
	}
}
