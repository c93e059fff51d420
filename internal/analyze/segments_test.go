package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convlift/convlift/internal/analyze"
	"github.com/convlift/convlift/internal/dataset"
	"github.com/convlift/convlift/internal/stats"
)

func segmentedDataset() []dataset.Observation {
	var obs []dataset.Observation
	appendSegment := func(group, device string, n, conv int) {
		for i := 0; i < n; i++ {
			obs = append(obs, dataset.Observation{
				Group:     group,
				Converted: i < conv,
				Segments:  map[string]string{"device": device},
			})
		}
	}
	appendSegment("A", "mobile", 400, 40)
	appendSegment("B", "mobile", 400, 60)
	appendSegment("A", "desktop", 300, 30)
	appendSegment("B", "desktop", 300, 33)
	return obs
}

func TestSegments_RunsPerValue(t *testing.T) {
	results, err := analyze.Segments(segmentedDataset(), "device", analyze.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	mobile := results["mobile"]
	require.False(t, mobile.Insufficient)
	require.NotNil(t, mobile.Record)
	assert.Equal(t, 800, mobile.Record.Sizes.Total)
	assert.InDelta(t, 0.10, mobile.Record.Rates.Control, 1e-9)
	assert.InDelta(t, 0.15, mobile.Record.Rates.Treatment, 1e-9)

	desktop := results["desktop"]
	require.False(t, desktop.Insufficient)
	assert.Equal(t, 600, desktop.Record.Sizes.Total)
}

func TestSegments_IsolatesInsufficientSegment(t *testing.T) {
	obs := segmentedDataset()
	// A tablet segment with only control subjects: its treatment side is
	// missing, which must not sink the other segments.
	for i := 0; i < 20; i++ {
		obs = append(obs, dataset.Observation{
			Group:    "A",
			Segments: map[string]string{"device": "tablet"},
		})
	}

	results, err := analyze.Segments(obs, "device", analyze.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 3)

	tablet := results["tablet"]
	assert.True(t, tablet.Insufficient)
	assert.Nil(t, tablet.Record)
	assert.NotEmpty(t, tablet.Reason)

	assert.False(t, results["mobile"].Insufficient)
	assert.False(t, results["desktop"].Insufficient)
}

func TestSegments_BonferroniCorrection(t *testing.T) {
	opts := analyze.DefaultOptions()
	opts.Bonferroni = true

	results, err := analyze.Segments(segmentedDataset(), "device", opts)
	require.NoError(t, err)

	for _, r := range results {
		require.NotNil(t, r.Record)
		assert.Equal(t, 0.05, r.Record.Alpha)
		assert.InDelta(t, 0.025, r.Record.CorrectedAlpha, 1e-12)
		// The decisions must have used the corrected level.
		assert.InDelta(t, 0.025, r.Record.ZTest.Alpha, 1e-12)
	}
}

func TestSegments_NoCorrectionByDefault(t *testing.T) {
	results, err := analyze.Segments(segmentedDataset(), "device", analyze.DefaultOptions())
	require.NoError(t, err)

	for _, r := range results {
		require.NotNil(t, r.Record)
		assert.Equal(t, r.Record.Alpha, r.Record.CorrectedAlpha)
	}
}

func TestSegments_UnknownField(t *testing.T) {
	_, err := analyze.Segments(segmentedDataset(), "country", analyze.DefaultOptions())
	assert.ErrorIs(t, err, stats.ErrInvalidParameter)
}

func TestSegmentsMap_FlattensResults(t *testing.T) {
	obs := segmentedDataset()
	for i := 0; i < 5; i++ {
		obs = append(obs, dataset.Observation{
			Group:    "A",
			Segments: map[string]string{"device": "tablet"},
		})
	}

	results, err := analyze.Segments(obs, "device", analyze.DefaultOptions())
	require.NoError(t, err)

	m := analyze.SegmentsMap(results)
	require.Len(t, m, 3)

	mobile, ok := m["mobile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, mobile["insufficient_data"])
	assert.Contains(t, mobile, "z_test")

	tablet, ok := m["tablet"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, tablet["insufficient_data"])
	assert.Contains(t, tablet, "reason")
}
