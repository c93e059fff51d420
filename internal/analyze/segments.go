package analyze

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/convlift/convlift/internal/dataset"
	"github.com/convlift/convlift/internal/stats"
)

// SegmentResult wraps one segment's outcome. When a segment lacks the data
// for the primary test (e.g. an empty treatment side), Insufficient is set
// with the reason and Record is nil; the other segments are unaffected.
type SegmentResult struct {
	Segment      string
	Record       *ResultsRecord
	Insufficient bool
	Reason       string
}

// Segments partitions the dataset by a segment attribute and runs the full
// pipeline once per value. Results are keyed by segment value, so the
// iteration order of the partitions does not matter.
//
// No multiple-comparison correction is applied unless opts.Bonferroni is
// set, in which case every segment's decisions use alpha divided by the
// segment count, and the record keeps both alphas.
func Segments(obs []dataset.Observation, field string, opts Options) (map[string]SegmentResult, error) {
	opts = opts.normalized()

	parts := dataset.Partition(obs, field)
	if len(parts) == 0 {
		return nil, fmt.Errorf("segment field %q has no values in the dataset: %w", field, stats.ErrInvalidParameter)
	}

	corrected := opts.Alpha
	if opts.Bonferroni {
		corrected = opts.Alpha / float64(len(parts))
	}

	segOpts := opts
	segOpts.Alpha = corrected

	results := make(map[string]SegmentResult, len(parts))
	for value, segment := range parts {
		record, err := Run(segment, segOpts)
		switch {
		case err == nil:
			record.Alpha = opts.Alpha
			record.CorrectedAlpha = corrected
			results[value] = SegmentResult{Segment: value, Record: record}
		case errors.Is(err, stats.ErrInsufficientData) || errors.Is(err, ErrUnknownGroup):
			// Isolate the failure to this segment.
			log.Debug().Str("segment", value).Err(err).Msg("segment skipped")
			results[value] = SegmentResult{Segment: value, Insufficient: true, Reason: err.Error()}
		default:
			return nil, fmt.Errorf("segment %q: %w", value, err)
		}
	}

	return results, nil
}

// SegmentsMap flattens segment results for the reporting boundary.
func SegmentsMap(results map[string]SegmentResult) map[string]any {
	m := make(map[string]any, len(results))
	for value, r := range results {
		if r.Insufficient {
			m[value] = map[string]any{"insufficient_data": true, "reason": r.Reason}
			continue
		}
		entry := r.Record.Map()
		entry["insufficient_data"] = false
		m[value] = entry
	}
	return m
}
