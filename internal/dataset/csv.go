package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Reserved column names; every other column is treated as a segment
// attribute. Names are exact, per the input contract.
const (
	columnUserID    = "user_id"
	columnGroup     = "group"
	columnConverted = "converted"
	columnRevenue   = "revenue"
)

// ReadCSV parses a tabular dataset. The group and converted columns are
// required and their absence is fatal; user_id and revenue are optional;
// any remaining column becomes a segment attribute. Malformed rows are
// rejected with the offending line number.
func ReadCSV(r io.Reader) ([]Observation, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	groupIdx, convertedIdx := -1, -1
	userIdx, revenueIdx := -1, -1
	segmentCols := make(map[int]string)

	for i, name := range header {
		switch name {
		case columnGroup:
			groupIdx = i
		case columnConverted:
			convertedIdx = i
		case columnUserID:
			userIdx = i
		case columnRevenue:
			revenueIdx = i
		default:
			segmentCols[i] = name
		}
	}

	if groupIdx < 0 {
		return nil, fmt.Errorf("required column %q is missing", columnGroup)
	}
	if convertedIdx < 0 {
		return nil, fmt.Errorf("required column %q is missing", columnConverted)
	}

	var obs []Observation
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		o := Observation{Group: record[groupIdx]}
		if o.Group == "" {
			return nil, fmt.Errorf("line %d: empty group label", line)
		}

		o.Converted, err = strconv.ParseBool(record[convertedIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: converted must be 0/1, got %q", line, record[convertedIdx])
		}

		if userIdx >= 0 {
			o.UserID = record[userIdx]
		}
		if revenueIdx >= 0 && record[revenueIdx] != "" {
			o.Revenue, err = strconv.ParseFloat(record[revenueIdx], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad revenue %q", line, record[revenueIdx])
			}
			if o.Revenue < 0 {
				return nil, fmt.Errorf("line %d: negative revenue %v", line, o.Revenue)
			}
		}

		for idx, name := range segmentCols {
			if record[idx] == "" {
				continue
			}
			if o.Segments == nil {
				o.Segments = make(map[string]string, len(segmentCols))
			}
			o.Segments[name] = record[idx]
		}

		obs = append(obs, o)
	}

	log.Debug().Int("rows", len(obs)).Msg("loaded csv dataset")
	return obs, nil
}

// LoadCSV reads a dataset from a file path.
func LoadCSV(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV emits the observations with the standard columns followed by
// the union of segment attributes in sorted order.
func WriteCSV(w io.Writer, obs []Observation) error {
	segments := segmentFields(obs)

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := append([]string{columnUserID, columnGroup, columnConverted, columnRevenue}, segments...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, o := range obs {
		converted := "0"
		if o.Converted {
			converted = "1"
		}
		row := []string{o.UserID, o.Group, converted, strconv.FormatFloat(o.Revenue, 'f', -1, 64)}
		for _, field := range segments {
			row = append(row, o.Segments[field])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func segmentFields(obs []Observation) []string {
	seen := make(map[string]bool)
	var fields []string
	for _, o := range obs {
		for field := range o.Segments {
			if !seen[field] {
				seen[field] = true
				fields = append(fields, field)
			}
		}
	}
	sort.Strings(fields)
	return fields
}
