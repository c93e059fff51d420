package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/convlift/convlift/internal/dataset"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <dataset>",
	Short: "Re-emit a dataset as CSV or JSON",
	Long: `Load a dataset (CSV or SQLite) and write it to stdout, mainly for
moving .db datasets into other tools.

Examples:
  convlift export events.db --format csv > events.csv
  convlift export events.db --format json > events.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv or json)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("invalid format: must be 'csv' or 'json'")
	}

	obs, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	if exportFormat == "csv" {
		return dataset.WriteCSV(os.Stdout, obs)
	}
	return exportJSON(obs)
}

type jsonExport struct {
	Observations []jsonObservation `json:"observations"`
}

type jsonObservation struct {
	UserID    string            `json:"user_id,omitempty"`
	Group     string            `json:"group"`
	Converted bool              `json:"converted"`
	Revenue   float64           `json:"revenue,omitempty"`
	Segments  map[string]string `json:"segments,omitempty"`
}

func exportJSON(obs []dataset.Observation) error {
	export := jsonExport{
		Observations: make([]jsonObservation, len(obs)),
	}

	for i, o := range obs {
		export.Observations[i] = jsonObservation{
			UserID:    o.UserID,
			Group:     o.Group,
			Converted: o.Converted,
			Revenue:   o.Revenue,
			Segments:  o.Segments,
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}
