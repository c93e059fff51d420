package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/convlift/convlift/internal/analyze"
	"github.com/convlift/convlift/internal/config"
	"github.com/convlift/convlift/internal/dataset"
	"github.com/spf13/cobra"
)

// loadDataset dispatches on the file extension: .db/.sqlite/.sqlite3 go
// through the SQLite loader, everything else is parsed as CSV.
func loadDataset(path string) ([]dataset.Observation, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return dataset.LoadSQLite(path)
	default:
		return dataset.LoadCSV(path)
	}
}

// loadOptions builds engine options from the config file (when --config is
// set) and overlays any flag the user actually passed.
func loadOptions(cmd *cobra.Command) (analyze.Options, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return analyze.Options{}, err
		}
	}
	opts := cfg.Options()

	flags := cmd.Flags()
	if flags.Changed("control") {
		opts.ControlGroup = controlGroup
	}
	if flags.Changed("treatment") {
		opts.TreatmentGroup = treatmentGroup
	}
	if flags.Changed("alpha") {
		opts.Alpha = alpha
	}
	if flags.Changed("metrics") {
		opts.Metrics = metrics
	}
	if flags.Changed("bayes") {
		opts.Bayesian = bayes
	}
	if flags.Changed("draws") {
		opts.BayesianDraws = bayesDraws
	}
	if flags.Changed("seed") {
		opts.Seed = seed
	}
	if flags.Changed("bonferroni") {
		opts.Bonferroni = bonferroni
	}
	return opts, nil
}

func formatPercent(rate float64) string {
	if rate == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}

func formatPValue(p float64) string {
	if p < 0.0001 {
		return "<0.0001"
	}
	return fmt.Sprintf("%.4f", p)
}
