package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/convlift/convlift/internal/analyze"
)

var (
	controlGroup   string
	treatmentGroup string
	alpha          float64
	metrics        []string
	bayes          bool
	bayesDraws     int
	seed           uint64
	bonferroni     bool
	jsonOutput     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dataset>",
	Short: "Run the full A/B analysis on a dataset",
	Long: `Run the full analysis pipeline on a CSV or SQLite dataset:
two-proportion z-test, chi-squared, confidence intervals, Cohen's h,
achieved power, and optionally a Bayesian Beta-Binomial comparison.

Examples:
  convlift analyze experiment.csv
  convlift analyze experiment.csv --control A --treatment B --alpha 0.01
  convlift analyze events.db --metrics conversion_rate,revenue --bayes
  convlift analyze experiment.csv --json > results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	addAnalysisFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the results record as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&controlGroup, "control", "A", "control group label")
	cmd.Flags().StringVar(&treatmentGroup, "treatment", "B", "treatment group label")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level")
	cmd.Flags().StringSliceVar(&metrics, "metrics", []string{analyze.MetricConversionRate}, "metrics to evaluate (conversion_rate, revenue, aov)")
	cmd.Flags().BoolVar(&bayes, "bayes", false, "include the Bayesian comparison")
	cmd.Flags().IntVar(&bayesDraws, "draws", 100000, "Monte Carlo draws for the Bayesian comparison")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed for the Bayesian comparison")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	obs, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	record, err := analyze.Run(obs, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(record.Map())
	}

	printRecord(record)
	return nil
}
