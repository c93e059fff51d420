package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/convlift/convlift/internal/analyze"
)

var (
	segmentField   string
	segmentsAsJSON bool
)

var segmentsCmd = &cobra.Command{
	Use:   "segments <dataset>",
	Short: "Run the analysis once per segment value",
	Long: `Partition the dataset by a segment attribute (e.g. device) and run
the full pipeline per partition. A segment without enough data is
reported as such without aborting the rest.

No multiple-comparison correction is applied unless --bonferroni is
given, which divides alpha by the number of segments.

Examples:
  convlift segments experiment.csv --by device
  convlift segments experiment.csv --by user_type --bonferroni`,
	Args: cobra.ExactArgs(1),
	RunE: runSegments,
}

func init() {
	addAnalysisFlags(segmentsCmd)
	segmentsCmd.Flags().StringVar(&segmentField, "by", "", "segment attribute to partition by (required)")
	segmentsCmd.Flags().BoolVar(&bonferroni, "bonferroni", false, "apply Bonferroni correction across segments")
	segmentsCmd.Flags().BoolVar(&segmentsAsJSON, "json", false, "emit segment results as JSON")
	segmentsCmd.MarkFlagRequired("by")
	rootCmd.AddCommand(segmentsCmd)
}

func runSegments(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	obs, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	results, err := analyze.Segments(obs, segmentField, opts)
	if err != nil {
		return err
	}

	if segmentsAsJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(analyze.SegmentsMap(results))
	}

	fmt.Printf("SEGMENTED BY: %s (%d segments)\n", segmentField, len(results))
	if opts.Bonferroni {
		fmt.Printf("Bonferroni correction: alpha %.4g -> %.4g per segment\n",
			opts.Alpha, opts.Alpha/float64(len(results)))
	}
	fmt.Println()
	printSegments(results)
	return nil
}
