package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/convlift/convlift/internal/stats"
)

var (
	planBaseline float64
	planMDE      float64
	planAlpha    float64
	planPower    float64
	planN        int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Sample-size and power planning",
	Long: `Compute the minimum sample size per group for a target power, or the
power a given sample size achieves. Baseline rate and minimum
detectable effect are prompted for when not passed as flags.

The MDE is relative: --mde 0.15 means detecting a 15% lift over the
baseline rate.

Examples:
  convlift plan --baseline 0.10 --mde 0.15
  convlift plan --baseline 0.10 --mde 0.15 --power 0.9 --alpha 0.01
  convlift plan --baseline 0.10 --mde 0.15 --n 5000`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().Float64Var(&planBaseline, "baseline", 0, "baseline conversion rate, in (0,1)")
	planCmd.Flags().Float64Var(&planMDE, "mde", 0, "minimum detectable effect as relative lift, > 0")
	planCmd.Flags().Float64Var(&planAlpha, "alpha", 0.05, "significance level")
	planCmd.Flags().Float64Var(&planPower, "power", 0.80, "target power")
	planCmd.Flags().IntVar(&planN, "n", 0, "evaluate the power of this sample size per group instead of solving")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	var err error
	if !cmd.Flags().Changed("baseline") {
		planBaseline, err = promptFloat("Baseline conversion rate (e.g. 0.10)")
		if err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("mde") {
		planMDE, err = promptFloat("Minimum detectable effect, relative (e.g. 0.15)")
		if err != nil {
			return err
		}
	}

	if planN > 0 {
		power, err := stats.PlannedPower(planBaseline, planMDE, planAlpha, planN)
		if err != nil {
			return err
		}
		fmt.Printf("Power at n=%d per group: %.1f%%\n", planN, power*100)
		fmt.Printf("(baseline %.2f%%, lifted %.2f%%, alpha %.4g)\n",
			planBaseline*100, planBaseline*(1+planMDE)*100, planAlpha)
		return nil
	}

	n, err := stats.SampleSize(planBaseline, planMDE, planAlpha, planPower)
	if err != nil {
		return err
	}
	achieved, err := stats.PlannedPower(planBaseline, planMDE, planAlpha, n)
	if err != nil {
		return err
	}

	fmt.Printf("Required sample size: %d per group (%d total)\n", n, 2*n)
	fmt.Printf("(baseline %.2f%%, lifted %.2f%%, alpha %.4g, power %.0f%% -> achieved %.1f%%)\n",
		planBaseline*100, planBaseline*(1+planMDE)*100, planAlpha, planPower*100, achieved*100)
	return nil
}

func promptFloat(label string) (float64, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := strconv.ParseFloat(input, 64)
			if err != nil {
				return fmt.Errorf("not a number")
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return 0, err
	}
	return strconv.ParseFloat(value, 64)
}
