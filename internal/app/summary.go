package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dialforge/callwatch/internal/analytics"
	"github.com/dialforge/callwatch/internal/output"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline metrics for a call log",
	Long: `Read a call log, normalize it, and print the headline metrics: total
calls by status, task success, and average duration.`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// summaryOutput is the JSON-serializable output for the summary command.
type summaryOutput struct {
	InputFile string            `json:"input_file"`
	Summary   analytics.Summary `json:"summary"`
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := setupConfig()
	if err != nil {
		return err
	}

	records, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	s := analytics.Summarize(records)

	if flagJSON {
		return outputJSON(summaryOutput{InputFile: inputName(cfg), Summary: s})
	}

	fmt.Println(output.Section("Call Summary"))
	fmt.Println()
	printMetricLine("Total calls", fmt.Sprintf("%d", s.TotalCalls))
	printMetricLine("Completed", fmt.Sprintf("%d", s.Completed))
	printMetricLine("Call placed", fmt.Sprintf("%d", s.Placed))
	printMetricLine("Could not connect", fmt.Sprintf("%d", s.CouldNotConnect))
	printMetricLine("Task success", fmt.Sprintf("%d", s.TaskSuccess))
	printMetricLine("Task success rate", fmtRate(s.TaskSuccessRate))
	printMetricLine("Avg duration (s)", fmtValue(s.AvgDuration))

	if s.TaskSuccessRate.Valid {
		fmt.Println()
		fmt.Println(" " + output.PercentBar(s.TaskSuccessRate.Float*100, 30))
	}
	fmt.Println()
	return nil
}

// printMetricLine prints a label/value pair using the shared styles.
func printMetricLine(label, value string) {
	fmt.Printf(" %s %s\n", output.StyleLabel.Render(label), output.StyleValue.Render(value))
}
