package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dialforge/callwatch/internal/analytics"
	"github.com/dialforge/callwatch/internal/output"
)

var (
	attemptsMinGroup int
	attemptsCSV      string
)

var attemptsCmd = &cobra.Command{
	Use:   "attempts",
	Short: "Pickup and goal success by attempt index",
	Long: `Sequence calls per number in chronological order and aggregate pickup
rate, goal success, and negative sentiment by attempt index. Shows how
performance changes from the first call to the nth retry.

Goal success is measured over picked-up calls only; for an attempt index
where nothing was picked up it is undefined, not zero. Rows with fewer
calls than --min-group are hidden from the table but still exported and
still drawn in the trend.`,
	RunE: runAttempts,
}

func init() {
	attemptsCmd.Flags().IntVar(&attemptsMinGroup, "min-group", -1, "Hide rows with fewer calls than this (default from config)")
	attemptsCmd.Flags().StringVar(&attemptsCSV, "csv", "", "Export the full table to a CSV file")
	rootCmd.AddCommand(attemptsCmd)
}

// attemptsOutput is the JSON-serializable output for the attempts command.
type attemptsOutput struct {
	InputFile string                     `json:"input_file"`
	Analysis  *analytics.NthCallAnalysis `json:"analysis"`
}

func runAttempts(cmd *cobra.Command, args []string) error {
	cfg, err := setupConfig()
	if err != nil {
		return err
	}

	records, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	analysis := analytics.RunNthCall(records)

	if attemptsCSV != "" {
		if err := exportAttemptsCSV(attemptsCSV, analysis); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d row(s) to %s\n", len(analysis.Rows), attemptsCSV)
	}

	if flagJSON {
		return outputJSON(attemptsOutput{InputFile: inputName(cfg), Analysis: analysis})
	}

	minGroup := attemptsMinGroup
	if minGroup < 0 {
		minGroup = cfg.MinAttemptGroup
	}

	fmt.Println(output.Section("Attempt Performance"))
	fmt.Println()

	if len(analysis.Rows) == 0 {
		fmt.Println(" " + output.StyleMuted.Render("No calls in input."))
		fmt.Println()
		return nil
	}

	t := output.NewTable("Attempt", "Calls", "Picked Up", "Goal Met", "Negative", "Pickup Rate", "Goal Success")
	hidden := 0
	for _, row := range analysis.Rows {
		if row.TotalCalls < minGroup {
			hidden++
			continue
		}
		t.AddRow(
			strconv.Itoa(row.Attempt),
			strconv.Itoa(row.TotalCalls),
			strconv.Itoa(row.PickedUp),
			strconv.Itoa(row.GoalMet),
			strconv.Itoa(row.NegativeSentiment),
			fmtRate(row.PickupRate),
			fmtRate(row.GoalSuccessOnPicked),
		)
	}
	t.Print()

	if hidden > 0 {
		fmt.Println(" " + output.StyleMuted.Render(fmt.Sprintf("(%d row(s) below --min-group %d hidden)", hidden, minGroup)))
	}

	fmt.Println(output.Section("Pickup Rate Trend"))
	fmt.Println()
	trend := make([]float64, len(analysis.Trend))
	for i, p := range analysis.Trend {
		trend[i] = p.PickupRate * 100
	}
	fmt.Println(output.LineChart(trend, 60, 10, "pickup rate % by attempt"))
	fmt.Println()
	return nil
}

// exportAttemptsCSV writes the full, unsuppressed attempt table.
func exportAttemptsCSV(path string, analysis *analytics.NthCallAnalysis) error {
	rows := [][]string{{"attempt", "total_calls", "picked_up", "goal_met", "negative_sentiment", "pickup_rate", "goal_success_on_picked"}}
	for _, r := range analysis.Rows {
		rows = append(rows, []string{
			strconv.Itoa(r.Attempt),
			strconv.Itoa(r.TotalCalls),
			strconv.Itoa(r.PickedUp),
			strconv.Itoa(r.GoalMet),
			strconv.Itoa(r.NegativeSentiment),
			csvValue(r.PickupRate),
			csvValue(r.GoalSuccessOnPicked),
		})
	}
	return writeCSV(path, rows)
}
