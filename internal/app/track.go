package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dialforge/callwatch/internal/analytics"
	"github.com/dialforge/callwatch/internal/config"
	"github.com/dialforge/callwatch/internal/output"
	"github.com/dialforge/callwatch/internal/store"
)

var trackCompare int

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot and compare metrics over time",
	Long: `Run the full analysis, store a snapshot in the local database, and
compare against a previous snapshot to show deltas with trend arrows.
Run track after each new call log export to watch campaign performance
move over time.`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	rootCmd.AddCommand(trackCmd)
}

// trackOutput is the JSON-serializable output for the track command.
type trackOutput struct {
	Snapshot *store.Snapshot     `json:"snapshot"`
	Diff     *store.SnapshotDiff `json:"diff,omitempty"`
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := setupConfig()
	if err != nil {
		return err
	}

	records, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// The analyses are independent and read-only over the record slice.
	var (
		summary  analytics.Summary
		nthCall  *analytics.NthCallAnalysis
		distinct int
	)
	var g errgroup.Group
	g.Go(func() error {
		summary = analytics.Summarize(records)
		return nil
	})
	g.Go(func() error {
		nthCall = analytics.RunNthCall(records)
		return nil
	})
	g.Go(func() error {
		seen := map[string]bool{}
		for _, r := range records {
			seen[r.Number] = true
		}
		distinct = len(seen)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	snapshotID, err := db.CreateSnapshot("track", appVersion, inputName(cfg), len(records))
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}

	for _, m := range buildSnapshotMetrics(summary, nthCall, distinct) {
		if err := db.InsertMetric(snapshotID, m.MetricName, m.MetricValue, m.Defined); err != nil {
			return fmt.Errorf("inserting metric %s: %w", m.MetricName, err)
		}
	}

	for _, row := range nthCall.Rows {
		as := &store.AttemptStatRow{
			SnapshotID:         snapshotID,
			Attempt:            row.Attempt,
			TotalCalls:         row.TotalCalls,
			PickedUp:           row.PickedUp,
			GoalMet:            row.GoalMet,
			NegativeSentiment:  row.NegativeSentiment,
			PickupRate:         row.PickupRate.Float,
			GoalSuccess:        row.GoalSuccessOnPicked.Float,
			GoalSuccessDefined: row.GoalSuccessOnPicked.Valid,
		}
		if err := db.InsertAttemptStat(as); err != nil {
			return fmt.Errorf("inserting attempt stats: %w", err)
		}
	}

	current, err := db.GetSnapshot(snapshotID)
	if err != nil {
		return fmt.Errorf("loading current snapshot: %w", err)
	}

	// trackCompare=1 means the immediate predecessor, which sits at
	// offset 2 now that the new snapshot is stored.
	previous, err := db.GetSnapshotN(trackCompare + 1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}

	var diff *store.SnapshotDiff
	if previous != nil {
		deltas, err := db.Diff(previous.ID, current.ID)
		if err != nil {
			return fmt.Errorf("diffing snapshots: %w", err)
		}
		diff = &store.SnapshotDiff{Previous: previous, Current: current, Deltas: deltas}
	}

	if flagJSON {
		return outputJSON(trackOutput{Snapshot: current, Diff: diff})
	}

	renderTrack(current, diff)
	return nil
}

// buildSnapshotMetrics flattens the analysis results into named metrics
// for storage. Undefined ratios are stored with Defined=false so later
// diffs skip them.
func buildSnapshotMetrics(summary analytics.Summary, nthCall *analytics.NthCallAnalysis, distinct int) []store.SnapshotMetric {
	metrics := []store.SnapshotMetric{
		{MetricName: "total_calls", MetricValue: float64(summary.TotalCalls), Defined: true},
		{MetricName: "completed", MetricValue: float64(summary.Completed), Defined: true},
		{MetricName: "could_not_connect", MetricValue: float64(summary.CouldNotConnect), Defined: true},
		{MetricName: "task_success", MetricValue: float64(summary.TaskSuccess), Defined: true},
		{MetricName: "distinct_numbers", MetricValue: float64(distinct), Defined: true},
		{MetricName: "max_attempt", MetricValue: float64(len(nthCall.Rows)), Defined: true},
	}

	metrics = append(metrics, valueMetric("task_success_rate", summary.TaskSuccessRate))
	metrics = append(metrics, valueMetric("avg_duration", summary.AvgDuration))

	if summary.TotalCalls > 0 {
		metrics = append(metrics, store.SnapshotMetric{
			MetricName:  "pickup_rate",
			MetricValue: float64(summary.Completed) / float64(summary.TotalCalls),
			Defined:     true,
		})
	} else {
		metrics = append(metrics, store.SnapshotMetric{MetricName: "pickup_rate"})
	}
	return metrics
}

func valueMetric(name string, v analytics.Value) store.SnapshotMetric {
	return store.SnapshotMetric{MetricName: name, MetricValue: v.Float, Defined: v.Valid}
}

// metricDirection maps metric names to whether higher values are better.
var metricDirection = map[string]bool{
	"total_calls":       true,
	"completed":         true,
	"could_not_connect": false,
	"task_success":      true,
	"distinct_numbers":  true,
	"max_attempt":       false, // fewer retries needed is better
	"task_success_rate": true,
	"avg_duration":      true,
	"pickup_rate":       true,
}

func renderTrack(current *store.Snapshot, diff *store.SnapshotDiff) {
	fmt.Println(output.Section("Snapshot"))
	fmt.Println()
	printMetricLine("ID", current.ID)
	printMetricLine("Taken", current.TakenAt.Format("2006-01-02 15:04"))
	printMetricLine("Input", current.InputFile)
	printMetricLine("Records", fmt.Sprintf("%d", current.RecordCount))

	if diff == nil {
		fmt.Println()
		fmt.Println(" " + output.StyleMuted.Render("No previous snapshot to compare against."))
		fmt.Println()
		return
	}

	fmt.Println(output.Section(fmt.Sprintf("Change since %s", diff.Previous.TakenAt.Format("2006-01-02 15:04"))))
	fmt.Println()

	t := output.NewTable("Metric", "Previous", "Current", "Trend")
	for _, d := range diff.Deltas {
		higherIsBetter, known := metricDirection[d.Name]
		if !known {
			higherIsBetter = true
		}
		t.AddRow(
			d.Name,
			fmt.Sprintf("%.2f", d.Previous),
			fmt.Sprintf("%.2f", d.Current),
			output.TrendArrow(d.Delta, higherIsBetter),
		)
	}
	t.Print()
}
