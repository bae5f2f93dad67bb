// Package app contains the Cobra command tree for callwatch.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dialforge/callwatch/internal/calls"
	"github.com/dialforge/callwatch/internal/config"
	"github.com/dialforge/callwatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagConfig  string
	flagInput   string
)

var rootCmd = &cobra.Command{
	Use:   "callwatch",
	Short: "Retry analytics for outbound call campaigns",
	Long: `callwatch analyzes outbound call logs to answer one question: how do
repeated attempts to the same number pay off? It sequences calls per
number, computes pickup and goal-success rates by attempt index, pivots
metrics across arbitrary dimensions, and buckets numbers into a
frequency/outcome heatmap.

Run a subcommand against a call log export (CSV).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("callwatch", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  summary   Headline metrics for a call log")
		fmt.Println("  attempts  Pickup and goal success by attempt index")
		fmt.Println("  pivot     Aggregate metrics across arbitrary dimensions")
		fmt.Println("  heatmap   Frequency/outcome distribution across numbers")
		fmt.Println("  track     Snapshot and compare metrics over time")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/callwatch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagInput, "input", "", "Call log CSV path (overrides input_path from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
}

// setupConfig loads the configuration and applies global output flags.
func setupConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagNoColor || !cfg.Output.Color {
		output.SetNoColor(true)
	}
	return cfg, nil
}

// loadRecords reads, normalizes, and filters the input call log. Dropped
// and coerced row counts go to stderr so they never pollute JSON or CSV
// output on stdout.
func loadRecords(cfg *config.Config) ([]calls.Record, error) {
	path := flagInput
	if path == "" {
		path = cfg.InputPath
	}
	if path == "" {
		return nil, fmt.Errorf("no input file: pass --input or set input_path in config")
	}

	rows, err := calls.LoadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	records, report := calls.Normalize(rows)
	if n := report.DroppedCount(); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: dropped %d row(s):\n", n)
		for _, re := range report.Dropped {
			fmt.Fprintf(os.Stderr, "  line %d: %s\n", re.Line, re.Reason)
		}
	}
	if report.CoercedDurations > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d row(s) had unparseable durations, treated as 0\n", report.CoercedDurations)
	}

	return cfg.Filters.Spec().Apply(records), nil
}

// inputName returns the effective input path for snapshot metadata.
func inputName(cfg *config.Config) string {
	if flagInput != "" {
		return flagInput
	}
	return cfg.InputPath
}
