package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dialforge/callwatch/internal/analytics"
	"github.com/dialforge/callwatch/internal/output"
)

var (
	pivotRows    string
	pivotCols    string
	pivotMetrics []string
	pivotDedupe  bool
	pivotCSV     string
)

var pivotCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Aggregate metrics across arbitrary dimensions",
	Long: `Group calls by a row field (and optionally a column field) and apply
the selected metrics to every group. Groups appear in the order their
key first occurs in the input, so the same input and flags always
produce the same table.

With --dedupe the table is first reduced to one call per (number, date),
preferring a completed call, then the latest.`,
	Example: `  callwatch pivot --rows use-case --metrics count,pickup-rate
  callwatch pivot --rows use-case --cols call-status --metrics count
  callwatch pivot --rows day-of-week --metrics count,avg-duration --dedupe`,
	RunE: runPivot,
}

func init() {
	pivotCmd.Flags().StringVar(&pivotRows, "rows", "", "Row field: "+strings.Join(analytics.PivotFields(), ", "))
	pivotCmd.Flags().StringVar(&pivotCols, "cols", "", "Optional column field for a cross-tab")
	pivotCmd.Flags().StringSliceVar(&pivotMetrics, "metrics", nil, "Metrics to compute: "+strings.Join(analytics.MetricNames(), ", "))
	pivotCmd.Flags().BoolVar(&pivotDedupe, "dedupe", false, "Reduce to one call per (number, date) first")
	pivotCmd.Flags().StringVar(&pivotCSV, "csv", "", "Export the table to a CSV file")
	rootCmd.AddCommand(pivotCmd)
}

// pivotOutput is the JSON-serializable output for the pivot command.
type pivotOutput struct {
	InputFile string                 `json:"input_file"`
	Deduped   bool                   `json:"deduped"`
	Result    *analytics.PivotResult `json:"result"`
}

func runPivot(cmd *cobra.Command, args []string) error {
	cfg, err := setupConfig()
	if err != nil {
		return err
	}

	records, err := loadRecords(cfg)
	if err != nil {
		return err
	}
	if pivotDedupe {
		records = analytics.Dedupe(records)
	}

	result, err := analytics.RunPivot(records, analytics.PivotConfig{
		RowField: pivotRows,
		ColField: pivotCols,
		Metrics:  pivotMetrics,
	})
	if err != nil {
		return err
	}

	if pivotCSV != "" {
		if err := exportPivotCSV(pivotCSV, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", pivotCSV)
	}

	if flagJSON {
		return outputJSON(pivotOutput{InputFile: inputName(cfg), Deduped: pivotDedupe, Result: result})
	}

	if result.Grouped != nil {
		renderGrouped(result.Grouped)
	} else {
		renderCross(result.Cross)
	}
	return nil
}

func renderGrouped(g *analytics.GroupedTable) {
	fmt.Println(output.Section(fmt.Sprintf("Pivot by %s", g.RowField)))
	fmt.Println()

	headers := append([]string{g.RowField}, g.Metrics...)
	t := output.NewTable(headers...)
	for _, row := range g.Rows {
		cells := []string{row.Key}
		for _, m := range g.Metrics {
			cells = append(cells, fmtValue(row.Cells[m]))
		}
		t.AddRow(cells...)
	}
	t.Print()
}

// renderCross prints one table per metric, columns across the top.
func renderCross(c *analytics.CrossTable) {
	for _, metric := range c.Metrics {
		fmt.Println(output.Section(fmt.Sprintf("%s by %s x %s", metric, c.RowField, c.ColField)))
		fmt.Println()

		headers := append([]string{c.RowField}, c.Columns...)
		t := output.NewTable(headers...)
		for _, row := range c.Rows {
			cells := []string{row.Key}
			for _, col := range c.Columns {
				cells = append(cells, fmtValue(row.Cells[col][metric]))
			}
			t.AddRow(cells...)
		}
		t.Print()
	}
}

func exportPivotCSV(path string, result *analytics.PivotResult) error {
	var rows [][]string
	switch {
	case result.Grouped != nil:
		g := result.Grouped
		rows = append(rows, append([]string{g.RowField}, g.Metrics...))
		for _, row := range g.Rows {
			cells := []string{row.Key}
			for _, m := range g.Metrics {
				cells = append(cells, csvValue(row.Cells[m]))
			}
			rows = append(rows, cells)
		}
	case result.Cross != nil:
		c := result.Cross
		// Long form: one row per (row, col, metric) triple.
		rows = append(rows, []string{c.RowField, c.ColField, "metric", "value"})
		for _, row := range c.Rows {
			for _, col := range c.Columns {
				for _, m := range c.Metrics {
					rows = append(rows, []string{row.Key, col, m, csvValue(row.Cells[col][m])})
				}
			}
		}
	}
	return writeCSV(path, rows)
}
