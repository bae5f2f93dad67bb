package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dialforge/callwatch/internal/analytics"
	"github.com/dialforge/callwatch/internal/output"
)

var heatmapVariant string

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Frequency/outcome distribution across numbers",
	Long: `Bucket every number by how many days it was called and by how many of
those calls reached an outcome, then show the row-normalized
distribution: of the numbers called N times, what share reached 0, 1,
2... outcomes. Counts of 10 or more collapse into a single 10+ bucket.

Cells where the outcome count exceeds the attempt count are impossible
and shown masked. Fewer than 10 distinct numbers is not enough data to
bucket and reports as such instead of rendering a misleading matrix.`,
	RunE: runHeatmap,
}

func init() {
	heatmapCmd.Flags().StringVar(&heatmapVariant, "variant", string(analytics.VariantCompleted), "Outcome to bucket: completed or task-success")
	rootCmd.AddCommand(heatmapCmd)
}

// heatmapOutput is the JSON-serializable output for the heatmap command.
type heatmapOutput struct {
	InputFile string                   `json:"input_file"`
	Result    *analytics.HeatmapResult `json:"result"`
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	cfg, err := setupConfig()
	if err != nil {
		return err
	}

	variant, err := analytics.ParseVariant(heatmapVariant)
	if err != nil {
		return err
	}

	records, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	result := analytics.RunHeatmap(records, variant)

	if flagJSON {
		return outputJSON(heatmapOutput{InputFile: inputName(cfg), Result: result})
	}

	if result.Insufficient != nil {
		fmt.Println(output.Section("Call Frequency Heatmap"))
		fmt.Println()
		fmt.Printf(" %s\n\n", output.StyleWarning.Render(fmt.Sprintf(
			"Not enough data: %d distinct number(s), need at least %d.",
			result.Insufficient.DistinctUsers, result.Insufficient.MinUsers,
		)))
		return nil
	}

	renderHeatmap(result.Matrix)
	return nil
}

func renderHeatmap(m *analytics.HeatmapMatrix) {
	outcome := "completed calls"
	if m.Variant == analytics.VariantTaskSuccess {
		outcome = "task successes"
	}

	fmt.Println(output.Section("Call Frequency Heatmap"))
	fmt.Println()
	fmt.Printf(" %s\n\n", output.StyleMuted.Render(fmt.Sprintf(
		"Rows: days called. Columns: %s. Cells: %% of the row's %d number(s).",
		outcome, m.DistinctUsers,
	)))

	headers := append([]string{"Calls \\ " + outcome}, m.ColLabels...)
	t := output.NewTable(headers...)
	for i, label := range m.RowLabels {
		cells := []string{label}
		for _, c := range m.Cells[i] {
			cells = append(cells, heatmapCell(c))
		}
		t.AddRow(cells...)
	}
	t.Print()
}

// heatmapCell renders one cell, shading by percentage. Masked cells are
// structurally impossible and render as a dash.
func heatmapCell(c analytics.HeatmapCell) string {
	if c.Masked {
		return output.StyleMuted.Render("-")
	}
	s := fmt.Sprintf("%.1f%%", c.Percent)
	switch {
	case c.Percent >= 50:
		return output.StyleSuccess.Render(s)
	case c.Percent >= 20:
		return output.StyleWarning.Render(s)
	case c.Percent == 0:
		return output.StyleMuted.Render(s)
	default:
		return s
	}
}
