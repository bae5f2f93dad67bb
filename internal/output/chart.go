package output

import "github.com/guptarohit/asciigraph"

// LineChart renders a single data series as an ASCII line chart.
// Dimensions below the minimums are clamped so small terminals still get
// a legible plot.
func LineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return StyleMuted.Render("No data available")
	}

	if width < 20 {
		width = 20
	}
	if height < 5 {
		height = 5
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
