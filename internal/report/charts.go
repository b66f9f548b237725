package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// chartHeight is the fixed height for all history charts.
const chartHeight = 5

// chart renders a single-series plot with a caption line. Returns a
// "no data" placeholder for an empty series.
func chart(label string, data []float64, width int) string {
	if len(data) == 0 {
		return label + ": no data yet"
	}

	// Reserve space for Y-axis labels (number + " ┤" ≈ 9 chars).
	plotWidth := width - 9
	if plotWidth < 10 {
		plotWidth = 10
	}

	plot := asciigraph.Plot(data,
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(1),
		asciigraph.Caption(label),
	)
	return plot
}

// percentChart renders a 0..1 series as percentages.
func percentChart(label string, data []float64, width int) string {
	if len(data) == 0 {
		return label + ": no data yet"
	}
	scaled := make([]float64, len(data))
	for i, v := range data {
		scaled[i] = v * 100
	}
	return chart(fmt.Sprintf("%s (%%)", label), scaled, width)
}
