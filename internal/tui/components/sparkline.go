package components

import (
	"fmt"

	"github.com/dilasgoi/eessi-monitor/internal/tui/styles"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
)

// sparklineHeight is the fixed height of the health sparkline.
const sparklineHeight = 4

// HealthSparkline renders the rolling healthy-fraction series as a
// sparkline. Values are percentages in the 0-100 range; the scale is
// pinned so a fully healthy history fills the band.
func HealthSparkline(label string, data []float64, width int) string {
	if len(data) == 0 {
		return styles.MutedText.Render(label + ": no data")
	}

	plotWidth := width - 4
	if plotWidth < 10 {
		plotWidth = 10
	}

	sl := sparkline.New(plotWidth, sparklineHeight,
		sparkline.WithMaxValue(100),
		sparkline.WithStyle(lipgloss.NewStyle().Foreground(styles.Blue)),
	)
	sl.PushAll(data)
	sl.Draw()

	current := data[len(data)-1]
	summary := styles.MutedText.Render(fmt.Sprintf("  now: %.0f%%  samples: %d", current, len(data)))

	header := styles.Label.Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, header, sl.View(), summary)
}
