package ui

import (
	"fmt"
	"strings"
)

func renderProgressBar(elapsed, total float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2 // leave some margin

	var ratio float64
	if total > 0 {
		ratio = elapsed / total
	}
	ratio = max(0, min(1, ratio))

	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
