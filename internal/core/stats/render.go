package stats

import (
	"fmt"
	"strings"

	"github.com/frontdeskhq/console/internal/models"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the per-day series as one line of block characters,
// scaled to the series maximum. More points than width folds neighbors
// together by peak.
func Sparkline(points []models.StatPoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	values := make([]float64, len(points))
	max := 0.0
	for i, p := range points {
		values[i] = p.Value
		if p.Value > max {
			max = p.Value
		}
	}
	if max == 0 {
		return strings.Repeat(string(sparkRunes[0]), min(width, len(values)))
	}

	cols := min(width, len(values))
	var b strings.Builder
	for c := 0; c < cols; c++ {
		start := c * len(values) / cols
		end := (c + 1) * len(values) / cols
		peak := 0.0
		for i := start; i < end; i++ {
			if values[i] > peak {
				peak = values[i]
			}
		}
		idx := int(peak / max * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// BarRows renders a horizontal bar per point, label left, count right.
func BarRows(points []models.StatPoint, barWidth int) []string {
	if len(points) == 0 {
		return nil
	}
	if barWidth <= 0 {
		barWidth = 20
	}

	max := 0.0
	labelWidth := 0
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
		if len(p.Label) > labelWidth {
			labelWidth = len(p.Label)
		}
	}

	rows := make([]string, 0, len(points))
	for _, p := range points {
		n := 0
		if max > 0 {
			n = int(p.Value / max * float64(barWidth))
		}
		if p.Value > 0 && n == 0 {
			n = 1
		}
		rows = append(rows, fmt.Sprintf("%-*s %s %.0f", labelWidth, p.Label, strings.Repeat("█", n), p.Value))
	}
	return rows
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
