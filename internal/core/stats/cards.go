// Package stats turns the call summary into dashboard cards and terminal
// charts.
package stats

import (
	"fmt"
	"time"

	"github.com/frontdeskhq/console/internal/models"
)

// StatCard is one headline number on the dashboard.
type StatCard struct {
	Title  string
	Value  string
	Change float64
	Trend  string // "up", "down", "neutral"
}

// Cards builds the headline cards, with trends computed against the
// previous period when one is given.
func Cards(current models.CallStats, previous *models.CallStats) []StatCard {
	cards := []StatCard{
		{Title: "Calls", Value: fmt.Sprintf("%d", current.TotalCalls)},
		{Title: "Answered", Value: formatPercent(current.AnsweredRate)},
		{Title: "Avg length", Value: formatDuration(current.AvgDuration)},
	}
	if previous == nil {
		return cards
	}

	prev := []float64{float64(previous.TotalCalls), previous.AnsweredRate, previous.AvgDuration}
	cur := []float64{float64(current.TotalCalls), current.AnsweredRate, current.AvgDuration}
	for i := range cards {
		if prev[i] <= 0 {
			continue
		}
		change := ((cur[i] - prev[i]) / prev[i]) * 100
		cards[i].Change = change
		switch {
		case change > 0:
			cards[i].Trend = "up"
		case change < 0:
			cards[i].Trend = "down"
		default:
			cards[i].Trend = "neutral"
		}
	}
	return cards
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// ShortDay shrinks a 2026-08-17 style label to Aug 17 for axis rows.
// Anything unparseable passes through untouched.
func ShortDay(label string) string {
	t, err := time.Parse("2006-01-02", label)
	if err != nil {
		return label
	}
	return t.Format("Jan 2")
}
