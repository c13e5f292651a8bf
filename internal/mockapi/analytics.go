package mockapi

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

var outcomeOrder = []string{"answered", "booked", "voicemail", "missed"}

// summarize folds call rows into the dashboard payload. The production
// pipeline emits avg_duration_seconds pre-formatted as a string, so the stub
// does the same; the console coerces it back at its API boundary.
func summarize(calls []CallRecord, since time.Time, days int) fiber.Map {
	perDay := make(map[string]int, days)
	outcomes := make(map[string]int)

	answered := 0
	durationTotal := 0
	durationCount := 0
	for _, call := range calls {
		perDay[call.StartedAt.Format("2006-01-02")]++
		outcomes[call.Outcome]++
		if call.Outcome == "answered" || call.Outcome == "booked" {
			answered++
		}
		if call.DurationSeconds > 0 {
			durationTotal += call.DurationSeconds
			durationCount++
		}
	}

	dayRows := make([]fiber.Map, 0, days)
	for i := 0; i < days; i++ {
		label := since.AddDate(0, 0, i).Format("2006-01-02")
		dayRows = append(dayRows, fiber.Map{
			"label": label,
			"value": perDay[label],
		})
	}

	outcomeRows := make([]fiber.Map, 0, len(outcomeOrder))
	for _, outcome := range outcomeOrder {
		if n, ok := outcomes[outcome]; ok {
			outcomeRows = append(outcomeRows, fiber.Map{
				"label": outcome,
				"value": n,
			})
		}
	}

	answeredRate := 0.0
	if len(calls) > 0 {
		answeredRate = float64(answered) / float64(len(calls))
	}
	avgDuration := 0.0
	if durationCount > 0 {
		avgDuration = float64(durationTotal) / float64(durationCount)
	}

	return fiber.Map{
		"total_calls":          len(calls),
		"answered_rate":        answeredRate,
		"avg_duration_seconds": fmt.Sprintf("%.1f", avgDuration),
		"calls_per_day":        dayRows,
		"outcomes":             outcomeRows,
	}
}
