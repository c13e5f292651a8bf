package api

import (
	"strconv"

	"github.com/frontdeskhq/console/internal/models"
)

// The analytics backend is loose about numbers: counts arrive as float64,
// int, or quoted strings depending on which aggregation produced them.
// Everything is straightened out here.

func statsFrom(raw map[string]interface{}) models.CallStats {
	return models.CallStats{
		TotalCalls:   toInt(raw["total_calls"]),
		AnsweredRate: toFloat64(raw["answered_rate"]),
		AvgDuration:  toFloat64(raw["avg_duration_seconds"]),
		CallsPerDay:  toPoints(raw["calls_per_day"]),
		Outcomes:     toPoints(raw["outcomes"]),
	}
}

func toPoints(v interface{}) []models.StatPoint {
	rows, ok := v.([]interface{})
	if !ok {
		return nil
	}
	points := make([]models.StatPoint, 0, len(rows))
	for _, r := range rows {
		row, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		points = append(points, models.StatPoint{
			Label: toString(row["label"]),
			Value: toFloat64(row["value"]),
		})
	}
	return points
}

func toFloat64(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toInt(v interface{}) int {
	return int(toFloat64(v))
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
