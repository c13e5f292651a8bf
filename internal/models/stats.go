package models

// StatPoint is one labeled value on a dashboard chart.
type StatPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CallStats is the dashboard summary for a recent window of calls.
type CallStats struct {
	TotalCalls   int         `json:"total_calls"`
	AnsweredRate float64     `json:"answered_rate"`
	AvgDuration  float64     `json:"avg_duration_seconds"`
	CallsPerDay  []StatPoint `json:"calls_per_day"`
	Outcomes     []StatPoint `json:"outcomes"`
}
