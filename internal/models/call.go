package models

import "time"

// Call is one inbound call as listed in the inbox.
type Call struct {
	ID              string    `json:"id"`
	CallerName      string    `json:"caller_name"`
	CallerNumber    string    `json:"caller_number"`
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Outcome         string    `json:"outcome"` // answered, booked, voicemail, missed
	Summary         string    `json:"summary"`
	HasRecording    bool      `json:"has_recording"`
	Unread          bool      `json:"unread"`
}

// CallDetail is the full record shown on the call screen.
type CallDetail struct {
	Call
	Transcript []TranscriptTurn `json:"transcript"`
	Notes      string           `json:"notes"`
}

// TranscriptTurn is a single exchange in a call transcript.
type TranscriptTurn struct {
	Role      string    `json:"role"` // caller, agent
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// CallListResult is the paged inbox response.
type CallListResult struct {
	Calls      []Call `json:"calls"`
	TotalCount int    `json:"total_count"`
}
