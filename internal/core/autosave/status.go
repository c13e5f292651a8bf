package autosave

import "time"

// Status is where a field group sits in its save cycle.
type Status int

const (
	StatusIdle Status = iota
	StatusSaving
	StatusSaved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time view of one group's save cycle, safe to hand
// to the UI.
type Snapshot struct {
	Group     string
	Status    Status
	Err       error
	LastSaved time.Time
}
