package models

// SectionID identifies one collapsible section on the call-detail screen.
// The set is closed; unknown identifiers coming back from the API are dropped
// during merge.
type SectionID string

const (
	SectionSummary    SectionID = "summary"
	SectionTranscript SectionID = "transcript"
	SectionNotes      SectionID = "notes"
)

// DefaultSectionOrder returns the order used before a user has saved any
// layout preference.
func DefaultSectionOrder() []SectionID {
	return []SectionID{SectionSummary, SectionTranscript, SectionNotes}
}

// CallLayoutPreferences is the user's saved ordering and collapse state for
// call-detail sections.
type CallLayoutPreferences struct {
	SectionOrder      []SectionID        `json:"section_order"`
	CollapsedSections map[SectionID]bool `json:"collapsed_sections"`
}
