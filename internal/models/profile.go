package models

import "time"

// AgentProfile is the receptionist configuration for a business as the API
// stores it. The console edits a draft copy of this document and writes it
// back in full or per section.
type AgentProfile struct {
	BusinessName        string     `json:"business_name"`
	BusinessPhoneNumber string     `json:"business_phone_number"`
	BusinessOverview    string     `json:"business_overview"`
	CoreServices        []string   `json:"core_services"`
	FAQEntries          []FAQEntry `json:"faq_entries"`
	Greeting            string     `json:"greeting"`
	UpdatedAt           time.Time  `json:"updated_at,omitempty"`
}

type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Clone returns a copy that shares no slices with the original, so a draft
// and its baseline can evolve independently.
func (p AgentProfile) Clone() AgentProfile {
	out := p
	if p.CoreServices != nil {
		out.CoreServices = append([]string(nil), p.CoreServices...)
	}
	if p.FAQEntries != nil {
		out.FAQEntries = append([]FAQEntry(nil), p.FAQEntries...)
	}
	return out
}

// CoreServicesUpdate is the narrow write used by the services step.
type CoreServicesUpdate struct {
	CoreServices []string `json:"core_services"`
}

// FAQUpdate is the narrow write used by the FAQ step.
type FAQUpdate struct {
	FAQEntries []FAQEntry `json:"faq_entries"`
}
