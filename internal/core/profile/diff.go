package profile

import "github.com/frontdeskhq/console/internal/models"

// Equal reports whether two profiles carry the same content. Both sides are
// normalized first, so edits that only shuffle whitespace never count as
// changes. UpdatedAt is metadata and does not participate.
func Equal(a, b models.AgentProfile) bool {
	a, b = Normalize(a), Normalize(b)
	return InfoEqual(a, b) &&
		ServicesEqual(a.CoreServices, b.CoreServices) &&
		FAQsEqual(a.FAQEntries, b.FAQEntries) &&
		a.Greeting == b.Greeting
}

// InfoEqual compares only the business info fields (name, phone, overview).
func InfoEqual(a, b models.AgentProfile) bool {
	return a.BusinessName == b.BusinessName &&
		a.BusinessPhoneNumber == b.BusinessPhoneNumber &&
		a.BusinessOverview == b.BusinessOverview
}

// ServicesEqual is order sensitive: the agent reads services back in the
// order the owner listed them.
func ServicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func FAQsEqual(a, b []models.FAQEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Question != b[i].Question || a[i].Answer != b[i].Answer {
			return false
		}
	}
	return true
}
