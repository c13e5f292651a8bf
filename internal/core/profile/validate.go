package profile

import (
	"strings"

	"github.com/frontdeskhq/console/internal/models"
)

const (
	maxOverviewLen = 2000
	maxGreetingLen = 500
)

// Validate checks a normalized profile and returns field→message for every
// problem found, or nil when the profile is acceptable. Only the business
// name is hard-required; everything else is optional but must be well formed
// when present.
func Validate(p models.AgentProfile) map[string]string {
	p = Normalize(p)
	problems := map[string]string{}

	if p.BusinessName == "" {
		problems["business_name"] = "Business name is required"
	}
	if p.BusinessPhoneNumber != "" && !validPhone(p.BusinessPhoneNumber) {
		problems["business_phone_number"] = "Enter a valid phone number"
	}
	if len(p.BusinessOverview) > maxOverviewLen {
		problems["business_overview"] = "Overview is too long"
	}
	if len(p.Greeting) > maxGreetingLen {
		problems["greeting"] = "Greeting is too long"
	}
	for _, e := range p.FAQEntries {
		if e.Question == "" && e.Answer != "" {
			problems["faq_entries"] = "FAQ answers need a question"
			break
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

// validPhone accepts the usual human formats: optional leading +, digits,
// and space/dash/dot/paren separators, with 7 to 15 digits total.
func validPhone(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
