package profile

import (
	"strings"

	"github.com/frontdeskhq/console/internal/models"
)

// Normalize returns a cleaned copy of the profile: surrounding whitespace is
// trimmed from every text field, blank service entries are dropped, and FAQ
// entries where both question and answer are empty are dropped. Applying it
// twice yields the same result, so callers can normalize defensively.
func Normalize(p models.AgentProfile) models.AgentProfile {
	out := p
	out.BusinessName = strings.TrimSpace(p.BusinessName)
	out.BusinessPhoneNumber = strings.TrimSpace(p.BusinessPhoneNumber)
	out.BusinessOverview = strings.TrimSpace(p.BusinessOverview)
	out.Greeting = strings.TrimSpace(p.Greeting)
	out.CoreServices = NormalizeServices(p.CoreServices)
	out.FAQEntries = NormalizeFAQs(p.FAQEntries)
	return out
}

func NormalizeServices(services []string) []string {
	if services == nil {
		return nil
	}
	out := make([]string, 0, len(services))
	for _, s := range services {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func NormalizeFAQs(entries []models.FAQEntry) []models.FAQEntry {
	if entries == nil {
		return nil
	}
	out := make([]models.FAQEntry, 0, len(entries))
	for _, e := range entries {
		q := strings.TrimSpace(e.Question)
		a := strings.TrimSpace(e.Answer)
		if q == "" && a == "" {
			continue
		}
		out = append(out, models.FAQEntry{Question: q, Answer: a})
	}
	return out
}
