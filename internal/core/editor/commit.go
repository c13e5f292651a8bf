package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/frontdeskhq/console/internal/core/profile"
)

// ValidationError carries field problems that keep a wizard step from
// advancing.
type ValidationError struct {
	Problems map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, m := range e.Problems {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return fmt.Sprintf("invalid profile: %s", strings.Join(msgs, "; "))
}

var groupFields = map[Group][]string{
	GroupProfile:  {"business_name", "business_phone_number", "business_overview"},
	GroupServices: {"core_services"},
	GroupFAQs:     {"faq_entries"},
	GroupGreeting: {"greeting"},
}

// Problems returns the validation problems belonging to one group, or nil.
func (e *Editor) Problems(g Group) map[string]string {
	all := profile.Validate(e.Draft())
	if all == nil {
		return nil
	}
	out := map[string]string{}
	for _, f := range groupFields[g] {
		if msg, ok := all[f]; ok {
			out[f] = msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CommitStep saves a group synchronously before the wizard moves on.
// Validation problems always hold the step. A save failure holds it once;
// if the user presses ahead and it fails again, the step advances anyway
// and the draft simply stays unsaved for the background cycle to retry.
func (e *Editor) CommitStep(ctx context.Context, g Group) (bool, error) {
	if problems := e.Problems(g); problems != nil {
		e.mu.Lock()
		delete(e.blocked, g)
		e.mu.Unlock()
		return false, &ValidationError{Problems: problems}
	}

	err := e.savers[g].SaveNow(ctx)
	if err == nil {
		e.mu.Lock()
		delete(e.blocked, g)
		e.mu.Unlock()
		return true, nil
	}
	if errors.Is(err, context.Canceled) {
		return false, err
	}

	e.mu.Lock()
	wasBlocked := e.blocked[g]
	if wasBlocked {
		delete(e.blocked, g)
	} else {
		e.blocked[g] = true
	}
	e.mu.Unlock()
	return wasBlocked, err
}
