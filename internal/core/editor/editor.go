// Package editor owns the agent profile draft: it tracks what the user has
// typed against the last server-confirmed copy and drives the per-group
// autosave cycles.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/frontdeskhq/console/internal/core/autosave"
	"github.com/frontdeskhq/console/internal/core/profile"
	"github.com/frontdeskhq/console/internal/models"
)

// Group names one independently saved slice of the profile.
type Group string

const (
	GroupProfile  Group = "profile"
	GroupServices Group = "services"
	GroupFAQs     Group = "faqs"
	GroupGreeting Group = "greeting"
)

// Groups lists every field group in wizard order.
func Groups() []Group {
	return []Group{GroupProfile, GroupServices, GroupFAQs, GroupGreeting}
}

// Backend is the slice of the API the editor needs.
type Backend interface {
	FetchProfile(ctx context.Context) (models.AgentProfile, error)
	SaveProfile(ctx context.Context, p models.AgentProfile) (models.AgentProfile, error)
	SaveServices(ctx context.Context, services []string) error
	SaveFAQs(ctx context.Context, entries []models.FAQEntry) error
}

// Backup persists draft snapshots across crashes. *localstore.Store
// satisfies it.
type Backup interface {
	SaveDraft(group string, payload any) error
	LoadDraft(group string, into any) (bool, error)
	DeleteDraft(group string) error
}

const backupKey = "agent-profile"

type Config struct {
	Backend Backend
	// Quiet gives each group its autosave window; groups missing from the
	// map get a second.
	Quiet map[Group]time.Duration
	// Display is how long saved chips linger.
	Display time.Duration
	// OnStatus receives every group's status transitions, tagged with the
	// group name.
	OnStatus func(autosave.Snapshot)
	// Backup, when set, keeps a crash copy of the draft on disk.
	Backup Backup
	// BackupQuiet is how long after the last edit the crash copy is
	// written. Zero means one second.
	BackupQuiet time.Duration
}

type Editor struct {
	backend Backend
	backup  Backup

	mu       sync.Mutex
	draft    models.AgentProfile
	baseline *models.AgentProfile

	savers   map[Group]*autosave.GroupSaver
	backupCo *autosave.Coalescer
	blocked  map[Group]bool
}

func New(cfg Config) *Editor {
	if cfg.BackupQuiet <= 0 {
		cfg.BackupQuiet = time.Second
	}
	e := &Editor{
		backend:  cfg.Backend,
		backup:   cfg.Backup,
		savers:   make(map[Group]*autosave.GroupSaver, 4),
		backupCo: autosave.NewCoalescer(cfg.BackupQuiet),
		blocked:  make(map[Group]bool),
	}

	saves := map[Group]func(context.Context) error{
		GroupProfile:  e.saveFullProfile,
		GroupServices: e.saveServices,
		GroupFAQs:     e.saveFAQs,
		GroupGreeting: e.saveFullProfile,
	}
	dirt := map[Group]func() bool{
		GroupProfile:  e.infoDirty,
		GroupServices: e.servicesDirty,
		GroupFAQs:     e.faqsDirty,
		GroupGreeting: e.greetingDirty,
	}
	for _, g := range Groups() {
		quiet := cfg.Quiet[g]
		if quiet <= 0 {
			quiet = time.Second
		}
		e.savers[g] = autosave.NewGroupSaver(autosave.GroupConfig{
			Name:     string(g),
			Quiet:    quiet,
			Display:  cfg.Display,
			Dirty:    dirt[g],
			Save:     saves[g],
			OnChange: cfg.OnStatus,
		})
	}
	return e
}

// Load pulls the server profile and makes it both draft and baseline.
func (e *Editor) Load(ctx context.Context) error {
	p, err := e.backend.FetchProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	p = profile.Normalize(p)
	e.mu.Lock()
	e.draft = p.Clone()
	bl := p.Clone()
	e.baseline = &bl
	e.mu.Unlock()
	return nil
}

// Draft returns a detached copy of what the user currently sees.
func (e *Editor) Draft() models.AgentProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// Baseline returns the last server-confirmed copy, if any.
func (e *Editor) Baseline() (models.AgentProfile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.baseline == nil {
		return models.AgentProfile{}, false
	}
	return e.baseline.Clone(), true
}

// Revert discards the group's unsaved edits, restoring its fields from the
// last server-confirmed copy. No-op before the first load. A pending save
// timer stays armed but fires clean, so nothing goes out.
func (e *Editor) Revert(g Group) {
	e.mu.Lock()
	if e.baseline == nil {
		e.mu.Unlock()
		return
	}
	switch g {
	case GroupProfile:
		e.draft.BusinessName = e.baseline.BusinessName
		e.draft.BusinessPhoneNumber = e.baseline.BusinessPhoneNumber
		e.draft.BusinessOverview = e.baseline.BusinessOverview
	case GroupServices:
		e.draft.CoreServices = append([]string(nil), e.baseline.CoreServices...)
	case GroupFAQs:
		e.draft.FAQEntries = append([]models.FAQEntry(nil), e.baseline.FAQEntries...)
	case GroupGreeting:
		e.draft.Greeting = e.baseline.Greeting
	}
	delete(e.blocked, g)
	clean := profile.Equal(e.draft, *e.baseline)
	e.mu.Unlock()

	if clean && e.backup != nil {
		e.backupCo.Cancel()
		if err := e.backup.DeleteDraft(backupKey); err != nil {
			log.Warn().Err(err).Msg("could not drop profile draft backup")
		}
		return
	}
	e.scheduleBackup()
}

// Edits. Each setter updates the draft and restarts its group's quiet
// timer.

func (e *Editor) SetBusinessName(v string) {
	e.mu.Lock()
	e.draft.BusinessName = v
	e.mu.Unlock()
	e.touched(GroupProfile)
}

func (e *Editor) SetPhoneNumber(v string) {
	e.mu.Lock()
	e.draft.BusinessPhoneNumber = v
	e.mu.Unlock()
	e.touched(GroupProfile)
}

func (e *Editor) SetOverview(v string) {
	e.mu.Lock()
	e.draft.BusinessOverview = v
	e.mu.Unlock()
	e.touched(GroupProfile)
}

func (e *Editor) SetServices(services []string) {
	e.mu.Lock()
	e.draft.CoreServices = append([]string(nil), services...)
	e.mu.Unlock()
	e.touched(GroupServices)
}

func (e *Editor) SetFAQs(entries []models.FAQEntry) {
	e.mu.Lock()
	e.draft.FAQEntries = append([]models.FAQEntry(nil), entries...)
	e.mu.Unlock()
	e.touched(GroupFAQs)
}

func (e *Editor) SetGreeting(v string) {
	e.mu.Lock()
	e.draft.Greeting = v
	e.mu.Unlock()
	e.touched(GroupGreeting)
}

func (e *Editor) touched(g Group) {
	e.mu.Lock()
	delete(e.blocked, g)
	e.mu.Unlock()
	e.savers[g].Touch()
	e.scheduleBackup()
}

// Dirty reports whether the group differs from the baseline.
func (e *Editor) Dirty(g Group) bool {
	switch g {
	case GroupProfile:
		return e.infoDirty()
	case GroupServices:
		return e.servicesDirty()
	case GroupFAQs:
		return e.faqsDirty()
	case GroupGreeting:
		return e.greetingDirty()
	default:
		return false
	}
}

// Status returns the group's save-cycle snapshot.
func (e *Editor) Status(g Group) autosave.Snapshot {
	return e.savers[g].Status()
}

// Flush fires every pending save immediately, for page leaves.
func (e *Editor) Flush() {
	for _, g := range Groups() {
		e.savers[g].Flush()
	}
}

// Close shuts down all save cycles and waits for in-flight work.
func (e *Editor) Close() {
	e.backupCo.Cancel()
	for _, g := range Groups() {
		e.savers[g].Close()
	}
}

// Dirty checks per group. All of them normalize both sides first, so
// whitespace shuffles never count. No baseline means everything counts as
// unsaved.

func (e *Editor) infoDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.baseline == nil {
		return true
	}
	return !profile.InfoEqual(profile.Normalize(e.draft), profile.Normalize(*e.baseline))
}

func (e *Editor) servicesDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.baseline == nil {
		return true
	}
	return !profile.ServicesEqual(
		profile.NormalizeServices(e.draft.CoreServices),
		profile.NormalizeServices(e.baseline.CoreServices),
	)
}

func (e *Editor) faqsDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.baseline == nil {
		return true
	}
	return !profile.FAQsEqual(
		profile.NormalizeFAQs(e.draft.FAQEntries),
		profile.NormalizeFAQs(e.baseline.FAQEntries),
	)
}

func (e *Editor) greetingDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.baseline == nil {
		return true
	}
	return profile.Normalize(e.draft).Greeting != profile.Normalize(*e.baseline).Greeting
}

// Save functions. Each snapshots the draft at fire time; whatever the user
// types while the request is in flight stays dirty and triggers the next
// cycle.

func (e *Editor) saveFullProfile(ctx context.Context) error {
	e.mu.Lock()
	payload := profile.Normalize(e.draft)
	e.mu.Unlock()

	canonical, err := e.backend.SaveProfile(ctx, payload)
	if err != nil {
		return err
	}
	if canonical.BusinessName == "" && payload.BusinessName != "" {
		// Backend answered with an empty body; the payload is what is on
		// the server now.
		canonical = payload
	}
	e.foldIn(func(bl *models.AgentProfile) { *bl = profile.Normalize(canonical).Clone() })
	return nil
}

func (e *Editor) saveServices(ctx context.Context) error {
	e.mu.Lock()
	payload := profile.NormalizeServices(e.draft.CoreServices)
	e.mu.Unlock()

	if err := e.backend.SaveServices(ctx, payload); err != nil {
		return err
	}
	e.foldIn(func(bl *models.AgentProfile) {
		bl.CoreServices = append([]string(nil), payload...)
	})
	return nil
}

func (e *Editor) saveFAQs(ctx context.Context) error {
	e.mu.Lock()
	payload := profile.NormalizeFAQs(e.draft.FAQEntries)
	e.mu.Unlock()

	if err := e.backend.SaveFAQs(ctx, payload); err != nil {
		return err
	}
	e.foldIn(func(bl *models.AgentProfile) {
		bl.FAQEntries = append([]models.FAQEntry(nil), payload...)
	})
	return nil
}

// foldIn applies a confirmed write to the baseline and clears the crash
// backup once nothing is left unsaved.
func (e *Editor) foldIn(apply func(*models.AgentProfile)) {
	e.mu.Lock()
	if e.baseline == nil {
		e.baseline = &models.AgentProfile{}
	}
	apply(e.baseline)
	clean := profile.Equal(e.draft, *e.baseline)
	e.mu.Unlock()

	if clean && e.backup != nil {
		// Drop the pending backup first so it cannot resurrect the copy
		// after the delete.
		e.backupCo.Cancel()
		if err := e.backup.DeleteDraft(backupKey); err != nil {
			log.Warn().Err(err).Msg("could not drop profile draft backup")
		}
	}
}
