package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/autosave"
	"github.com/frontdeskhq/console/internal/core/editor"
	"github.com/frontdeskhq/console/internal/core/inbox"
	"github.com/frontdeskhq/console/internal/core/integrations"
	"github.com/frontdeskhq/console/internal/core/layout"
	"github.com/frontdeskhq/console/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testStyles() *Styles {
	s := NewStyles(DarkTheme())
	return &s
}

// key builds the KeyMsg a terminal would deliver for one press.
func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes a command and returns the message it produces.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd, "expected the page to emit a command")
	return cmd()
}

func typeString(t *testing.T, update func(tea.Msg) tea.Cmd, text string) {
	t.Helper()
	for _, r := range text {
		update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Inbox

func sampleCalls() []models.Call {
	base := time.Date(2026, 8, 17, 9, 30, 0, 0, time.UTC)
	return []models.Call{
		{ID: "c-1", CallerName: "Dana Reyes", CallerNumber: "+1 555 010 1111", StartedAt: base, DurationSeconds: 204, Outcome: "booked", Summary: "Wants a crown fitted next week", Unread: true, HasRecording: true},
		{ID: "c-2", CallerName: "", CallerNumber: "+1 555 010 2222", StartedAt: base.Add(time.Hour), DurationSeconds: 0, Outcome: "missed"},
		{ID: "c-3", CallerName: "Ben Okafor", CallerNumber: "+1 555 010 3333", StartedAt: base.Add(2 * time.Hour), DurationSeconds: 61, Outcome: "voicemail", Summary: "Left a message about pricing"},
	}
}

func loadedInbox(t *testing.T) inboxModel {
	t.Helper()
	p := newInboxModel(testStyles())
	p.setSize(100, 30)
	p.setResult(callsMsg{page: 0, result: models.CallListResult{Calls: sampleCalls(), TotalCount: 3}})
	return p
}

func TestInboxRendersCallRows(t *testing.T) {
	p := loadedInbox(t)

	view := p.View()
	assert.Contains(t, view, "Inbox · 3 calls · page 1/1")
	assert.Contains(t, view, "Dana Reyes")
	assert.Contains(t, view, "+1 555 010 2222", "number stands in for an anonymous caller")
	assert.Contains(t, view, "booked")
	assert.Contains(t, view, "3:24")
	assert.Contains(t, view, "Wants a crown fitted", "selected row shows its summary")
}

func TestInboxEnterOpensSelectedCall(t *testing.T) {
	p := loadedInbox(t)

	p, _ = p.Update(key("down"))
	p, cmd := p.Update(key("enter"))

	msg := runCmd(t, cmd)
	require.IsType(t, openCallRequestMsg{}, msg)
	assert.Equal(t, "c-2", msg.(openCallRequestMsg).id)
}

func TestInboxUnreadToggleReloadsFirstPage(t *testing.T) {
	p := loadedInbox(t)
	p.page = 2

	p, cmd := p.Update(key("u"))

	msg := runCmd(t, cmd)
	req, ok := msg.(callsRequestMsg)
	require.True(t, ok)
	assert.True(t, req.unread)
	assert.Equal(t, 0, req.page, "filter change starts from the first page")
	assert.True(t, p.busy)
}

func TestInboxPagingStaysInBounds(t *testing.T) {
	p := newInboxModel(testStyles())
	p.setSize(100, 30)
	p.setResult(callsMsg{page: 0, result: models.CallListResult{Calls: sampleCalls(), TotalCount: 60}})

	p, cmd := p.Update(key("p"))
	assert.Nil(t, cmd, "no previous page before the first")

	p, cmd = p.Update(key("n"))
	msg := runCmd(t, cmd)
	assert.Equal(t, 1, msg.(callsRequestMsg).page)

	p.setResult(callsMsg{page: 2, result: models.CallListResult{Calls: sampleCalls(), TotalCount: 60}})
	_, cmd = p.Update(key("n"))
	assert.Nil(t, cmd, "no page past the last")
}

func TestInboxSilentRefreshKeepsSelection(t *testing.T) {
	p := loadedInbox(t)
	p, _ = p.Update(key("down"))
	p, _ = p.Update(key("down"))
	require.Equal(t, 2, p.cursor)

	// The poll returns the list with a new call on top.
	refreshed := append([]models.Call{{ID: "c-0", CallerName: "New Caller", Unread: true}}, sampleCalls()...)
	p.setResult(callsMsg{page: 0, silent: true, result: models.CallListResult{Calls: refreshed, TotalCount: 4}})

	assert.Equal(t, "c-3", p.calls[p.cursor].ID, "selection follows the call, not the row index")
}

func TestInboxSilentFailureKeepsStaleList(t *testing.T) {
	p := loadedInbox(t)

	p.setResult(callsMsg{silent: true, err: context.DeadlineExceeded})

	assert.Empty(t, p.errLine, "background polls fail quietly")
	assert.Len(t, p.calls, 3)
}

func TestInboxExportNeedsRows(t *testing.T) {
	p := newInboxModel(testStyles())
	p.setSize(100, 30)
	p.setResult(callsMsg{result: models.CallListResult{}})

	_, cmd := p.Update(key("x"))
	assert.Nil(t, cmd, "nothing to export from an empty list")

	p = loadedInbox(t)
	_, cmd = p.Update(key("x"))
	msg := runCmd(t, cmd)
	assert.IsType(t, exportRequestMsg{}, msg)
}

func TestInboxMarkReadClearsBadge(t *testing.T) {
	p := loadedInbox(t)
	require.True(t, p.calls[0].Unread)

	p.markRead("c-1")
	assert.False(t, p.calls[0].Unread)
}

// Call detail

type fakeCallBackend struct {
	mu        sync.Mutex
	noteSaves []string
}

func (f *fakeCallBackend) ListCalls(ctx context.Context, opts api.CallListOptions) (models.CallListResult, error) {
	return models.CallListResult{}, nil
}

func (f *fakeCallBackend) GetCall(ctx context.Context, id string) (models.CallDetail, error) {
	return models.CallDetail{}, nil
}

func (f *fakeCallBackend) MarkCallRead(ctx context.Context, id string) error { return nil }

func (f *fakeCallBackend) SaveCallNotes(ctx context.Context, id, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteSaves = append(f.noteSaves, notes)
	return nil
}

func (f *fakeCallBackend) FetchRecording(ctx context.Context, id string) ([]byte, error) {
	return nil, nil
}

func (f *fakeCallBackend) notes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.noteSaves...)
}

type fakeLayoutRemote struct {
	prefs models.CallLayoutPreferences
}

func (f *fakeLayoutRemote) FetchCallLayout(ctx context.Context) (models.CallLayoutPreferences, error) {
	return f.prefs, nil
}

func (f *fakeLayoutRemote) SaveCallLayout(ctx context.Context, prefs models.CallLayoutPreferences) error {
	return nil
}

func sampleDetail() models.CallDetail {
	return models.CallDetail{
		Call: models.Call{
			ID: "c-1", CallerName: "Dana Reyes", CallerNumber: "+1 555 010 1111",
			StartedAt: time.Date(2026, 8, 17, 9, 30, 0, 0, time.UTC),
			DurationSeconds: 204, Outcome: "booked",
			Summary: "Wants a crown fitted next week",
		},
		Transcript: []models.TranscriptTurn{
			{Role: "agent", Text: "Thanks for calling Harbor Dental!"},
			{Role: "caller", Text: "Hi, I need to book a crown fitting."},
		},
		Notes: "",
	}
}

func openedDetail(t *testing.T) (detailModel, *fakeCallBackend, *layout.Store) {
	t.Helper()
	be := &fakeCallBackend{}
	store := layout.NewStore(&fakeLayoutRemote{})
	t.Cleanup(store.Close)

	call := sampleDetail()
	prefs := store.Load(context.Background(), inbox.AvailableSections(call))
	notes := inbox.NewNotesEditor(be, call.ID, call.Notes, 50*time.Millisecond, nil)

	d := newDetailModel(testStyles())
	d.setSize(100, 30)
	d.open(call, prefs, store, notes)
	t.Cleanup(d.close)
	return d, be, store
}

func TestDetailRendersSectionsInOrder(t *testing.T) {
	d, _, _ := openedDetail(t)

	view := d.View()
	assert.Contains(t, view, "Dana Reyes")
	assert.Contains(t, view, "Summary")
	assert.Contains(t, view, "Transcript")
	assert.Contains(t, view, "Notes")
	assert.Contains(t, view, "Wants a crown fitted next week")
	assert.Contains(t, view, "book a crown fitting")
	assert.Less(t, strings.Index(view, "Summary"), strings.Index(view, "Transcript"))
}

func TestDetailCollapseHidesBody(t *testing.T) {
	d, _, _ := openedDetail(t)
	d.cursor = 1 // transcript

	d, _ = d.Update(key("enter"))

	view := d.View()
	assert.Contains(t, view, "Transcript", "the header stays")
	assert.NotContains(t, view, "book a crown fitting", "the body folds away")
}

func TestDetailReorderMovesSection(t *testing.T) {
	d, _, store := openedDetail(t)
	require.Equal(t, models.SectionSummary, d.prefs.SectionOrder[0])

	d, _ = d.Update(key("J"))

	assert.Equal(t, models.SectionTranscript, d.prefs.SectionOrder[0])
	assert.Equal(t, models.SectionSummary, d.prefs.SectionOrder[1])
	assert.Equal(t, 1, d.cursor, "cursor rides along with the section")
	assert.Equal(t, d.prefs.SectionOrder, store.Current().SectionOrder)
}

func TestDetailNotesEditingFeedsAutosave(t *testing.T) {
	d, be, _ := openedDetail(t)

	d, _ = d.Update(key("e"))
	require.True(t, d.typing())

	typeString(t, func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		d, cmd = d.Update(msg)
		return cmd
	}, "Call back Tuesday")

	assert.Equal(t, "Call back Tuesday", d.notes.Draft())

	d, _ = d.Update(key("esc"))
	assert.False(t, d.typing())

	// Leaving the call flushes whatever the quiet timer still holds.
	d.close()
	assert.Equal(t, []string{"Call back Tuesday"}, be.notes())
}

func TestDetailWaveformStates(t *testing.T) {
	d, _, _ := openedDetail(t)
	d.call.HasRecording = true
	d.waveLoading = true

	assert.Contains(t, d.View(), "Loading recording…")

	d.setWaveform(waveformMsg{id: "c-1", wave: inbox.Waveform{
		Peaks:    []float64{0, 0.5, 1},
		Duration: 204 * time.Second,
	}})
	view := d.View()
	assert.Contains(t, view, "▁")
	assert.Contains(t, view, "█")

	d.setWaveform(waveformMsg{id: "other", err: context.DeadlineExceeded})
	assert.Contains(t, d.View(), "█", "a result for a different call is ignored")
}

// Setup wizard

type fakeProfileBackend struct {
	mu           sync.Mutex
	remote       models.AgentProfile
	profileSaves int
	saveErr      error
}

func (f *fakeProfileBackend) FetchProfile(ctx context.Context) (models.AgentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remote.Clone(), nil
}

func (f *fakeProfileBackend) SaveProfile(ctx context.Context, p models.AgentProfile) (models.AgentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return models.AgentProfile{}, f.saveErr
	}
	f.remote = p.Clone()
	f.profileSaves++
	return f.remote.Clone(), nil
}

func (f *fakeProfileBackend) SaveServices(ctx context.Context, services []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.remote.CoreServices = append([]string(nil), services...)
	return nil
}

func (f *fakeProfileBackend) SaveFAQs(ctx context.Context, entries []models.FAQEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.remote.FAQEntries = append([]models.FAQEntry(nil), entries...)
	return nil
}

func (f *fakeProfileBackend) setSaveErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

func (f *fakeProfileBackend) saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profileSaves
}

func newSetupPage(t *testing.T) (setupModel, *fakeProfileBackend, *editor.Editor) {
	t.Helper()
	be := &fakeProfileBackend{remote: models.AgentProfile{
		BusinessName:        "Harbor Dental",
		BusinessPhoneNumber: "+1 555 010 9999",
		CoreServices:        []string{"Cleanings"},
		Greeting:            "Thanks for calling Harbor Dental!",
	}}
	quiet := map[editor.Group]time.Duration{
		editor.GroupProfile:  20 * time.Millisecond,
		editor.GroupServices: 20 * time.Millisecond,
		editor.GroupFAQs:     20 * time.Millisecond,
		editor.GroupGreeting: 20 * time.Millisecond,
	}
	ed := editor.New(editor.Config{Backend: be, Quiet: quiet})
	t.Cleanup(ed.Close)
	require.NoError(t, ed.Load(context.Background()))

	s := newSetupModel(testStyles(), ed)
	s.setSize(100, 40)
	s.syncDraft()
	return s, be, ed
}

func (s *setupModel) press(t *testing.T, k string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	*s, cmd = s.Update(key(k))
	return cmd
}

func TestSetupTypingFeedsEditor(t *testing.T) {
	s, _, ed := newSetupPage(t)

	typeString(t, func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		s, cmd = s.Update(msg)
		return cmd
	}, " & Co")

	assert.Equal(t, "Harbor Dental & Co", ed.Draft().BusinessName)
}

func TestSetupCommitAdvancesStep(t *testing.T) {
	s, be, _ := newSetupPage(t)
	s.wizard = true

	cmd := s.press(t, "ctrl+n")
	msg := runCmd(t, cmd)
	commit, ok := msg.(commitMsg)
	require.True(t, ok)
	assert.True(t, commit.ok)

	s, _ = s.Update(commit)
	assert.Equal(t, stepServices, s.step)
	assert.Equal(t, 0, be.saves(), "a clean group advances without writing")
}

func TestSetupValidationHoldsStep(t *testing.T) {
	s, _, ed := newSetupPage(t)
	ed.SetBusinessName("   ")

	msg := runCmd(t, s.press(t, "ctrl+n"))
	s, _ = s.Update(msg.(commitMsg))

	assert.Equal(t, stepBusiness, s.step)
	assert.Contains(t, s.problems, "business_name")
	assert.Contains(t, s.View(), "Business name is required")
}

func TestSetupSaveFailureBlocksOnceThenProceeds(t *testing.T) {
	s, be, ed := newSetupPage(t)
	be.setSaveErr(context.DeadlineExceeded)
	ed.SetBusinessName("Harbor Dental Studio")

	s, _ = s.Update(runCmd(t, s.press(t, "ctrl+n")).(commitMsg))
	assert.Equal(t, stepBusiness, s.step, "the first failure holds the step")
	assert.NotEmpty(t, s.commitErr)
	assert.Contains(t, s.View(), "ctrl+n again continues anyway")

	s, _ = s.Update(runCmd(t, s.press(t, "ctrl+n")).(commitMsg))
	assert.Equal(t, stepServices, s.step, "pressing ahead advances with the draft unsaved")
}

func TestSetupServiceListEditing(t *testing.T) {
	s, _, ed := newSetupPage(t)
	s.step = stepServices
	s.syncDraft()

	s.press(t, "a")
	require.True(t, s.typing())
	typeString(t, func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		s, cmd = s.Update(msg)
		return cmd
	}, "Whitening")
	s.press(t, "enter")

	assert.Equal(t, []string{"Cleanings", "Whitening"}, ed.Draft().CoreServices)

	s.press(t, "K")
	assert.Equal(t, []string{"Whitening", "Cleanings"}, ed.Draft().CoreServices)

	s.press(t, "d")
	assert.Equal(t, []string{"Cleanings"}, ed.Draft().CoreServices)
}

func TestSetupRevertKeyRestoresStep(t *testing.T) {
	be := &fakeProfileBackend{remote: models.AgentProfile{
		BusinessName: "Harbor Dental",
		CoreServices: []string{"Cleanings"},
	}}
	// Default quiet windows are wide enough that nothing fires mid-test.
	ed := editor.New(editor.Config{Backend: be})
	t.Cleanup(ed.Close)
	require.NoError(t, ed.Load(context.Background()))

	s := newSetupModel(testStyles(), ed)
	s.setSize(100, 40)
	s.step = stepServices
	s.syncDraft()

	s.press(t, "a")
	typeString(t, func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		s, cmd = s.Update(msg)
		return cmd
	}, "Whitening")
	s.press(t, "enter")
	require.Equal(t, []string{"Cleanings", "Whitening"}, ed.Draft().CoreServices)

	s.press(t, "R")

	assert.Equal(t, []string{"Cleanings"}, ed.Draft().CoreServices)
	assert.Equal(t, []string{"Cleanings"}, s.services, "the list view follows the draft")
	assert.False(t, ed.Dirty(editor.GroupServices))
}

func TestSetupFAQEditing(t *testing.T) {
	s, _, ed := newSetupPage(t)
	s.step = stepFAQs
	s.syncDraft()

	s.press(t, "a")
	require.True(t, s.typing())
	typeString(t, func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		s, cmd = s.Update(msg)
		return cmd
	}, "Do you take walk-ins?")
	s.press(t, "tab")
	typeString(t, func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		s, cmd = s.Update(msg)
		return cmd
	}, "Weekdays before noon.")
	s.press(t, "enter")

	require.Len(t, ed.Draft().FAQEntries, 1)
	assert.Equal(t, "Do you take walk-ins?", ed.Draft().FAQEntries[0].Question)
	assert.Equal(t, "Weekdays before noon.", ed.Draft().FAQEntries[0].Answer)
	assert.False(t, s.typing())
}

func TestSetupWizardFinishEmitsDone(t *testing.T) {
	s, _, _ := newSetupPage(t)
	s.wizard = true
	s.step = stepGreeting
	s.syncDraft()

	commit := runCmd(t, s.press(t, "ctrl+n")).(commitMsg)
	require.True(t, commit.ok)

	var cmd tea.Cmd
	s, cmd = s.Update(commit)
	msg := runCmd(t, cmd)
	assert.IsType(t, setupDoneMsg{}, msg)
}

func TestSetupChipsShowSaveState(t *testing.T) {
	s, _, _ := newSetupPage(t)

	s.setStatus(autosave.Snapshot{Group: "profile", Status: autosave.StatusSaving})
	assert.Contains(t, s.View(), "Saving…")

	s.setStatus(autosave.Snapshot{Group: "profile", Status: autosave.StatusSaved})
	assert.Contains(t, s.View(), "Saved.")
}

// Stats

func sampleStats() models.CallStats {
	return models.CallStats{
		TotalCalls:   12,
		AnsweredRate: 0.75,
		AvgDuration:  95,
		CallsPerDay: []models.StatPoint{
			{Label: "2026-08-17", Value: 3},
			{Label: "2026-08-18", Value: 0},
			{Label: "2026-08-19", Value: 9},
		},
		Outcomes: []models.StatPoint{
			{Label: "booked", Value: 5},
			{Label: "missed", Value: 1},
		},
	}
}

func TestStatsViewShowsCardsAndCharts(t *testing.T) {
	p := newStatsModel(testStyles())
	p.setSize(100, 30)
	p.setResult(statsMsg{days: 7, stats: sampleStats()})

	view := p.View()
	assert.Contains(t, view, "last 7 days")
	assert.Contains(t, view, "12")
	assert.Contains(t, view, "75%")
	assert.Contains(t, view, "1:35")
	assert.Contains(t, view, "Aug 17")
	assert.Contains(t, view, "booked")
	assert.Contains(t, view, "█")
}

func TestStatsWindowKeys(t *testing.T) {
	p := newStatsModel(testStyles())
	p.setResult(statsMsg{days: 7, stats: sampleStats()})

	p, cmd := p.Update(key("m"))
	msg := runCmd(t, cmd)
	assert.Equal(t, 30, msg.(statsRequestMsg).days)

	p.setResult(statsMsg{days: 30, stats: sampleStats()})
	_, cmd = p.Update(key("m"))
	assert.Nil(t, cmd, "the shown window needs no refetch")
}

// Integrations

func sampleGroups() []integrations.CategoryGroup {
	return []integrations.CategoryGroup{
		{Category: "telephony", Items: []models.Integration{
			{ID: "twilio", Name: "Twilio Number", Status: "connected", Description: "Your business line"},
		}},
		{Category: "messaging", Items: []models.Integration{
			{ID: "whatsapp", Name: "WhatsApp Business", Status: "available", Description: "Answer WhatsApp messages too"},
		}},
	}
}

func TestIntegrationsListGroupsByCategory(t *testing.T) {
	p := newIntegrationsModel(testStyles())
	p.setSize(100, 30)
	p.setResult(integrationsMsg{groups: sampleGroups()})

	view := p.View()
	assert.Contains(t, view, "Telephony")
	assert.Contains(t, view, "Messaging")
	assert.Contains(t, view, "✓ connected")
	assert.Contains(t, view, "not connected")
	assert.Less(t, strings.Index(view, "Telephony"), strings.Index(view, "Messaging"))
}

func TestIntegrationsEnterStartsPairing(t *testing.T) {
	p := newIntegrationsModel(testStyles())
	p.setSize(100, 30)
	p.setResult(integrationsMsg{groups: sampleGroups()})

	_, cmd := p.Update(key("enter"))
	assert.Nil(t, cmd, "a connected integration has nothing to pair")

	p, _ = p.Update(key("down"))
	_, cmd = p.Update(key("enter"))
	msg := runCmd(t, cmd)
	assert.Equal(t, "whatsapp", msg.(pairRequestMsg).id)
}

func TestIntegrationsQROverlayLifecycle(t *testing.T) {
	p := newIntegrationsModel(testStyles())
	p.setSize(100, 40)
	p.setResult(integrationsMsg{groups: sampleGroups()})

	p.setPairing(pairingMsg{
		session: models.PairingSession{IntegrationID: "whatsapp", ExpiresAt: time.Now().Add(45 * time.Second)},
		qr:      "[QR-BLOCK]",
	})
	require.True(t, p.pairingOpen())
	view := p.View()
	assert.Contains(t, view, "[QR-BLOCK]")
	assert.Contains(t, view, "WhatsApp Business")
	assert.Contains(t, view, "Scan with your phone")

	assert.True(t, p.tickPairing())

	p, _ = p.Update(key("esc"))
	assert.False(t, p.pairingOpen())
	assert.False(t, p.tickPairing(), "a closed overlay stops the countdown")
}

func TestIntegrationsExpiredQROffersRetry(t *testing.T) {
	p := newIntegrationsModel(testStyles())
	p.setSize(100, 40)
	p.setPairing(pairingMsg{
		session: models.PairingSession{IntegrationID: "whatsapp", ExpiresAt: time.Now().Add(-time.Second)},
		qr:      "[QR-BLOCK]",
	})

	assert.False(t, p.tickPairing(), "an expired session stops ticking")
	assert.Contains(t, p.View(), "The code expired.")

	p, cmd := p.Update(key("enter"))
	msg := runCmd(t, cmd)
	assert.Equal(t, "whatsapp", msg.(pairRequestMsg).id, "enter asks for a fresh code")
}

// Billing

func TestBillingViewShowsPlansAndUsage(t *testing.T) {
	p := newBillingModel(testStyles())
	p.setSize(120, 40)

	renews := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	p.setResult(billingMsg{
		plans: []models.Plan{
			{ID: "starter", Name: "Starter", PriceMonthly: decimal.Zero, Currency: "USD", CallAllowance: 50},
			{ID: "pro", Name: "Pro", PriceMonthly: decimal.NewFromInt(49), Currency: "USD", CallAllowance: 200, Features: []string{"Call recordings"}},
		},
		sub: models.Subscription{PlanID: "pro", Status: "active", RenewsAt: &renews, CallsUsed: 50},
	})

	view := p.View()
	assert.Contains(t, view, "Active, renews Sep 1")
	assert.Contains(t, view, "50 of 200 calls used")
	assert.Contains(t, view, "Free")
	assert.Contains(t, view, "$49/mo")
	assert.Contains(t, view, "current")
	assert.Contains(t, view, "Call recordings")
	assert.Equal(t, 1, p.cursor, "the cursor starts on the current plan")
}

// Settings

func TestSettingsThemeToggleAndSignOut(t *testing.T) {
	p := newSettingsModel(testStyles())
	p.user = models.UserInfo{Name: "Alex Chen", Email: "alex@harbordental.com", BusinessName: "Harbor Dental"}
	p.theme = "dark"
	p.setSize(100, 30)

	view := p.View()
	assert.Contains(t, view, "alex@harbordental.com")
	assert.Contains(t, view, "Harbor Dental")

	_, cmd := p.Update(key("t"))
	msg := runCmd(t, cmd)
	assert.Equal(t, "light", msg.(toggleThemeMsg).name)

	_, cmd = p.Update(key("o"))
	assert.IsType(t, signOutMsg{}, runCmd(t, cmd))
}

// Login

func TestLoginValidatesBeforeSubmitting(t *testing.T) {
	l := newLoginModel(testStyles())
	l.setSize(100, 30)

	l.inputs[loginFieldEmail].SetValue("not-an-email")
	l.focus = l.fieldCount() - 1
	l, cmd := l.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Enter a valid email address.", l.errLine)

	l.inputs[loginFieldEmail].SetValue("owner@harbordental.com")
	l.inputs[loginFieldPassword].SetValue("hunter2hunter2")
	l, cmd = l.Update(key("enter"))
	msg := runCmd(t, cmd)
	sub := msg.(loginSubmitMsg)
	assert.False(t, sub.register)
	assert.Equal(t, "owner@harbordental.com", sub.email)
}

func TestLoginRegisterModeNeedsBusinessFields(t *testing.T) {
	l := newLoginModel(testStyles())
	l.setSize(100, 30)

	l, _ = l.Update(key("ctrl+r"))
	require.True(t, l.register)

	l.inputs[loginFieldEmail].SetValue("owner@harbordental.com")
	l.inputs[loginFieldPassword].SetValue("hunter2hunter2")
	l.focus = l.fieldCount() - 1
	l, cmd := l.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Name and business name are required.", l.errLine)

	l.inputs[loginFieldName].SetValue("Alex Chen")
	l.inputs[loginFieldBusiness].SetValue("Harbor Dental")
	l, cmd = l.Update(key("enter"))
	sub := runCmd(t, cmd).(loginSubmitMsg)
	assert.True(t, sub.register)
	assert.Equal(t, "Harbor Dental", sub.business)
}
