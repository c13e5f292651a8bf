package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/autosave"
	"github.com/frontdeskhq/console/internal/core/editor"
	"github.com/frontdeskhq/console/internal/core/export"
	"github.com/frontdeskhq/console/internal/core/inbox"
	"github.com/frontdeskhq/console/internal/core/integrations"
	"github.com/frontdeskhq/console/internal/core/layout"
	"github.com/frontdeskhq/console/internal/models"
	"github.com/frontdeskhq/console/internal/session"
	"github.com/frontdeskhq/console/internal/shared/config"
)

// newTestModel wires a root model against an unreachable API. The tested
// paths never execute the network commands they produce.
func newTestModel(t *testing.T) (Model, *session.MemoryStore) {
	t.Helper()
	cfg := &config.Config{
		APIBaseURL:      "http://127.0.0.1:0",
		DataDir:         t.TempDir(),
		Theme:           "dark",
		ProfileQuiet:    20 * time.Millisecond,
		ServicesQuiet:   20 * time.Millisecond,
		FAQQuiet:        20 * time.Millisecond,
		GreetingQuiet:   20 * time.Millisecond,
		NotesQuiet:      20 * time.Millisecond,
		StatusDisplay:   50 * time.Millisecond,
		InboxPollSpec:   "@every 1h",
		TokenRefreshGap: time.Minute,
		ExportFormat:    "csv",
	}
	sessions := session.NewMemoryStore()
	client := api.New(cfg.APIBaseURL, sessions)

	m := NewModel(Deps{
		Config:       cfg,
		API:          client,
		Sessions:     sessions,
		Inbox:        inbox.NewService(client),
		Layout:       layout.NewStore(client),
		Integrations: integrations.NewService(client),
		Export:       export.NewService(),
	})
	t.Cleanup(m.editor.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), sessions
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestSaveStatusRoutesToOwningScreen(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, saveStatusMsg(autosave.Snapshot{Group: "profile", Status: autosave.StatusSaving}))
	assert.Equal(t, autosave.StatusSaving, m.setup.chips[editor.GroupProfile].Status)

	m, _ = update(t, m, saveStatusMsg(autosave.Snapshot{Group: "notes", Status: autosave.StatusSaved}))
	assert.Equal(t, autosave.StatusSaved, m.detail.notesChip.Status)
	assert.NotEqual(t, autosave.StatusSaved, m.setup.chips[editor.GroupProfile].Status,
		"note saves never touch the profile chips")
}

func TestSessionExpiredDropsToLogin(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenInbox

	m, _ = update(t, m, sessionExpiredMsg{})

	assert.Equal(t, ScreenLogin, m.screen)
	assert.Equal(t, "Session expired. Please sign in again.", m.login.errLine)
}

func TestDigitKeysSwitchScreens(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenInbox

	m, cmd := update(t, m, key("3"))

	assert.Equal(t, ScreenStats, m.screen)
	assert.True(t, m.stats.busy)
	assert.NotNil(t, cmd, "entering stats kicks off the fetch")
}

func TestWizardIsModal(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenSetup
	m.setup.wizard = true

	m, _ = update(t, m, key("1"))
	assert.Equal(t, ScreenSetup, m.screen, "digits cannot leave an unfinished wizard")

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, ScreenSetup, m.screen)
}

func TestEscLeavesDetailForInbox(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenDetail

	m, cmd := update(t, m, key("esc"))

	assert.Equal(t, ScreenInbox, m.screen)
	assert.True(t, m.inboxPage.busy, "the list refreshes on the way back")
	assert.NotNil(t, cmd)
}

func TestAuthRoutesFreshAccountsIntoWizard(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, authDoneMsg{user: models.UserInfo{Email: "new@biz.com"}})

	assert.Equal(t, ScreenSetup, m.screen)
	assert.True(t, m.setup.wizard)
	assert.Equal(t, 0, m.setup.step)
}

func TestAuthRoutesOnboardedAccountsToInbox(t *testing.T) {
	m, _ := newTestModel(t)

	onboarded := time.Now()
	m, _ = update(t, m, authDoneMsg{
		user:     models.UserInfo{Email: "owner@biz.com", OnboardedAt: &onboarded},
		restored: true,
	})

	assert.Equal(t, ScreenInbox, m.screen)
	assert.Contains(t, m.flash, "Restored unsaved profile edits")
}

func TestAuthFailureStaysOnLogin(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, authDoneMsg{err: api.ErrUnauthorized})

	assert.Equal(t, ScreenLogin, m.screen)
	assert.NotEmpty(t, m.login.errLine)
}

func TestOnboardedFlipsWizardOff(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenSetup
	m.setup.wizard = true

	stamped := time.Now()
	m, _ = update(t, m, onboardedMsg{user: models.UserInfo{Email: "new@biz.com", OnboardedAt: &stamped}})

	assert.False(t, m.setup.wizard)
	assert.Equal(t, ScreenInbox, m.screen)
	assert.NotNil(t, m.user.OnboardedAt)
}

func TestThemeToggleSharesOneStyleSet(t *testing.T) {
	m, sessions := newTestModel(t)
	before := m.styles

	m, _ = update(t, m, toggleThemeMsg{name: "light"})

	assert.Same(t, before, m.styles, "pages keep pointing at the same styles")
	assert.Equal(t, "light", sessions.Theme())
	assert.Equal(t, "light", m.settings.theme)
}

func TestSignOutClearsStoredSession(t *testing.T) {
	m, sessions := newTestModel(t)
	require.NoError(t, sessions.SetSession(session.Session{AccessToken: "tok", RefreshToken: "ref"}))
	m.screen = ScreenSettings

	m, _ = update(t, m, signOutMsg{})

	_, ok := sessions.Session()
	assert.False(t, ok)
	assert.Equal(t, ScreenLogin, m.screen)
	assert.Equal(t, "Signed out.", m.login.errLine)
}

func TestQuitOnlyFromInbox(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenStats

	m, cmd := update(t, m, key("q"))
	assert.Nil(t, cmd, "q elsewhere is not a quit")

	m.screen = ScreenInbox
	_, cmd = update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestChromeShowsTabsAndUser(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenInbox
	m.user = models.UserInfo{Email: "owner@harbordental.com"}

	view := m.View()
	assert.Contains(t, view, "FrontDesk")
	assert.Contains(t, view, "1 Inbox")
	assert.Contains(t, view, "4 Integrations")
	assert.Contains(t, view, "owner@harbordental.com")
	assert.Contains(t, view, "enter open")
}

func TestFlashReplacesHelpLine(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenInbox

	m, _ = update(t, m, exportDoneMsg{path: "/tmp/calls-20260817-093000.csv"})
	assert.Contains(t, m.View(), "Saved /tmp/calls-20260817-093000.csv")

	m, _ = update(t, m, key("2"))
	assert.Empty(t, m.flash, "navigation clears the flash")
}
