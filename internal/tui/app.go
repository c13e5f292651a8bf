package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/autosave"
	"github.com/frontdeskhq/console/internal/core/editor"
	"github.com/frontdeskhq/console/internal/core/export"
	"github.com/frontdeskhq/console/internal/core/inbox"
	"github.com/frontdeskhq/console/internal/core/integrations"
	"github.com/frontdeskhq/console/internal/core/layout"
	"github.com/frontdeskhq/console/internal/core/refresh"
	"github.com/frontdeskhq/console/internal/localstore"
	"github.com/frontdeskhq/console/internal/models"
	"github.com/frontdeskhq/console/internal/session"
	"github.com/frontdeskhq/console/internal/shared/config"
)

// Screen is the active console page.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSetup
	ScreenInbox
	ScreenDetail
	ScreenStats
	ScreenIntegrations
	ScreenBilling
	ScreenSettings
)

// tabs in nav-bar order; ScreenDetail lives under the inbox and has no tab.
var navTabs = []struct {
	screen Screen
	key    string
	label  string
}{
	{ScreenInbox, "1", "Inbox"},
	{ScreenSetup, "2", "Profile"},
	{ScreenStats, "3", "Stats"},
	{ScreenIntegrations, "4", "Integrations"},
	{ScreenBilling, "5", "Billing"},
	{ScreenSettings, "6", "Settings"},
}

// Deps is everything the console screens need from the outside. Local and
// Scheduler may be nil; tests run without them.
type Deps struct {
	Config       *config.Config
	API          *api.Client
	Sessions     session.Store
	Local        *localstore.Store
	Inbox        *inbox.Service
	Layout       *layout.Store
	Integrations *integrations.Service
	Export       *export.Service
	Scheduler    *refresh.Scheduler
}

// Model is the root bubbletea model. It owns screen routing, the shared
// profile editor and the event bridge that carries autosave status and
// background wake-ups into the update loop.
type Model struct {
	deps   Deps
	editor *editor.Editor
	styles *Styles

	// events carries messages produced outside the update loop: autosave
	// status transitions, cron wake-ups and the dead-session hook.
	events chan tea.Msg

	screen  Screen
	width   int
	height  int
	ready   bool
	booting bool
	user    models.UserInfo

	flash      string
	flashIsErr bool

	spinner spinner.Model

	login        loginModel
	setup        setupModel
	inboxPage    inboxModel
	detail       detailModel
	stats        statsModel
	integrations integrationsModel
	billing      billingModel
	settings     settingsModel
}

// NewModel wires the console together. It builds the profile editor on top
// of deps.API, bridges its status events into the update loop, and loads
// the persisted theme.
func NewModel(deps Deps) Model {
	events := make(chan tea.Msg, 32)
	post := func(msg tea.Msg) {
		select {
		case events <- msg:
		default:
			// A full queue means the UI is far behind; dropping a status
			// blip is better than blocking a save goroutine.
		}
	}

	themeName := deps.Sessions.Theme()
	if themeName == "" {
		themeName = deps.Config.Theme
	}
	theme := ThemeByName(themeName)
	styles := NewStyles(theme)

	ed := editor.New(editor.Config{
		Backend: deps.API,
		Quiet: map[editor.Group]time.Duration{
			editor.GroupProfile:  deps.Config.ProfileQuiet,
			editor.GroupServices: deps.Config.ServicesQuiet,
			editor.GroupFAQs:     deps.Config.FAQQuiet,
			editor.GroupGreeting: deps.Config.GreetingQuiet,
		},
		Display:  deps.Config.StatusDisplay,
		OnStatus: func(snap autosave.Snapshot) { post(saveStatusMsg(snap)) },
		Backup:   backupOrNil(deps.Local),
	})

	deps.API.OnUnauthorized = func() { post(sessionExpiredMsg{}) }

	if deps.Scheduler != nil {
		if err := deps.Scheduler.Add("inbox-poll", deps.Config.InboxPollSpec, func() {
			post(pollTickMsg{})
		}); err != nil {
			log.Warn().Err(err).Msg("could not schedule inbox poll")
		}
		registerTokenRefresh(deps)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		deps:         deps,
		editor:       ed,
		styles:       &styles,
		events:       events,
		screen:       ScreenLogin,
		spinner:      sp,
		login:        newLoginModel(&styles),
		setup:        newSetupModel(&styles, ed),
		inboxPage:    newInboxModel(&styles),
		detail:       newDetailModel(&styles),
		stats:        newStatsModel(&styles),
		integrations: newIntegrationsModel(&styles),
		billing:      newBillingModel(&styles),
		settings:     newSettingsModel(&styles),
	}

	// The settings page shows the effective theme even when the name came
	// from terminal detection.
	if theme.IsDark {
		m.settings.theme = "dark"
	} else {
		m.settings.theme = "light"
	}

	if sess, ok := deps.Sessions.Session(); ok && sess.Valid() {
		m.booting = true
	}
	return m
}

// backupOrNil avoids handing the editor a typed-nil interface.
func backupOrNil(local *localstore.Store) editor.Backup {
	if local == nil {
		return nil
	}
	return local
}

// registerTokenRefresh keeps the access token ahead of its expiry. Runs off
// the cron goroutine; a failed refresh surfaces through the 401 hook on the
// next real call.
func registerTokenRefresh(deps Deps) {
	err := deps.Scheduler.Add("token-refresh", "@every 60s", func() {
		sess, ok := deps.Sessions.Session()
		if !ok || !sess.Valid() {
			return
		}
		if !session.ExpiresSoon(sess.AccessToken, deps.Config.TokenRefreshGap) {
			return
		}
		if err := deps.API.EnsureFresh(context.Background(), deps.Config.TokenRefreshGap); err != nil {
			log.Warn().Err(err).Msg("token refresh failed")
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("could not schedule token refresh")
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.waitForEvent()}
	if m.booting {
		cmds = append(cmds, m.bootCmd())
	}
	return tea.Batch(cmds...)
}

// waitForEvent pulls the next bridged message into the update loop and
// re-arms itself from Update.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizePages()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case saveStatusMsg:
		snap := autosave.Snapshot(msg)
		if snap.Group == "notes" {
			m.detail.setStatus(snap)
		} else {
			m.setup.setStatus(snap)
		}
		return m, m.waitForEvent()

	case sessionExpiredMsg:
		return m.signedOut("Session expired. Please sign in again."), m.waitForEvent()

	case pollTickMsg:
		cmd := m.waitForEvent()
		if m.screen == ScreenInbox && !m.inboxPage.busy {
			return m, tea.Batch(cmd, m.callsCmd(m.inboxPage.page, m.inboxPage.unreadOnly, true))
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.routeMsg(msg)
}

// handleKey deals with the global chrome keys, then hands the rest to the
// active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.shutdown()
		return m, tea.Quit
	}

	if m.screen == ScreenLogin || m.booting {
		return m.routeMsg(msg)
	}

	if !m.typing() && !m.modal() {
		switch msg.String() {
		case "q":
			if m.screen == ScreenInbox {
				m.shutdown()
				return m, tea.Quit
			}
		case "esc":
			if m.screen == ScreenDetail {
				m.detail.close()
				return m.switchTo(ScreenInbox)
			}
			if m.screen != ScreenInbox {
				return m.switchTo(ScreenInbox)
			}
		default:
			for _, tab := range navTabs {
				if msg.String() == tab.key && tab.screen != m.screen {
					return m.switchTo(tab.screen)
				}
			}
		}
	}

	return m.routeMsg(msg)
}

// switchTo leaves the current screen cleanly and kicks off whatever load
// the target needs.
func (m Model) switchTo(target Screen) (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenSetup:
		// A page leave commits pending edits instead of losing the timer.
		m.editor.Flush()
	case ScreenDetail:
		if target != ScreenDetail {
			m.detail.close()
		}
	}

	m.flash = ""
	m.screen = target

	switch target {
	case ScreenInbox:
		m.inboxPage.busy = true
		return m, m.callsCmd(m.inboxPage.page, m.inboxPage.unreadOnly, false)
	case ScreenSetup:
		m.setup.syncDraft()
		return m, nil
	case ScreenStats:
		m.stats.busy = true
		return m, m.statsCmd(m.stats.days)
	case ScreenIntegrations:
		m.integrations.busy = true
		return m, m.integrationsCmd()
	case ScreenBilling:
		m.billing.busy = true
		return m, m.billingCmd()
	default:
		return m, nil
	}
}

// routeMsg forwards a message to the active screen's model.
func (m Model) routeMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results of background commands land here no matter which screen is
	// up; each handler decides whether it still applies.
	switch msg := msg.(type) {
	case bootDoneMsg:
		return m.afterAuth(msg.user, msg.restored, msg.err)
	case authDoneMsg:
		m.login.busy = false
		return m.afterAuth(msg.user, msg.restored, msg.err)
	case loginSubmitMsg:
		m.login.busy = true
		m.login.errLine = ""
		return m, m.authCmd(msg)
	case callsRequestMsg:
		m.inboxPage.busy = true
		return m, m.callsCmd(msg.page, msg.unread, msg.silent)
	case callsMsg:
		m.inboxPage.setResult(msg)
		return m, nil
	case openCallRequestMsg:
		m.inboxPage.busy = true
		return m, m.openCallCmd(msg.id)
	case callOpenedMsg:
		return m.afterCallOpened(msg)
	case waveformMsg:
		m.detail.setWaveform(msg)
		return m, nil
	case exportRequestMsg:
		return m, m.exportCmd()
	case exportDoneMsg:
		if msg.err != nil {
			m.setFlash("Export failed: "+api.Humanize(msg.err), true)
		} else {
			m.setFlash("Saved "+msg.path, false)
		}
		return m, nil
	case statsRequestMsg:
		m.stats.busy = true
		return m, m.statsCmd(msg.days)
	case statsMsg:
		m.stats.setResult(msg)
		return m, nil
	case billingMsg:
		m.billing.setResult(msg)
		return m, nil
	case integrationsMsg:
		m.integrations.setResult(msg)
		return m, nil
	case pairRequestMsg:
		m.integrations.busy = true
		return m, m.pairCmd(msg.id)
	case pairingMsg:
		m.integrations.setPairing(msg)
		if msg.err == nil {
			return m, m.pairTickCmd()
		}
		return m, nil
	case pairTickMsg:
		if m.integrations.tickPairing() {
			return m, m.pairTickCmd()
		}
		return m, nil
	case setupDoneMsg:
		return m, m.onboardCmd()
	case onboardedMsg:
		if msg.err == nil {
			m.user = msg.user
			m.setup.wizard = false
		} else {
			log.Warn().Err(msg.err).Msg("could not record onboarding")
		}
		return m.switchTo(ScreenInbox)
	case toggleThemeMsg:
		m.applyTheme(msg.name)
		return m, nil
	case signOutMsg:
		if err := m.deps.Sessions.Clear(); err != nil {
			log.Warn().Err(err).Msg("could not clear session")
		}
		return m.signedOut("Signed out."), nil
	case errMsg:
		m.setFlash(api.Humanize(msg.err), true)
		return m, nil
	}

	return m.updateActivePage(msg)
}

func (m Model) updateActivePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		m.login, cmd = m.login.Update(msg)
	case ScreenSetup:
		m.setup, cmd = m.setup.Update(msg)
	case ScreenInbox:
		m.inboxPage, cmd = m.inboxPage.Update(msg)
	case ScreenDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ScreenStats:
		m.stats, cmd = m.stats.Update(msg)
	case ScreenIntegrations:
		m.integrations, cmd = m.integrations.Update(msg)
	case ScreenBilling:
		m.billing, cmd = m.billing.Update(msg)
	case ScreenSettings:
		m.settings, cmd = m.settings.Update(msg)
	}
	return m, cmd
}

// afterAuth routes a fresh or resumed session: accounts that never finished
// the wizard land in setup, everyone else in the inbox.
func (m Model) afterAuth(user models.UserInfo, restored bool, err error) (tea.Model, tea.Cmd) {
	m.booting = false
	if err != nil {
		if m.screen == ScreenLogin {
			m.login.errLine = api.Humanize(err)
		} else {
			m.screen = ScreenLogin
			m.login.reset()
			m.setFlash(api.Humanize(err), true)
		}
		return m, nil
	}

	m.user = user
	m.settings.user = user
	if restored {
		m.setFlash("Restored unsaved profile edits from your last session.", false)
	}

	if user.OnboardedAt == nil {
		m.setup.wizard = true
		m.setup.step = 0
		model, cmd := m.switchTo(ScreenSetup)
		return model, cmd
	}
	return m.switchTo(ScreenInbox)
}

func (m Model) afterCallOpened(msg callOpenedMsg) (tea.Model, tea.Cmd) {
	m.inboxPage.busy = false
	if msg.err != nil {
		m.setFlash(api.Humanize(msg.err), true)
		return m, nil
	}

	notes := inbox.NewNotesEditor(
		m.deps.API,
		msg.detail.ID,
		msg.detail.Notes,
		m.deps.Config.NotesQuiet,
		func(snap autosave.Snapshot) {
			select {
			case m.events <- saveStatusMsg(snap):
			default:
			}
		},
	)
	m.inboxPage.markRead(msg.detail.ID)
	m.detail.open(msg.detail, msg.prefs, m.deps.Layout, notes)
	m.screen = ScreenDetail

	if msg.detail.HasRecording {
		return m, m.waveformCmd(msg.detail.ID)
	}
	return m, nil
}

// signedOut resets to the login screen, tearing down anything tied to the
// old session.
func (m Model) signedOut(reason string) Model {
	m.detail.close()
	m.screen = ScreenLogin
	m.user = models.UserInfo{}
	m.login.reset()
	m.login.errLine = reason
	return m
}

// applyTheme swaps the palette in place; every page shares the styles
// pointer so one write restyles the whole app.
func (m *Model) applyTheme(name string) {
	*m.styles = NewStyles(ThemeByName(name))
	m.spinner.Style = m.styles.Spinner
	if err := m.deps.Sessions.SetTheme(name); err != nil {
		log.Warn().Err(err).Msg("could not persist theme")
	}
	m.settings.theme = name
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashIsErr = isErr
}

func (m *Model) resizePages() {
	w, h := m.width, m.contentHeight()
	m.login.setSize(m.width, m.height)
	m.setup.setSize(w, h)
	m.inboxPage.setSize(w, h)
	m.detail.setSize(w, h)
	m.stats.setSize(w, h)
	m.integrations.setSize(w, h)
	m.billing.setSize(w, h)
	m.settings.setSize(w, h)
}

// contentHeight is what remains after the header and footer chrome.
func (m Model) contentHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) typing() bool {
	switch m.screen {
	case ScreenLogin:
		return true
	case ScreenSetup:
		return m.setup.typing()
	case ScreenDetail:
		return m.detail.typing()
	default:
		return false
	}
}

// modal reports whether the active screen runs a take-over flow that owns
// every key: the first-run wizard and the QR pairing overlay.
func (m Model) modal() bool {
	if m.screen == ScreenSetup && m.setup.wizard {
		return true
	}
	return m.screen == ScreenIntegrations && m.integrations.pairingOpen()
}

// shutdown tears down everything with a timer or an in-flight request.
// Safe to call more than once.
func (m Model) shutdown() {
	m.detail.close()
	m.editor.Close()
	m.deps.Layout.Close()
	m.deps.Inbox.Wait()
}

func (m Model) View() string {
	if !m.ready {
		return "Starting FrontDesk…"
	}
	if m.booting {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Signing you in…")
	}
	if m.screen == ScreenLogin {
		return m.login.View()
	}

	var page string
	switch m.screen {
	case ScreenSetup:
		page = m.setup.View()
	case ScreenInbox:
		page = m.inboxPage.View()
	case ScreenDetail:
		page = m.detail.View()
	case ScreenStats:
		page = m.stats.View()
	case ScreenIntegrations:
		page = m.integrations.View()
	case ScreenBilling:
		page = m.billing.View()
	case ScreenSettings:
		page = m.settings.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		page,
		m.footerView(),
	)
}

func (m Model) headerView() string {
	tabs := make([]string, 0, len(navTabs)+1)
	tabs = append(tabs, m.styles.Brand.Render("☎ FrontDesk"))
	active := m.screen
	if active == ScreenDetail {
		active = ScreenInbox
	}
	for _, tab := range navTabs {
		style := m.styles.Tab
		if tab.screen == active {
			style = m.styles.TabOn
		}
		tabs = append(tabs, style.Render(tab.key+" "+tab.label))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	right := m.styles.Muted.Render(m.user.Email)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right

	return lipgloss.JoinVertical(lipgloss.Left, bar, m.styles.RenderDivider(m.width))
}

func (m Model) footerView() string {
	help := m.helpLine()
	line := m.styles.Help.Render(help)
	if m.flash != "" {
		style := m.styles.FlashOK
		if m.flashIsErr {
			style = m.styles.FlashErr
		}
		line = style.Render(m.flash)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.RenderDivider(m.width), line)
}

func (m Model) helpLine() string {
	switch m.screen {
	case ScreenSetup:
		return m.setup.helpLine()
	case ScreenInbox:
		return " ↑/↓ select • enter open • u unread • n/p page • x export • r refresh • q quit"
	case ScreenDetail:
		return " ↑/↓ section • enter collapse • J/K move • e notes • esc back"
	case ScreenStats:
		return " w week • m month • esc back"
	case ScreenIntegrations:
		return " ↑/↓ select • enter pair • esc back"
	case ScreenBilling:
		return " ↑/↓ plans • esc back"
	case ScreenSettings:
		return " t theme • o sign out • esc back"
	default:
		return ""
	}
}
