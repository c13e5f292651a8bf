package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/frontdeskhq/console/internal/core/autosave"
	"github.com/frontdeskhq/console/internal/core/editor"
	"github.com/frontdeskhq/console/internal/core/export"
	"github.com/frontdeskhq/console/internal/core/inbox"
	"github.com/frontdeskhq/console/internal/core/integrations"
	"github.com/frontdeskhq/console/internal/models"
)

// Messages. Everything asynchronous lands in the update loop as one of
// these.
type (
	// saveStatusMsg is a field group's status transition, bridged from the
	// autosave goroutines.
	saveStatusMsg autosave.Snapshot

	// sessionExpiredMsg fires from the 401 hook once the session is gone.
	sessionExpiredMsg struct{}

	// pollTickMsg is the cron wake-up for the inbox.
	pollTickMsg struct{}

	errMsg struct{ err error }

	bootDoneMsg struct {
		user     models.UserInfo
		restored bool
		err      error
	}

	loginSubmitMsg struct {
		register bool
		email    string
		password string
		name     string
		business string
	}

	authDoneMsg struct {
		user     models.UserInfo
		restored bool
		err      error
	}

	// callsRequestMsg asks the root model for a page of the call list.
	callsRequestMsg struct {
		page   int
		unread bool
		silent bool
	}

	callsMsg struct {
		page   int
		unread bool
		silent bool
		result models.CallListResult
		err    error
	}

	openCallRequestMsg struct{ id string }

	callOpenedMsg struct {
		detail models.CallDetail
		prefs  models.CallLayoutPreferences
		err    error
	}

	waveformMsg struct {
		id   string
		wave inbox.Waveform
		err  error
	}

	exportRequestMsg struct{}

	exportDoneMsg struct {
		path string
		err  error
	}

	statsRequestMsg struct{ days int }

	statsMsg struct {
		days  int
		stats models.CallStats
		err   error
	}

	billingMsg struct {
		plans []models.Plan
		sub   models.Subscription
		err   error
	}

	integrationsMsg struct {
		groups []integrations.CategoryGroup
		err    error
	}

	pairRequestMsg struct{ id string }

	pairingMsg struct {
		session models.PairingSession
		qr      string
		err     error
	}

	pairTickMsg time.Time

	// commitMsg is the outcome of a wizard step's synchronous save.
	commitMsg struct {
		group editor.Group
		ok    bool
		err   error
	}

	setupDoneMsg struct{}

	onboardedMsg struct {
		user models.UserInfo
		err  error
	}

	toggleThemeMsg struct{ name string }

	signOutMsg struct{}
)

// bootCmd resumes a stored session: refresh the token if it is close to
// dying, then load the user and the profile draft.
func (m Model) bootCmd() tea.Cmd {
	deps, ed := m.deps, m.editor
	return func() tea.Msg {
		ctx := context.Background()
		if err := deps.API.EnsureFresh(ctx, deps.Config.TokenRefreshGap); err != nil {
			return bootDoneMsg{err: err}
		}
		user, err := deps.API.Me(ctx)
		if err != nil {
			return bootDoneMsg{err: err}
		}
		if err := ed.Load(ctx); err != nil {
			return bootDoneMsg{err: err}
		}
		_, restored := ed.RestoreBackup()
		return bootDoneMsg{user: user, restored: restored}
	}
}

// authCmd runs a sign-in or registration round trip and primes the editor.
func (m Model) authCmd(sub loginSubmitMsg) tea.Cmd {
	deps, ed := m.deps, m.editor
	return func() tea.Msg {
		ctx := context.Background()
		var (
			resp models.AuthResponse
			err  error
		)
		if sub.register {
			resp, err = deps.API.Register(ctx, models.RegisterRequest{
				Email:        sub.email,
				Password:     sub.password,
				Name:         sub.name,
				BusinessName: sub.business,
			})
		} else {
			resp, err = deps.API.Login(ctx, models.LoginRequest{
				Email:    sub.email,
				Password: sub.password,
			})
		}
		if err != nil {
			return authDoneMsg{err: err}
		}

		var user models.UserInfo
		if resp.User != nil {
			user = *resp.User
		} else if u, err := deps.API.Me(ctx); err == nil {
			user = u
		}

		if err := ed.Load(ctx); err != nil {
			return authDoneMsg{err: err}
		}
		_, restored := ed.RestoreBackup()
		return authDoneMsg{user: user, restored: restored}
	}
}

func (m Model) callsCmd(page int, unread, silent bool) tea.Cmd {
	svc := m.deps.Inbox
	return func() tea.Msg {
		result, err := svc.Page(context.Background(), page, unread)
		return callsMsg{page: page, unread: unread, silent: silent, result: result, err: err}
	}
}

func (m Model) openCallCmd(id string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()
		detail, err := deps.Inbox.Open(ctx, id)
		if err != nil {
			return callOpenedMsg{err: err}
		}
		prefs := deps.Layout.Load(ctx, inbox.AvailableSections(detail))
		return callOpenedMsg{detail: detail, prefs: prefs}
	}
}

func (m Model) waveformCmd(id string) tea.Cmd {
	svc := m.deps.Inbox
	buckets := m.width - 10
	if buckets < 24 {
		buckets = 24
	}
	if buckets > 96 {
		buckets = 96
	}
	return func() tea.Msg {
		wave, err := svc.Recording(context.Background(), id, buckets)
		return waveformMsg{id: id, wave: wave, err: err}
	}
}

// exportCmd writes the listed calls to a spreadsheet in the data dir.
func (m Model) exportCmd() tea.Cmd {
	calls := m.inboxPage.calls
	svc := m.deps.Export
	format := export.Format(m.deps.Config.ExportFormat)
	dir := m.deps.Config.DataDir
	return func() tea.Msg {
		table := export.CallTable(calls, time.Now())
		data, ext, err := svc.Export(table, format)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, "calls-"+time.Now().Format("20060102-150405")+ext)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

func (m Model) statsCmd(days int) tea.Cmd {
	client := m.deps.API
	return func() tea.Msg {
		stats, err := client.FetchCallStats(context.Background(), days)
		return statsMsg{days: days, stats: stats, err: err}
	}
}

func (m Model) billingCmd() tea.Cmd {
	client := m.deps.API
	return func() tea.Msg {
		ctx := context.Background()
		plans, err := client.ListPlans(ctx)
		if err != nil {
			return billingMsg{err: err}
		}
		sub, err := client.GetSubscription(ctx)
		return billingMsg{plans: plans, sub: sub, err: err}
	}
}

func (m Model) integrationsCmd() tea.Cmd {
	svc := m.deps.Integrations
	return func() tea.Msg {
		groups, err := svc.List(context.Background())
		return integrationsMsg{groups: groups, err: err}
	}
}

func (m Model) pairCmd(id string) tea.Cmd {
	svc := m.deps.Integrations
	return func() tea.Msg {
		session, qr, err := svc.Pair(context.Background(), id)
		return pairingMsg{session: session, qr: qr, err: err}
	}
}

func (m Model) pairTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return pairTickMsg(t)
	})
}

func (m Model) onboardCmd() tea.Cmd {
	client := m.deps.API
	return func() tea.Msg {
		user, err := client.CompleteOnboarding(context.Background())
		return onboardedMsg{user: user, err: err}
	}
}
