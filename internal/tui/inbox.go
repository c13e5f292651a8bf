package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/inbox"
	"github.com/frontdeskhq/console/internal/models"
)

// inboxModel renders the paged call list. It never talks to the network
// itself; reloads go out as callsRequestMsg and results come back through
// setResult.
type inboxModel struct {
	styles *Styles
	width  int
	height int

	calls      []models.Call
	total      int
	page       int
	unreadOnly bool
	cursor     int
	busy       bool
	loaded     bool
	errLine    string
}

func newInboxModel(styles *Styles) inboxModel {
	return inboxModel{styles: styles}
}

func (p *inboxModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *inboxModel) setResult(msg callsMsg) {
	p.busy = false
	if msg.err != nil {
		// A failed background poll keeps the stale list up without noise.
		if !msg.silent {
			p.errLine = api.Humanize(msg.err)
		}
		return
	}

	var keepID string
	if msg.silent && p.cursor < len(p.calls) {
		keepID = p.calls[p.cursor].ID
	}

	p.errLine = ""
	p.loaded = true
	p.calls = msg.result.Calls
	p.total = msg.result.TotalCount
	p.page = msg.page
	p.unreadOnly = msg.unread

	if keepID != "" {
		for i, c := range p.calls {
			if c.ID == keepID {
				p.cursor = i
				break
			}
		}
	}
	p.clamp()
}

// markRead clears the badge on the row itself once the call is opened.
func (p *inboxModel) markRead(id string) {
	for i := range p.calls {
		if p.calls[i].ID == id {
			p.calls[i].Unread = false
			return
		}
	}
}

func (p *inboxModel) clamp() {
	if p.cursor >= len(p.calls) {
		p.cursor = len(p.calls) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p inboxModel) pages() int {
	if p.total <= 0 {
		return 1
	}
	return (p.total + inbox.DefaultPageSize - 1) / inbox.DefaultPageSize
}

func (p inboxModel) reload(silent bool) (inboxModel, tea.Cmd) {
	p.busy = true
	req := callsRequestMsg{page: p.page, unread: p.unreadOnly, silent: silent}
	return p, func() tea.Msg { return req }
}

func (p inboxModel) Update(msg tea.Msg) (inboxModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || p.busy {
		return p, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.calls)-1 {
			p.cursor++
		}
	case "enter":
		if p.cursor < len(p.calls) {
			id := p.calls[p.cursor].ID
			return p, func() tea.Msg { return openCallRequestMsg{id: id} }
		}
	case "u":
		p.unreadOnly = !p.unreadOnly
		p.page = 0
		p.cursor = 0
		return p.reload(false)
	case "n":
		if p.page+1 < p.pages() {
			p.page++
			p.cursor = 0
			return p.reload(false)
		}
	case "p":
		if p.page > 0 {
			p.page--
			p.cursor = 0
			return p.reload(false)
		}
	case "r":
		return p.reload(false)
	case "x":
		if len(p.calls) > 0 {
			return p, func() tea.Msg { return exportRequestMsg{} }
		}
	}
	return p, nil
}

func (p inboxModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Inbox · %d calls · page %d/%d", p.total, p.page+1, p.pages())
	if p.unreadOnly {
		title += " · unread only"
	}
	b.WriteString(" " + p.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case p.errLine != "":
		b.WriteString(" " + p.styles.Error.Render(p.errLine) + "\n")
	case p.busy && !p.loaded:
		b.WriteString(" " + p.styles.Muted.Render("Loading calls…") + "\n")
	case len(p.calls) == 0:
		if p.unreadOnly {
			b.WriteString(" " + p.styles.Muted.Render("No unread calls. Press u to see everything.") + "\n")
		} else {
			b.WriteString(" " + p.styles.Muted.Render("No calls yet. They will appear here as soon as your agent answers one.") + "\n")
		}
	default:
		b.WriteString(p.listView())
	}

	return b.String()
}

func (p inboxModel) listView() string {
	var b strings.Builder

	// One line per call, the selected one gets its summary underneath.
	top, bottom := p.window()
	for i := top; i < bottom; i++ {
		c := p.calls[i]
		b.WriteString(p.rowView(c, i == p.cursor))
		if i == p.cursor && c.Summary != "" {
			b.WriteString("      " + p.styles.Muted.Render(truncate(c.Summary, p.width-8)) + "\n")
		}
	}
	return b.String()
}

// window keeps the cursor visible when the list outgrows the page height.
func (p inboxModel) window() (int, int) {
	visible := p.height - 3
	if visible < 3 {
		visible = 3
	}
	top := 0
	if p.cursor >= visible {
		top = p.cursor - visible + 1
	}
	bottom := top + visible
	if bottom > len(p.calls) {
		bottom = len(p.calls)
	}
	return top, bottom
}

func (p inboxModel) rowView(c models.Call, selected bool) string {
	cursor := "  "
	if selected {
		cursor = p.styles.Selected.Render("▸ ")
	}

	unread := "  "
	if c.Unread {
		unread = p.styles.Badge.Render("●") + " "
	}

	name := c.CallerName
	if name == "" {
		name = c.CallerNumber
	}
	if selected {
		name = p.styles.Selected.Render(padRight(name, 22))
	} else if c.Unread {
		name = p.styles.Bold.Render(padRight(name, 22))
	} else {
		name = padRight(name, 22)
	}

	rec := " "
	if c.HasRecording {
		rec = p.styles.Muted.Render("♪")
	}

	outcome := p.styles.Outcome(c.Outcome)
	if pad := 9 - lipgloss.Width(outcome); pad > 0 {
		outcome += strings.Repeat(" ", pad)
	}

	return fmt.Sprintf("%s%s%s  %s  %s  %s %s\n",
		cursor,
		unread,
		p.styles.Muted.Render(c.StartedAt.Format("Jan 2 15:04")),
		name,
		outcome,
		p.styles.Value.Render(fmtCallDuration(c.DurationSeconds)),
		rec,
	)
}

func fmtCallDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func padRight(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
