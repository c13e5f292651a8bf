package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/integrations"
	"github.com/frontdeskhq/console/internal/models"
)

// integrationsModel lists the connectable services grouped by category and
// runs the QR pairing overlay for the ones that link through a phone.
type integrationsModel struct {
	styles *Styles
	width  int
	height int

	busy    bool
	loaded  bool
	groups  []integrations.CategoryGroup
	cursor  int
	errLine string

	// pairing overlay
	session   models.PairingSession
	qr        string
	showQR    bool
	remaining time.Duration
	expired   bool
}

func newIntegrationsModel(styles *Styles) integrationsModel {
	return integrationsModel{styles: styles}
}

func (p *integrationsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *integrationsModel) setResult(msg integrationsMsg) {
	p.busy = false
	if msg.err != nil {
		p.errLine = api.Humanize(msg.err)
		return
	}
	p.errLine = ""
	p.loaded = true
	p.groups = msg.groups
	if p.cursor >= len(p.items()) {
		p.cursor = 0
	}
}

func (p *integrationsModel) setPairing(msg pairingMsg) {
	p.busy = false
	if msg.err != nil {
		p.errLine = api.Humanize(msg.err)
		return
	}
	p.errLine = ""
	p.session = msg.session
	p.qr = msg.qr
	p.showQR = true
	p.expired = false
	p.remaining = time.Until(msg.session.ExpiresAt)
}

// tickPairing advances the countdown once a second; false stops the ticks.
func (p *integrationsModel) tickPairing() bool {
	if !p.showQR {
		return false
	}
	now := time.Now()
	p.remaining = p.session.ExpiresAt.Sub(now)
	if integrations.Expired(p.session, now) {
		p.expired = true
		p.remaining = 0
		return false
	}
	return true
}

// pairingOpen reports whether the QR overlay owns the keyboard.
func (p integrationsModel) pairingOpen() bool {
	return p.showQR
}

// items flattens the groups for cursor movement.
func (p integrationsModel) items() []models.Integration {
	var out []models.Integration
	for _, g := range p.groups {
		out = append(out, g.Items...)
	}
	return out
}

func (p integrationsModel) selected() (models.Integration, bool) {
	items := p.items()
	if p.cursor < 0 || p.cursor >= len(items) {
		return models.Integration{}, false
	}
	return items[p.cursor], true
}

func (p integrationsModel) Update(msg tea.Msg) (integrationsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	if p.showQR {
		switch keyMsg.String() {
		case "esc", "q":
			p.showQR = false
			p.expired = false
		case "enter":
			if p.expired {
				// A fresh session replaces the dead QR in place.
				id := p.session.IntegrationID
				p.busy = true
				return p, func() tea.Msg { return pairRequestMsg{id: id} }
			}
		}
		return p, nil
	}

	if p.busy {
		return p, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items())-1 {
			p.cursor++
		}
	case "enter":
		if it, ok := p.selected(); ok && it.Status != "connected" {
			id := it.ID
			p.busy = true
			return p, func() tea.Msg { return pairRequestMsg{id: id} }
		}
	}
	return p, nil
}

func (p integrationsModel) View() string {
	if p.showQR {
		return p.qrView()
	}

	var b strings.Builder
	b.WriteString(" " + p.styles.Title.Render("Integrations"))
	b.WriteString("\n\n")

	switch {
	case p.errLine != "":
		b.WriteString(" " + p.styles.Error.Render(p.errLine) + "\n")
		return b.String()
	case p.busy && !p.loaded:
		b.WriteString(" " + p.styles.Muted.Render("Loading…") + "\n")
		return b.String()
	case p.loaded && len(p.groups) == 0:
		b.WriteString(" " + p.styles.Muted.Render("Nothing to connect yet.") + "\n")
		return b.String()
	}

	idx := 0
	for _, g := range p.groups {
		b.WriteString(" " + p.styles.Label.Render(titleCase(g.Category)) + "\n")
		for _, it := range g.Items {
			b.WriteString(p.itemRow(it, idx == p.cursor))
			idx++
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (p integrationsModel) itemRow(it models.Integration, selected bool) string {
	cursor := "  "
	name := it.Name
	if selected {
		cursor = p.styles.Selected.Render("▸ ")
		name = p.styles.Selected.Render(padRight(name, 20))
	} else {
		name = padRight(name, 20)
	}

	var status string
	switch it.Status {
	case "connected":
		status = p.styles.Success.Render("✓ connected")
	case "pending":
		status = p.styles.Warning.Render("… pending")
	default:
		status = p.styles.Muted.Render("not connected")
	}

	return fmt.Sprintf("%s%s %s  %s\n", cursor, name, status,
		p.styles.Muted.Render(truncate(it.Description, p.width-42)))
}

func (p integrationsModel) qrView() string {
	name := p.session.IntegrationID
	for _, it := range p.items() {
		if it.ID == p.session.IntegrationID {
			name = it.Name
			break
		}
	}

	var b strings.Builder
	b.WriteString(p.styles.Title.Render("Link " + name))
	b.WriteString("\n\n")
	b.WriteString(p.qr)
	b.WriteString("\n")
	if p.expired {
		b.WriteString(p.styles.Error.Render("The code expired."))
		b.WriteString("\n")
		b.WriteString(p.styles.Muted.Render("enter new code • esc close"))
	} else {
		secs := int(p.remaining.Seconds())
		if secs < 0 {
			secs = 0
		}
		b.WriteString(p.styles.Muted.Render(fmt.Sprintf("Scan with your phone. Expires in %ds.", secs)))
		b.WriteString("\n")
		b.WriteString(p.styles.Muted.Render("esc close"))
	}

	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center,
		p.styles.Card.Render(b.String()))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s == "crm" {
		return "CRM"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
