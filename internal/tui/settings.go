package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/frontdeskhq/console/internal/models"
)

// settingsModel shows the signed-in account and the theme toggle.
type settingsModel struct {
	styles *Styles
	width  int
	height int

	user  models.UserInfo
	theme string
}

func newSettingsModel(styles *Styles) settingsModel {
	return settingsModel{styles: styles, theme: "dark"}
}

func (p *settingsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case "t":
		next := "dark"
		if p.theme == "dark" {
			next = "light"
		}
		return p, func() tea.Msg { return toggleThemeMsg{name: next} }
	case "o":
		return p, func() tea.Msg { return signOutMsg{} }
	}
	return p, nil
}

func (p settingsModel) View() string {
	var b strings.Builder
	b.WriteString(" " + p.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	var card strings.Builder
	card.WriteString(p.styles.Label.Render("Account") + "\n")
	card.WriteString(p.row("Name", p.user.Name))
	card.WriteString(p.row("Email", p.user.Email))
	card.WriteString(p.row("Business", p.user.BusinessName))
	if p.user.Plan != "" {
		card.WriteString(p.row("Plan", p.user.Plan))
	}
	if !p.user.CreatedAt.IsZero() {
		card.WriteString(p.row("Member since", p.user.CreatedAt.Format("Jan 2006")))
	}
	card.WriteString("\n")
	card.WriteString(p.styles.Label.Render("Appearance") + "\n")
	card.WriteString(p.row("Theme", p.theme))

	b.WriteString(p.styles.Card.Width(44).Render(card.String()))
	b.WriteString("\n")
	return b.String()
}

func (p settingsModel) row(label, value string) string {
	return p.styles.Muted.Render(padRight(label, 14)) + p.styles.Value.Render(value) + "\n"
}
