package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/stats"
	"github.com/frontdeskhq/console/internal/models"
)

// statsModel is the dashboard: headline cards, the per-day sparkline and
// the outcome bars, for a week or month window.
type statsModel struct {
	styles *Styles
	width  int
	height int

	days    int
	busy    bool
	loaded  bool
	stats   models.CallStats
	errLine string
}

func newStatsModel(styles *Styles) statsModel {
	return statsModel{styles: styles, days: 7}
}

func (p *statsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *statsModel) setResult(msg statsMsg) {
	p.busy = false
	if msg.err != nil {
		p.errLine = api.Humanize(msg.err)
		return
	}
	p.errLine = ""
	p.loaded = true
	p.days = msg.days
	p.stats = msg.stats
}

func (p statsModel) Update(msg tea.Msg) (statsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || p.busy {
		return p, nil
	}

	var days int
	switch keyMsg.String() {
	case "w":
		days = 7
	case "m":
		days = 30
	default:
		return p, nil
	}
	if days == p.days && p.loaded {
		return p, nil
	}
	p.days = days
	return p, func() tea.Msg { return statsRequestMsg{days: days} }
}

func (p statsModel) View() string {
	var b strings.Builder

	window := "last 7 days"
	if p.days == 30 {
		window = "last 30 days"
	}
	b.WriteString(" " + p.styles.Title.Render("Stats · "+window))
	b.WriteString("\n\n")

	switch {
	case p.errLine != "":
		b.WriteString(" " + p.styles.Error.Render(p.errLine) + "\n")
		return b.String()
	case p.busy && !p.loaded:
		b.WriteString(" " + p.styles.Muted.Render("Crunching numbers…") + "\n")
		return b.String()
	case !p.loaded:
		return b.String()
	}

	b.WriteString(p.cardsRow())
	b.WriteString("\n")

	if len(p.stats.CallsPerDay) > 0 {
		b.WriteString(" " + p.styles.Label.Render("Calls per day") + "\n")
		chartWidth := p.width - 4
		if chartWidth < 10 {
			chartWidth = 10
		}
		if chartWidth > 60 {
			chartWidth = 60
		}
		b.WriteString("  " + p.styles.Info.Render(stats.Sparkline(p.stats.CallsPerDay, chartWidth)) + "\n")
		b.WriteString("  " + p.axisLine(chartWidth) + "\n\n")
	}

	if len(p.stats.Outcomes) > 0 {
		b.WriteString(" " + p.styles.Label.Render("Outcomes") + "\n")
		for _, row := range stats.BarRows(p.stats.Outcomes, 24) {
			b.WriteString("  " + row + "\n")
		}
	}

	return b.String()
}

// cardsRow lays the headline cards out side by side.
func (p statsModel) cardsRow() string {
	cards := stats.Cards(p.stats, nil)
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		body := p.styles.Muted.Render(c.Title) + "\n" + p.styles.Value.Render(c.Value)
		if c.Trend != "" {
			body += "\n" + p.trendLine(c)
		}
		rendered = append(rendered, p.styles.Card.Width(14).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (p statsModel) trendLine(c stats.StatCard) string {
	label := fmt.Sprintf("%+.0f%%", c.Change)
	switch c.Trend {
	case "up":
		return p.styles.Success.Render("▲ " + label)
	case "down":
		return p.styles.Error.Render("▼ " + label)
	default:
		return p.styles.Muted.Render("– " + label)
	}
}

// axisLine spans the first and last day labels under the sparkline.
func (p statsModel) axisLine(width int) string {
	points := p.stats.CallsPerDay
	if len(points) == 0 {
		return ""
	}
	first := stats.ShortDay(points[0].Label)
	last := stats.ShortDay(points[len(points)-1].Label)
	gap := width - len(first) - len(last)
	if gap < 1 {
		return p.styles.Muted.Render(first)
	}
	return p.styles.Muted.Render(first + strings.Repeat(" ", gap) + last)
}
