package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/billing"
	"github.com/frontdeskhq/console/internal/models"
)

// billingModel shows the subscription state and the plan catalog. Plan
// changes happen on the web; the console only reads.
type billingModel struct {
	styles *Styles
	width  int
	height int

	busy    bool
	loaded  bool
	plans   []models.Plan
	sub     models.Subscription
	cursor  int
	errLine string
}

func newBillingModel(styles *Styles) billingModel {
	return billingModel{styles: styles}
}

func (p *billingModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *billingModel) setResult(msg billingMsg) {
	p.busy = false
	if msg.err != nil {
		p.errLine = api.Humanize(msg.err)
		return
	}
	p.errLine = ""
	p.loaded = true
	p.plans = msg.plans
	p.sub = msg.sub
	for i, plan := range p.plans {
		if plan.ID == p.sub.PlanID {
			p.cursor = i
			break
		}
	}
}

func (p billingModel) Update(msg tea.Msg) (billingModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || p.busy {
		return p, nil
	}

	switch keyMsg.String() {
	case "left", "up", "k", "h":
		if p.cursor > 0 {
			p.cursor--
		}
	case "right", "down", "j", "l":
		if p.cursor < len(p.plans)-1 {
			p.cursor++
		}
	}
	return p, nil
}

func (p billingModel) View() string {
	var b strings.Builder
	b.WriteString(" " + p.styles.Title.Render("Billing"))
	b.WriteString("\n\n")

	switch {
	case p.errLine != "":
		b.WriteString(" " + p.styles.Error.Render(p.errLine) + "\n")
		return b.String()
	case p.busy && !p.loaded:
		b.WriteString(" " + p.styles.Muted.Render("Loading…") + "\n")
		return b.String()
	case !p.loaded:
		return b.String()
	}

	b.WriteString(" " + p.styles.Value.Render(billing.StatusLine(p.sub, time.Now())))
	b.WriteString("\n")
	if current, ok := billing.PlanByID(p.plans, p.sub.PlanID); ok && current.CallAllowance > 0 {
		b.WriteString(" " + p.usageLine(current))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	cards := make([]string, 0, len(p.plans))
	for i, plan := range p.plans {
		cards = append(cards, p.planCard(plan, i == p.cursor))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")
	b.WriteString(" " + p.styles.Muted.Render("Plan changes happen at frontdeskhq.com/billing."))
	b.WriteString("\n")
	return b.String()
}

func (p billingModel) usageLine(plan models.Plan) string {
	pct := billing.UsagePercent(p.sub, plan)
	const barWidth = 24
	filled := pct * barWidth / 100
	bar := p.styles.Info.Render(strings.Repeat("█", filled)) +
		p.styles.Muted.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %s", bar,
		p.styles.Muted.Render(fmt.Sprintf("%d of %d calls used", p.sub.CallsUsed, plan.CallAllowance)))
}

func (p billingModel) planCard(plan models.Plan, selected bool) string {
	var b strings.Builder
	b.WriteString(p.styles.Bold.Render(plan.Name))
	if plan.ID == p.sub.PlanID {
		b.WriteString(" " + p.styles.Badge.Render("current"))
	}
	b.WriteString("\n")
	b.WriteString(p.styles.Value.Render(billing.FormatPrice(plan.PriceMonthly, plan.Currency)))
	b.WriteString("\n")
	if plan.CallAllowance > 0 {
		b.WriteString(p.styles.Muted.Render(fmt.Sprintf("%d calls/mo", plan.CallAllowance)))
	} else {
		b.WriteString(p.styles.Muted.Render("Unlimited calls"))
	}
	b.WriteString("\n")
	for _, f := range plan.Features {
		b.WriteString(p.styles.Muted.Render("· "+f) + "\n")
	}

	style := p.styles.Card
	if selected {
		style = p.styles.CardFocused
	}
	return style.Width(24).Render(strings.TrimRight(b.String(), "\n"))
}
