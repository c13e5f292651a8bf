package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/autosave"
	"github.com/frontdeskhq/console/internal/core/editor"
	"github.com/frontdeskhq/console/internal/models"
)

// Wizard steps, one per field group.
const (
	stepBusiness = iota
	stepServices
	stepFAQs
	stepGreeting
	stepCount
)

var stepTitles = [stepCount]string{"Business", "Services", "FAQ", "Greeting"}

var stepGroups = [stepCount]editor.Group{
	editor.GroupProfile,
	editor.GroupServices,
	editor.GroupFAQs,
	editor.GroupGreeting,
}

// setupModel is both the first-run wizard and the Profile tab. Every
// keystroke feeds the shared editor, which schedules the per-group
// autosaves; ctrl+n commits a step synchronously before moving on.
type setupModel struct {
	styles *Styles
	ed     *editor.Editor
	width  int
	height int

	wizard bool
	step   int

	// nav mode blurs the inputs so plain keys reach screen navigation.
	navMode bool

	// Business step
	nameInput     textinput.Model
	phoneInput    textinput.Model
	overviewInput textarea.Model
	bizFocus      int

	// Services step
	services  []string
	svcCursor int
	svcAdding bool
	svcInput  textinput.Model

	// FAQ step
	faqs       []models.FAQEntry
	faqCursor  int
	faqEditing bool
	faqEditIdx int // -1 while adding a new entry
	faqField   int // 0 question, 1 answer
	faqQ       textinput.Model
	faqA       textinput.Model

	// Greeting step
	greetingInput textarea.Model

	chips     map[editor.Group]autosave.Snapshot
	problems  map[string]string
	commitErr string
}

func newSetupModel(styles *Styles, ed *editor.Editor) setupModel {
	name := textinput.New()
	name.Placeholder = "Harbor Dental Studio"
	name.CharLimit = 120
	name.Focus()

	phone := textinput.New()
	phone.Placeholder = "+1 (415) 555-0100"
	phone.CharLimit = 32

	overview := textarea.New()
	overview.Placeholder = "What should the receptionist know about your business?"
	overview.SetHeight(4)
	overview.ShowLineNumbers = false

	svc := textinput.New()
	svc.Placeholder = "New service"
	svc.CharLimit = 120

	faqQ := textinput.New()
	faqQ.Placeholder = "Question callers ask"
	faqQ.CharLimit = 200

	faqA := textinput.New()
	faqA.Placeholder = "The answer the agent gives"
	faqA.CharLimit = 400

	greeting := textarea.New()
	greeting.Placeholder = "Thanks for calling! How can I help you today?"
	greeting.SetHeight(3)
	greeting.ShowLineNumbers = false

	return setupModel{
		styles:        styles,
		ed:            ed,
		nameInput:     name,
		phoneInput:    phone,
		overviewInput: overview,
		svcInput:      svc,
		faqQ:          faqQ,
		faqA:          faqA,
		greetingInput: greeting,
		faqEditIdx:    -1,
		chips:         make(map[editor.Group]autosave.Snapshot),
	}
}

func (s *setupModel) setSize(w, h int) {
	s.width = w
	s.height = h
	inner := w - 8
	if inner < 20 {
		inner = 20
	}
	s.nameInput.Width = inner
	s.phoneInput.Width = inner
	s.svcInput.Width = inner
	s.faqQ.Width = inner
	s.faqA.Width = inner
	s.overviewInput.SetWidth(inner)
	s.greetingInput.SetWidth(inner)
}

// syncDraft pulls the editor's draft into the inputs, for entering the
// screen or after a crash-copy restore.
func (s *setupModel) syncDraft() {
	draft := s.ed.Draft()
	s.nameInput.SetValue(draft.BusinessName)
	s.phoneInput.SetValue(draft.BusinessPhoneNumber)
	s.overviewInput.SetValue(draft.BusinessOverview)
	s.services = append([]string(nil), draft.CoreServices...)
	s.faqs = append([]models.FAQEntry(nil), draft.FAQEntries...)
	s.greetingInput.SetValue(draft.Greeting)
	s.clampCursors()
}

func (s *setupModel) clampCursors() {
	if s.svcCursor >= len(s.services) {
		s.svcCursor = len(s.services) - 1
	}
	if s.svcCursor < 0 {
		s.svcCursor = 0
	}
	if s.faqCursor >= len(s.faqs) {
		s.faqCursor = len(s.faqs) - 1
	}
	if s.faqCursor < 0 {
		s.faqCursor = 0
	}
}

func (s *setupModel) setStatus(snap autosave.Snapshot) {
	s.chips[editor.Group(snap.Group)] = snap
}

func (s setupModel) group() editor.Group {
	return stepGroups[s.step]
}

// typing reports whether a text input owns the keyboard.
func (s setupModel) typing() bool {
	if s.navMode {
		return false
	}
	switch s.step {
	case stepBusiness, stepGreeting:
		return true
	case stepServices:
		return s.svcAdding
	case stepFAQs:
		return s.faqEditing
	}
	return false
}

func (s setupModel) Update(msg tea.Msg) (setupModel, tea.Cmd) {
	if commit, ok := msg.(commitMsg); ok {
		return s.handleCommit(commit)
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "ctrl+n":
			return s, s.commitCmd()
		case "ctrl+p":
			if s.step > 0 {
				s.leaveStep(s.step - 1)
			}
			return s, nil
		case "R":
			// Discard this step's unsaved edits. While an input owns the
			// keyboard the rune belongs to it instead.
			if s.typing() {
				break
			}
			s.ed.Revert(s.group())
			s.problems = nil
			s.commitErr = ""
			s.syncDraft()
			return s, nil
		}
	}

	switch s.step {
	case stepBusiness:
		return s.updateBusiness(msg)
	case stepServices:
		return s.updateServices(msg)
	case stepFAQs:
		return s.updateFAQs(msg)
	case stepGreeting:
		return s.updateGreeting(msg)
	}
	return s, nil
}

// commitCmd saves the current group synchronously, the wizard's Next.
func (s setupModel) commitCmd() tea.Cmd {
	ed, g := s.ed, s.group()
	return func() tea.Msg {
		ok, err := ed.CommitStep(context.Background(), g)
		return commitMsg{group: g, ok: ok, err: err}
	}
}

func (s setupModel) handleCommit(msg commitMsg) (setupModel, tea.Cmd) {
	if msg.group != s.group() {
		return s, nil
	}

	if msg.ok {
		// A proceed with err still set is the second Next on a failing
		// save; the background cycle keeps retrying the unsaved draft.
		s.problems = nil
		s.commitErr = ""
		if s.step == stepGreeting {
			if s.wizard {
				return s, func() tea.Msg { return setupDoneMsg{} }
			}
			return s, nil
		}
		s.leaveStep(s.step + 1)
		return s, nil
	}

	var vErr *editor.ValidationError
	if errors.As(msg.err, &vErr) {
		s.problems = vErr.Problems
		s.commitErr = ""
		return s, nil
	}
	s.problems = nil
	s.commitErr = api.Humanize(msg.err)
	return s, nil
}

// leaveStep switches steps and resets the per-step editing state.
func (s *setupModel) leaveStep(next int) {
	s.step = next
	s.problems = nil
	s.commitErr = ""
	s.navMode = false
	s.svcAdding = false
	s.faqEditing = false
	s.syncDraft()
	switch next {
	case stepBusiness:
		s.focusBiz(0)
	case stepGreeting:
		s.greetingInput.Focus()
	}
}

// Business step

func (s *setupModel) focusBiz(idx int) {
	s.bizFocus = idx
	s.nameInput.Blur()
	s.phoneInput.Blur()
	s.overviewInput.Blur()
	switch idx {
	case 0:
		s.nameInput.Focus()
	case 1:
		s.phoneInput.Focus()
	case 2:
		s.overviewInput.Focus()
	}
}

func (s setupModel) updateBusiness(msg tea.Msg) (setupModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if s.navMode {
			switch keyMsg.String() {
			case "enter", "i":
				s.navMode = false
				s.focusBiz(0)
			}
			return s, nil
		}
		switch keyMsg.String() {
		case "esc":
			s.navMode = true
			s.nameInput.Blur()
			s.phoneInput.Blur()
			s.overviewInput.Blur()
			return s, nil
		case "tab":
			s.focusBiz((s.bizFocus + 1) % 3)
			return s, nil
		case "shift+tab":
			s.focusBiz((s.bizFocus + 2) % 3)
			return s, nil
		case "enter":
			if s.bizFocus < 2 {
				// Enter walks the fields; the overview keeps it for
				// newlines.
				s.focusBiz(s.bizFocus + 1)
				return s, nil
			}
		}
	}

	var cmd tea.Cmd
	switch s.bizFocus {
	case 0:
		before := s.nameInput.Value()
		s.nameInput, cmd = s.nameInput.Update(msg)
		if v := s.nameInput.Value(); v != before {
			s.ed.SetBusinessName(v)
		}
	case 1:
		before := s.phoneInput.Value()
		s.phoneInput, cmd = s.phoneInput.Update(msg)
		if v := s.phoneInput.Value(); v != before {
			s.ed.SetPhoneNumber(v)
		}
	case 2:
		before := s.overviewInput.Value()
		s.overviewInput, cmd = s.overviewInput.Update(msg)
		if v := s.overviewInput.Value(); v != before {
			s.ed.SetOverview(v)
		}
	}
	return s, cmd
}

// Services step

func (s *setupModel) pushServices() {
	s.ed.SetServices(append([]string(nil), s.services...))
}

func (s setupModel) updateServices(msg tea.Msg) (setupModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return s, nil
	}

	if s.svcAdding {
		switch keyMsg.String() {
		case "enter":
			if v := strings.TrimSpace(s.svcInput.Value()); v != "" {
				s.services = append(s.services, v)
				s.svcCursor = len(s.services) - 1
				s.pushServices()
			}
			s.svcInput.SetValue("")
			s.svcInput.Blur()
			s.svcAdding = false
			return s, nil
		case "esc":
			s.svcInput.SetValue("")
			s.svcInput.Blur()
			s.svcAdding = false
			return s, nil
		}
		var cmd tea.Cmd
		s.svcInput, cmd = s.svcInput.Update(msg)
		return s, cmd
	}

	switch keyMsg.String() {
	case "up", "k":
		if s.svcCursor > 0 {
			s.svcCursor--
		}
	case "down", "j":
		if s.svcCursor < len(s.services)-1 {
			s.svcCursor++
		}
	case "a":
		s.svcAdding = true
		s.svcInput.Focus()
		return s, textinput.Blink
	case "d":
		if len(s.services) > 0 {
			s.services = append(s.services[:s.svcCursor], s.services[s.svcCursor+1:]...)
			s.clampCursors()
			s.pushServices()
		}
	case "K":
		if s.svcCursor > 0 {
			s.services[s.svcCursor-1], s.services[s.svcCursor] = s.services[s.svcCursor], s.services[s.svcCursor-1]
			s.svcCursor--
			s.pushServices()
		}
	case "J":
		if s.svcCursor < len(s.services)-1 {
			s.services[s.svcCursor+1], s.services[s.svcCursor] = s.services[s.svcCursor], s.services[s.svcCursor+1]
			s.svcCursor++
			s.pushServices()
		}
	}
	return s, nil
}

// FAQ step

func (s *setupModel) pushFAQs() {
	s.ed.SetFAQs(append([]models.FAQEntry(nil), s.faqs...))
}

func (s *setupModel) focusFAQField(idx int) {
	s.faqField = idx
	if idx == 0 {
		s.faqQ.Focus()
		s.faqA.Blur()
	} else {
		s.faqQ.Blur()
		s.faqA.Focus()
	}
}

func (s setupModel) updateFAQs(msg tea.Msg) (setupModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return s, nil
	}

	if s.faqEditing {
		switch keyMsg.String() {
		case "tab", "shift+tab":
			s.focusFAQField(1 - s.faqField)
			return s, nil
		case "enter":
			if s.faqField == 0 {
				s.focusFAQField(1)
				return s, nil
			}
			entry := models.FAQEntry{
				Question: strings.TrimSpace(s.faqQ.Value()),
				Answer:   strings.TrimSpace(s.faqA.Value()),
			}
			if entry.Question != "" || entry.Answer != "" {
				if s.faqEditIdx >= 0 && s.faqEditIdx < len(s.faqs) {
					s.faqs[s.faqEditIdx] = entry
				} else {
					s.faqs = append(s.faqs, entry)
					s.faqCursor = len(s.faqs) - 1
				}
				s.pushFAQs()
			}
			s.stopFAQEdit()
			return s, nil
		case "esc":
			s.stopFAQEdit()
			return s, nil
		}
		var cmd tea.Cmd
		if s.faqField == 0 {
			s.faqQ, cmd = s.faqQ.Update(msg)
		} else {
			s.faqA, cmd = s.faqA.Update(msg)
		}
		return s, cmd
	}

	switch keyMsg.String() {
	case "up", "k":
		if s.faqCursor > 0 {
			s.faqCursor--
		}
	case "down", "j":
		if s.faqCursor < len(s.faqs)-1 {
			s.faqCursor++
		}
	case "a":
		s.faqEditing = true
		s.faqEditIdx = -1
		s.faqQ.SetValue("")
		s.faqA.SetValue("")
		s.focusFAQField(0)
		return s, textinput.Blink
	case "e":
		if len(s.faqs) > 0 {
			s.faqEditing = true
			s.faqEditIdx = s.faqCursor
			s.faqQ.SetValue(s.faqs[s.faqCursor].Question)
			s.faqA.SetValue(s.faqs[s.faqCursor].Answer)
			s.focusFAQField(0)
			return s, textinput.Blink
		}
	case "d":
		if len(s.faqs) > 0 {
			s.faqs = append(s.faqs[:s.faqCursor], s.faqs[s.faqCursor+1:]...)
			s.clampCursors()
			s.pushFAQs()
		}
	}
	return s, nil
}

func (s *setupModel) stopFAQEdit() {
	s.faqEditing = false
	s.faqEditIdx = -1
	s.faqQ.Blur()
	s.faqA.Blur()
}

// Greeting step

func (s setupModel) updateGreeting(msg tea.Msg) (setupModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if s.navMode {
			if key := keyMsg.String(); key == "enter" || key == "i" {
				s.navMode = false
				s.greetingInput.Focus()
			}
			return s, nil
		}
		if keyMsg.String() == "esc" {
			s.navMode = true
			s.greetingInput.Blur()
			return s, nil
		}
	}

	var cmd tea.Cmd
	before := s.greetingInput.Value()
	s.greetingInput, cmd = s.greetingInput.Update(msg)
	if v := s.greetingInput.Value(); v != before {
		s.ed.SetGreeting(v)
	}
	return s, cmd
}

// Rendering

func (s setupModel) View() string {
	var b strings.Builder

	if s.wizard {
		b.WriteString(s.styles.Title.Render(fmt.Sprintf("Set up your receptionist · step %d of %d", s.step+1, stepCount)))
	} else {
		b.WriteString(s.styles.Title.Render("Agent profile"))
	}
	b.WriteString("\n")
	b.WriteString(s.stepTabs())
	b.WriteString("\n\n")

	switch s.step {
	case stepBusiness:
		b.WriteString(s.viewBusiness())
	case stepServices:
		b.WriteString(s.viewServices())
	case stepFAQs:
		b.WriteString(s.viewFAQs())
	case stepGreeting:
		b.WriteString(s.viewGreeting())
	}

	if s.commitErr != "" {
		b.WriteString("\n")
		b.WriteString(s.styles.Error.Render(s.commitErr))
		b.WriteString("\n")
		b.WriteString(s.styles.Muted.Render("ctrl+n again continues anyway; your edits keep retrying in the background."))
	}

	return s.styles.Card.Width(s.cardWidth()).Render(b.String())
}

func (s setupModel) cardWidth() int {
	w := s.width - 2
	if w < 30 {
		w = 30
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (s setupModel) stepTabs() string {
	parts := make([]string, 0, stepCount)
	for i, title := range stepTitles {
		label := title
		if chip := s.styles.Chip(s.chips[stepGroups[i]]); chip != "" {
			label += " " + chip
		}
		if i == s.step {
			parts = append(parts, s.styles.TabOn.Render(label))
		} else {
			parts = append(parts, s.styles.Tab.Render(label))
		}
	}
	return strings.Join(parts, s.styles.Muted.Render(" › "))
}

func (s setupModel) problemLine(field string) string {
	if msg, ok := s.problems[field]; ok {
		return s.styles.Error.Render(msg) + "\n"
	}
	return ""
}

func (s setupModel) viewBusiness() string {
	var b strings.Builder
	b.WriteString(s.styles.Label.Render("Business name"))
	b.WriteString("\n")
	b.WriteString(s.nameInput.View())
	b.WriteString("\n")
	b.WriteString(s.problemLine("business_name"))
	b.WriteString(s.styles.Label.Render("Phone"))
	b.WriteString("\n")
	b.WriteString(s.phoneInput.View())
	b.WriteString("\n")
	b.WriteString(s.problemLine("business_phone_number"))
	b.WriteString(s.styles.Label.Render("Overview"))
	b.WriteString("\n")
	b.WriteString(s.overviewInput.View())
	b.WriteString("\n")
	b.WriteString(s.problemLine("business_overview"))
	return b.String()
}

func (s setupModel) viewServices() string {
	var b strings.Builder
	b.WriteString(s.styles.Label.Render("Services the agent can offer"))
	b.WriteString("\n\n")
	if len(s.services) == 0 && !s.svcAdding {
		b.WriteString(s.styles.Muted.Render("Nothing yet. Press a to add your first service."))
		b.WriteString("\n")
	}
	for i, svc := range s.services {
		cursor := "  "
		line := svc
		if i == s.svcCursor && !s.svcAdding {
			cursor = s.styles.Selected.Render("▸ ")
			line = s.styles.Selected.Render(svc)
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, line))
	}
	b.WriteString(s.problemLine("core_services"))
	if s.svcAdding {
		b.WriteString("\n")
		b.WriteString(s.svcInput.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (s setupModel) viewFAQs() string {
	var b strings.Builder
	b.WriteString(s.styles.Label.Render("Questions the agent answers on its own"))
	b.WriteString("\n\n")
	if len(s.faqs) == 0 && !s.faqEditing {
		b.WriteString(s.styles.Muted.Render("Nothing yet. Press a to add a question and answer."))
		b.WriteString("\n")
	}
	for i, entry := range s.faqs {
		cursor := "  "
		q := entry.Question
		if i == s.faqCursor && !s.faqEditing {
			cursor = s.styles.Selected.Render("▸ ")
			q = s.styles.Selected.Render(q)
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, q))
		b.WriteString("    " + s.styles.Muted.Render(truncate(entry.Answer, s.cardWidth()-8)) + "\n")
	}
	b.WriteString(s.problemLine("faq_entries"))
	if s.faqEditing {
		b.WriteString("\n")
		b.WriteString(s.styles.Label.Render("Question"))
		b.WriteString("\n")
		b.WriteString(s.faqQ.View())
		b.WriteString("\n")
		b.WriteString(s.styles.Label.Render("Answer"))
		b.WriteString("\n")
		b.WriteString(s.faqA.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (s setupModel) viewGreeting() string {
	var b strings.Builder
	b.WriteString(s.styles.Label.Render("How the agent answers the phone"))
	b.WriteString("\n\n")
	b.WriteString(s.greetingInput.View())
	b.WriteString("\n")
	b.WriteString(s.problemLine("greeting"))
	return b.String()
}

func (s setupModel) helpLine() string {
	next := "ctrl+n next"
	if s.step == stepGreeting {
		if s.wizard {
			next = "ctrl+n finish setup"
		} else {
			next = "ctrl+n save now"
		}
	}
	switch s.step {
	case stepBusiness:
		if s.navMode {
			return " enter edit • R discard edits • " + next
		}
		return " tab field • " + next + " • esc nav mode"
	case stepServices:
		if s.svcAdding {
			return " enter add • esc cancel"
		}
		return " a add • d delete • K/J move • R discard • " + next + " • ctrl+p back"
	case stepFAQs:
		if s.faqEditing {
			return " tab question/answer • enter save • esc cancel"
		}
		return " a add • e edit • d delete • R discard • " + next + " • ctrl+p back"
	default:
		if s.navMode {
			return " enter edit • R discard edits • " + next + " • ctrl+p back"
		}
		return " " + next + " • ctrl+p back • esc nav mode"
	}
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
