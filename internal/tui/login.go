package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldName
	loginFieldBusiness
)

// loginModel is the sign-in / registration screen. It never talks to the
// network itself; submitting emits a loginSubmitMsg for the root to run.
type loginModel struct {
	styles *Styles
	width  int
	height int

	register bool
	inputs   []textinput.Model
	focus    int
	busy     bool
	errLine  string
}

func newLoginModel(styles *Styles) loginModel {
	email := textinput.New()
	email.Placeholder = "you@business.com"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120

	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 80

	business := textinput.New()
	business.Placeholder = "Business name"
	business.CharLimit = 120

	return loginModel{
		styles: styles,
		inputs: []textinput.Model{email, password, name, business},
	}
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

// reset prepares the screen for a fresh sign-in after logout or expiry.
func (l *loginModel) reset() {
	l.inputs[loginFieldPassword].SetValue("")
	l.busy = false
	l.errLine = ""
	l.setFocus(loginFieldEmail)
}

// fieldCount is how many inputs the current mode shows.
func (l loginModel) fieldCount() int {
	if l.register {
		return 4
	}
	return 2
}

func (l *loginModel) setFocus(idx int) {
	l.focus = idx
	for i := range l.inputs {
		if i == idx {
			l.inputs[i].Focus()
		} else {
			l.inputs[i].Blur()
		}
	}
}

func (l loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && !l.busy {
		switch keyMsg.String() {
		case "tab", "down":
			l.setFocus((l.focus + 1) % l.fieldCount())
			return l, nil
		case "shift+tab", "up":
			l.setFocus((l.focus + l.fieldCount() - 1) % l.fieldCount())
			return l, nil
		case "ctrl+r":
			l.register = !l.register
			l.errLine = ""
			l.setFocus(loginFieldEmail)
			return l, nil
		case "enter":
			if l.focus < l.fieldCount()-1 {
				l.setFocus(l.focus + 1)
				return l, nil
			}
			return l.submit()
		}
	}

	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return l, cmd
}

func (l loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(l.inputs[loginFieldEmail].Value())
	password := l.inputs[loginFieldPassword].Value()
	name := strings.TrimSpace(l.inputs[loginFieldName].Value())
	business := strings.TrimSpace(l.inputs[loginFieldBusiness].Value())

	switch {
	case email == "" || !strings.Contains(email, "@"):
		l.errLine = "Enter a valid email address."
		return l, nil
	case password == "":
		l.errLine = "Enter your password."
		return l, nil
	case l.register && len(password) < 8:
		l.errLine = "Passwords need at least 8 characters."
		return l, nil
	case l.register && (name == "" || business == ""):
		l.errLine = "Name and business name are required."
		return l, nil
	}

	l.errLine = ""
	sub := loginSubmitMsg{
		register: l.register,
		email:    email,
		password: password,
		name:     name,
		business: business,
	}
	return l, func() tea.Msg { return sub }
}

func (l loginModel) View() string {
	s := l.styles

	title := "Sign in to FrontDesk"
	action := "ctrl+r create an account instead"
	if l.register {
		title = "Create your FrontDesk account"
		action = "ctrl+r back to sign in"
	}

	labels := []string{"Email", "Password", "Your name", "Business"}
	var b strings.Builder
	b.WriteString(s.Brand.Render("☎ FrontDesk"))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("The AI receptionist for small businesses"))
	b.WriteString("\n\n")
	b.WriteString(s.Title.Render(title))
	b.WriteString("\n\n")
	for i := 0; i < l.fieldCount(); i++ {
		b.WriteString(s.Label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(l.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case l.busy:
		b.WriteString(s.Muted.Render("Signing in…"))
	case l.errLine != "":
		b.WriteString(s.Error.Render(l.errLine))
	default:
		b.WriteString(s.Help.Render("enter continue • tab next field • " + action))
	}

	card := s.Card.Width(48).Render(b.String())
	if l.width == 0 {
		return card
	}
	return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, card)
}
