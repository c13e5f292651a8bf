// Package tui is the interactive FrontDesk console: sign-in, the setup
// wizard, the call inbox and the dashboard screens, all driving the client
// core packages underneath.
package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/frontdeskhq/console/internal/core/autosave"
)

// FrontDesk brand palette.
var (
	// Light mode
	LightBackground = lipgloss.Color("#f7f8fa")
	LightForeground = lipgloss.Color("#1d2433")
	LightPrimary    = lipgloss.Color("#5b4bd6") // Indigo
	LightAccent     = lipgloss.Color("#0d9488") // Teal
	LightMuted      = lipgloss.Color("#8a93a6")
	LightBorder     = lipgloss.Color("#dde1ea")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode
	DarkBackground = lipgloss.Color("#0f1420")
	DarkForeground = lipgloss.Color("#e6e9f0")
	DarkPrimary    = lipgloss.Color("#8d7bff") // Indigo, lifted for contrast
	DarkAccent     = lipgloss.Color("#2dd4bf") // Teal
	DarkMuted      = lipgloss.Color("#5a647a")
	DarkBorder     = lipgloss.Color("#283049")
	DarkCard       = lipgloss.Color("#161d2e")

	// Semantic colors, shared by both modes
	Destructive = lipgloss.Color("#f87171")
	Success     = lipgloss.Color("#4ade80")
	Warning     = lipgloss.Color("#fbbf24")
	Info        = lipgloss.Color("#60a5fa")
)

// Theme holds the active color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeByName maps the persisted theme preference to a Theme. Anything
// other than "light" or "dark" falls back to terminal detection.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme guesses the terminal's background from COLORFGBG. Dark wins
// when the variable is absent; most terminals the console runs in are dark.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		// Format is "foreground;background"; ANSI indexes 0-6 and 8 are
		// dark backgrounds.
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if bgIdx == 7 || (bgIdx >= 9 && bgIdx <= 15) {
					return LightTheme()
				}
			}
		}
	}
	return DarkTheme()
}

// Styles holds every styled component the console screens share.
type Styles struct {
	Theme Theme

	// Chrome
	Header   lipgloss.Style
	Brand    lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Footer   lipgloss.Style
	FlashErr lipgloss.Style
	FlashOK  lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	Selected    lipgloss.Style
	Badge       lipgloss.Style
	Help        lipgloss.Style
	Divider     lipgloss.Style
	Spinner     lipgloss.Style
	Wave        lipgloss.Style

	// Autosave chips
	ChipSaving lipgloss.Style
	ChipSaved  lipgloss.Style
	ChipError  lipgloss.Style
}

// NewStyles builds the component styles for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Brand: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		TabOn: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Underline(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		FlashErr: lipgloss.NewStyle().
			Foreground(Destructive).
			Padding(0, 1),

		FlashOK: lipgloss.NewStyle().
			Foreground(Success).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Value: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		CardFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Wave: lipgloss.NewStyle().
			Foreground(theme.Accent),

		ChipSaving: lipgloss.NewStyle().
			Foreground(Warning),

		ChipSaved: lipgloss.NewStyle().
			Foreground(Success),

		ChipError: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),
	}
}

// DefaultStyles builds styles from terminal detection, for tests and
// previews.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider draws a horizontal rule.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}

// Chip renders a field group's save state as the short status pill shown
// next to its section. Idle renders nothing.
func (s Styles) Chip(snap autosave.Snapshot) string {
	switch snap.Status {
	case autosave.StatusSaving:
		return s.ChipSaving.Render("Saving…")
	case autosave.StatusSaved:
		return s.ChipSaved.Render("Saved.")
	case autosave.StatusError:
		return s.ChipError.Render("Could not save")
	default:
		return ""
	}
}

// Outcome colors a call outcome label.
func (s Styles) Outcome(outcome string) string {
	switch outcome {
	case "booked":
		return s.Success.Render(outcome)
	case "answered":
		return s.Info.Render(outcome)
	case "voicemail":
		return s.Warning.Render(outcome)
	case "missed":
		return s.Error.Render(outcome)
	default:
		return s.Muted.Render(outcome)
	}
}
