package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/farmer/internal/state"
)

// Theme defines the colors used by the prompt, the indicator and notices.
type Theme struct {
	Name string

	// Base colors
	Background string
	Surface    string
	Border     string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Session state colors, keyed by state.SessionState.String()
	StateColors map[string]string
}

// DefaultTheme is the Nightfox palette: https://github.com/EdenEast/nightfox.nvim
func DefaultTheme() Theme {
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		Border:     "#39506d", // bg4

		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Faint:   "#71839b", // fg3
		Accent:  "#719cd6", // blue
		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red
		Info:    "#63cdcf", // cyan

		StateColors: map[string]string{
			"unstarted":     "#738091", // comment
			"initializing":  "#63cdcf", // cyan
			"running":       "#81b29a", // green
			"shutting down": "#dbc074", // yellow
			"stopped":       "#c94f6d", // red
		},
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Title       lipgloss.Style
	ErrorBox    lipgloss.Style
	NoticeBox   lipgloss.Style
	PromptFrame lipgloss.Style

	renderer    *lipgloss.Renderer
	stateColors map[string]string
	background  string
	muted       string
}

// Styles returns styles bound to the default renderer.
func (t Theme) Styles() Styles {
	return t.StylesFor(lipgloss.DefaultRenderer())
}

// StylesFor returns styles bound to r, so color detection follows r's
// output rather than stdout.
func (t Theme) StylesFor(r *lipgloss.Renderer) Styles {
	return Styles{
		Text: r.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: r.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: r.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: r.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: r.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: r.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: r.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		InfoText: r.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		Title: r.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		ErrorBox: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Danger)).
			Padding(0, 1),

		NoticeBox: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Success)).
			Padding(0, 1),

		PromptFrame: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),

		renderer:    r,
		stateColors: t.StateColors,
		background:  t.Background,
		muted:       t.Muted,
	}
}

// StateStyle returns a badge style for a session state.
func (s Styles) StateStyle(st state.SessionState) lipgloss.Style {
	color := s.stateColors[st.String()]
	if color == "" {
		color = s.muted
	}
	return s.renderer.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// LevelStyle returns the style for a log level name.
func (s Styles) LevelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "ERROR", "FATAL", "PANIC":
		return s.DangerText
	case "WARN":
		return s.WarningText
	case "DEBUG", "TRACE":
		return s.InfoText
	default:
		return s.SuccessText
	}
}
