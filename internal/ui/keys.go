package ui

import "github.com/charmbracelet/bubbles/key"

// indicatorKeys defines the bindings of the background indicator.
type indicatorKeys struct {
	Stop key.Binding
	Help key.Binding
}

func defaultIndicatorKeys() indicatorKeys {
	return indicatorKeys{
		Stop: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Stop session"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k indicatorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k indicatorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Stop}, {k.Help}}
}

// promptKeys defines the bindings of the App ID prompt.
type promptKeys struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultPromptKeys() promptKeys {
	return promptKeys{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Start"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k promptKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns key bindings for the full help view.
func (k promptKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
