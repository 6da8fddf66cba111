package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/farmer/internal/appid"
)

const (
	promptInvalidHint = "Enter a numeric App ID greater than 0."
	promptDigitsHint  = "App IDs contain digits only."
	promptInfo        = "farmer keeps the session running in the background."
)

// PromptOptions configures Prompt.
type PromptOptions struct {
	// Suggested prefills the input when valid.
	Suggested appid.ID
	// Input and Output default to the terminal when nil.
	Input  io.Reader
	Output io.Writer
}

// Prompt asks for an App ID and returns the raw digits entered. Invalid
// input is reported inline and the operator is asked again. Esc or ctrl+c
// returns appid.ErrCancelled.
func Prompt(ctx context.Context, opts PromptOptions) (string, error) {
	m := newPromptModel(opts.Suggested)
	final, err := tea.NewProgram(m, programOptions(ctx, opts.Input, opts.Output)...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("run prompt: %w", err)
	}
	result, ok := final.(promptModel)
	if !ok || !result.done {
		return "", appid.ErrCancelled
	}
	return result.value, nil
}

// PromptFunc adapts Prompt to the appid.Prompter interface.
type PromptFunc func(ctx context.Context, suggested appid.ID) (string, error)

// PromptAppID implements appid.Prompter.
func (f PromptFunc) PromptAppID(ctx context.Context, suggested appid.ID) (string, error) {
	return f(ctx, suggested)
}

type promptModel struct {
	input  textinput.Model
	keys   promptKeys
	help   help.Model
	styles Styles

	hint      string
	value     string
	done      bool
	cancelled bool
}

func newPromptModel(suggested appid.ID) promptModel {
	ti := textinput.New()
	ti.Placeholder = "730"
	ti.Prompt = "› "
	ti.CharLimit = 10
	ti.Width = 12
	if suggested.Valid() {
		ti.SetValue(suggested.String())
		ti.CursorEnd()
	}
	ti.Focus()

	return promptModel{
		input:  ti,
		keys:   defaultPromptKeys(),
		help:   help.New(),
		styles: DefaultTheme().Styles(),
	}
}

// Init implements tea.Model.
func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Confirm):
			raw := strings.TrimSpace(m.input.Value())
			if _, err := appid.Parse(raw); err != nil {
				m.hint = promptInvalidHint
				return m, nil
			}
			m.value = raw
			m.done = true
			return m, tea.Quit
		}

		if msg.Type == tea.KeyRunes && !isDigits(msg.Runes) {
			m.hint = promptDigitsHint
			return m, nil
		}
		m.hint = ""
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("farmer"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Text.Render("Game ID (App ID): "))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.hint != "" {
		b.WriteString(m.styles.DangerText.Render(m.hint))
	} else {
		b.WriteString(m.styles.MutedText.Render(promptInfo))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.PromptFrame.Render(b.String()) + "\n"
}

func programOptions(ctx context.Context, in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
