package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/farmer/internal/logtail"
	"github.com/five82/farmer/internal/state"
)

const (
	defaultRefresh  = time.Second
	defaultLogLines = 6
)

// IndicatorOptions configures RunIndicator.
type IndicatorOptions struct {
	Store *state.Store
	// Done is closed when the session reaches Stopped; the indicator then
	// exits on its own.
	Done <-chan struct{}
	// LogFile is tailed under the status line when set.
	LogFile  string
	LogLines int
	Refresh  time.Duration

	AltScreen bool
	Input     io.Reader
	Output    io.Writer
}

// IndicatorResult reports how the indicator ended.
type IndicatorResult struct {
	// StopRequested is true when the operator pressed the stop key.
	StopRequested bool
	// SessionEnded is true when Done closed first.
	SessionEnded bool
}

// RunIndicator shows the background indicator until the operator stops it,
// the session ends or ctx is cancelled.
func RunIndicator(ctx context.Context, opts IndicatorOptions) (IndicatorResult, error) {
	if opts.Store == nil {
		return IndicatorResult{}, fmt.Errorf("indicator requires a session store")
	}
	m := newIndicatorModel(opts)

	programOpts := programOptions(ctx, opts.Input, opts.Output)
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	final, err := tea.NewProgram(m, programOpts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return IndicatorResult{}, nil
		}
		return IndicatorResult{}, fmt.Errorf("run indicator: %w", err)
	}
	result, _ := final.(indicatorModel)
	return IndicatorResult{
		StopRequested: result.stopRequested,
		SessionEnded:  result.sessionEnded,
	}, nil
}

type indicatorModel struct {
	store    *state.Store
	done     <-chan struct{}
	logFile  string
	logLines int
	refresh  time.Duration

	keys    indicatorKeys
	help    help.Model
	spinner spinner.Model
	styles  Styles

	snapshot state.Snapshot
	lines    []string
	now      time.Time
	width    int

	stopRequested bool
	sessionEnded  bool
}

func newIndicatorModel(opts IndicatorOptions) indicatorModel {
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	logLines := opts.LogLines
	if logLines <= 0 {
		logLines = defaultLogLines
	}

	styles := DefaultTheme().Styles()
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = styles.AccentText

	return indicatorModel{
		store:    opts.Store,
		done:     opts.Done,
		logFile:  opts.LogFile,
		logLines: logLines,
		refresh:  refresh,
		keys:     defaultIndicatorKeys(),
		help:     help.New(),
		spinner:  spin,
		styles:   styles,
		snapshot: opts.Store.Snapshot(),
		now:      time.Now(),
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type logLinesMsg []string

type sessionDoneMsg struct{}

// Init implements tea.Model.
func (m indicatorModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchSnapshotCmd(m.store),
		fetchLogsCmd(m.logFile, m.logLines),
		tickCmd(m.refresh),
		waitDoneCmd(m.done),
	)
}

// Update implements tea.Model.
func (m indicatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Stop):
			m.stopRequested = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tea.Batch(
			fetchSnapshotCmd(m.store),
			fetchLogsCmd(m.logFile, m.logLines),
			tickCmd(m.refresh),
		)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case logLinesMsg:
		m.lines = formatLogLines(msg, m.styles)
		return m, nil

	case sessionDoneMsg:
		m.sessionEnded = true
		m.snapshot = m.store.Snapshot()
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m indicatorModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderDetail())
	b.WriteString("\n")

	if errLine := m.renderError(); errLine != "" {
		b.WriteString(errLine)
		b.WriteString("\n")
	}

	if len(m.lines) > 0 {
		b.WriteString("\n")
		for _, line := range m.lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m indicatorModel) renderStatus() string {
	snap := m.snapshot
	parts := []string{
		m.spinner.View(),
		m.styles.Title.Render("farmer"),
	}
	if snap.AppID.Valid() {
		parts = append(parts, m.styles.Text.Render("app "+snap.AppID.String()))
	}
	parts = append(parts, m.styles.StateStyle(snap.State).Render(snap.State.String()))
	if snap.State == state.Running {
		parts = append(parts, m.styles.MutedText.Render("up "+formatUptime(snap.Uptime(m.now))))
	}
	return strings.Join(parts, " ")
}

func (m indicatorModel) renderDetail() string {
	snap := m.snapshot
	detail := fmt.Sprintf("%d polls · %d callbacks", snap.Polls, snap.Dispatched)
	if !snap.LastPoll.IsZero() {
		detail += " · last poll " + humanizeDuration(m.now.Sub(snap.LastPoll))
		if m.now.Sub(snap.LastPoll) >= time.Second {
			detail += " ago"
		}
	}
	return m.styles.FaintText.Render(detail)
}

func (m indicatorModel) renderError() string {
	if m.snapshot.LastError == nil {
		return ""
	}
	limit := m.width - 2
	if limit <= 0 {
		limit = 120
	}
	return m.styles.DangerText.Render(truncate(m.snapshot.LastError.Error(), limit))
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchLogsCmd(path string, n int) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, n)
		if err != nil {
			return nil
		}
		return logLinesMsg(lines)
	}
}

func waitDoneCmd(done <-chan struct{}) tea.Cmd {
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return sessionDoneMsg{}
	}
}
