// Package ui is farmer's terminal front end: the App ID prompt, the
// background indicator and the notices printed around them.
//
// # Prompt
//
// Prompt runs a one-field Bubble Tea program. It accepts digits only,
// prefills a suggested ID, and validates on enter with appid.Parse; an
// invalid value leaves the prompt open with a hint. Esc and ctrl+c cancel
// with appid.ErrCancelled. PromptFunc adapts Prompt to appid.Prompter.
//
// # Background Indicator
//
// RunIndicator is the visible side of a running session. It refreshes from
// the state.Store once per second and shows:
//
//   - App ID and session state badge
//   - Uptime, poll and callback counters
//   - The last poll fault, if any
//   - The tail of the log file, formatted from zerolog JSON
//
// Pressing q (or ctrl+c) is the stop signal: RunIndicator returns with
// StopRequested and the caller cancels the worker. When the session reaches
// Stopped on its own (Steam exited, a poll fault), the Done channel closes
// and the indicator quits with SessionEnded.
//
// # Notices
//
// ReportError and ReportStarted print bordered Lipgloss boxes to a writer.
// Errors implementing Reportable supply their own title and hints.
//
// # Styling
//
// All views share one palette, DefaultTheme (Nightfox). Styles are bound to
// a lipgloss.Renderer so notices written to a pipe carry no escape codes.
package ui
