package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/farmer/internal/appid"
)

// Reportable errors carry their own title and operator hints.
type Reportable interface {
	error
	Title() string
	Hints() []string
}

// ReportError writes err to w as a bordered notice. Reportable errors
// contribute a title and a list of hints.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	styles := DefaultTheme().StylesFor(lipgloss.NewRenderer(w))

	title := "Error"
	var hints []string
	var r Reportable
	if errors.As(err, &r) {
		if t := strings.TrimSpace(r.Title()); t != "" {
			title = t
		}
		hints = r.Hints()
	}

	var b strings.Builder
	b.WriteString(styles.DangerText.Render(title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(err.Error()))
	if len(hints) > 0 {
		b.WriteString("\n")
		for _, hint := range hints {
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Render("- " + hint))
		}
	}
	fmt.Fprintln(w, styles.ErrorBox.Render(b.String()))
}

// ReportStarted tells the operator the session is running in the
// background and how to end it.
func ReportStarted(w io.Writer, id appid.ID) {
	styles := DefaultTheme().StylesFor(lipgloss.NewRenderer(w))

	var b strings.Builder
	b.WriteString(styles.SuccessText.Render("Process started!"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("Registered as playing app " + id.String() + "."))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("To close, press q, quit Steam, or send SIGTERM."))
	fmt.Fprintln(w, styles.NoticeBox.Render(b.String()))
}
