package ui

import (
	"encoding/json"
	"strings"
	"time"
)

// logEntry is the subset of farmer's zerolog JSON lines the indicator shows.
type logEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Role    string `json:"role"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func formatLogLines(raw []string, styles Styles) []string {
	if len(raw) == 0 {
		return nil
	}
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, formatLogLine(line, styles))
	}
	return lines
}

// formatLogLine renders one JSON log line as
// "15:04:05 LEVEL [role] – message (error)". Lines that are not JSON are
// returned trimmed.
func formatLogLine(raw string, styles Styles) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return strings.TrimSpace(raw)
	}

	ts := entry.Time
	if parsed, err := time.Parse(time.RFC3339, entry.Time); err == nil {
		ts = parsed.In(time.Local).Format("15:04:05")
	}
	level := strings.ToUpper(strings.TrimSpace(entry.Level))
	if level == "" {
		level = "INFO"
	}

	parts := make([]string, 0, 3)
	if ts != "" {
		parts = append(parts, styles.FaintText.Render(ts))
	}
	parts = append(parts, styles.LevelStyle(level).Render(level))
	if role := strings.TrimSpace(entry.Role); role != "" {
		parts = append(parts, styles.AccentText.Render("["+role+"]"))
	}

	header := strings.Join(parts, " ")
	if message := strings.TrimSpace(entry.Message); message != "" {
		header += " " + styles.FaintText.Render("–") + " " + message
	}
	if errText := strings.TrimSpace(entry.Error); errText != "" {
		header += " " + styles.DangerText.Render("("+errText+")")
	}
	return header
}
