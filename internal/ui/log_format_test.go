package ui

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func plainStyles() Styles {
	return DefaultTheme().StylesFor(lipgloss.NewRenderer(io.Discard))
}

func TestFormatLogLine(t *testing.T) {
	oldLocal := time.Local
	time.Local = time.FixedZone("TestLocal", -5*60*60)
	defer func() {
		time.Local = oldLocal
	}()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "full entry",
			raw:  `{"level":"warn","role":"worker","time":"2025-12-13T10:11:12Z","message":" steam teardown failed ","error":"bridge gone"}`,
			want: "05:11:12 WARN [worker] – steam teardown failed (bridge gone)",
		},
		{
			name: "no level defaults to info",
			raw:  `{"message":"hello"}`,
			want: "INFO – hello",
		},
		{
			name: "unparsable time kept verbatim",
			raw:  `{"level":"debug","time":"yesterday","message":"x"}`,
			want: "yesterday DEBUG – x",
		},
		{
			name: "not json",
			raw:  "  plain text  ",
			want: "plain text",
		},
	}

	styles := plainStyles()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLogLine(tt.raw, styles); got != tt.want {
				t.Errorf("formatLogLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatLogLines_SkipsBlank(t *testing.T) {
	got := formatLogLines([]string{"", `{"message":"a"}`, "   "}, plainStyles())
	if len(got) != 1 || got[0] != "INFO – a" {
		t.Fatalf("formatLogLines = %#v, want [INFO – a]", got)
	}
	if formatLogLines(nil, plainStyles()) != nil {
		t.Fatalf("formatLogLines(nil) should be nil")
	}
}
