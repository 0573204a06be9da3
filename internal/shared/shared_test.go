package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerWritesToProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected log output to contain message, got %q", buf.String())
	}
}

func TestGenerateIDUnique(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("GenerateID() returned %q and %q, want distinct non-empty IDs", a, b)
	}
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		seconds int
		want    string
	}{
		{355, "5:55"},
		{60, "1:00"},
		{59, "0:59"},
		{0, "?:??"},
		{-1, "?:??"},
	}

	for _, tt := range tc {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate() = %q, want unchanged", got)
	}
	if got := Truncate("a very long track title", 10); got != "a very lo…" {
		t.Errorf("Truncate() = %q", got)
	}
}
