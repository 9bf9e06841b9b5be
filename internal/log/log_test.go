package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Out: &buf, Level: slog.LevelInfo})

	logger.Debug("hidden")
	logger.Info("shown", "file", "a.ini")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "file=a.ini") {
		t.Errorf("text output = %q", out)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Out: &buf, Level: slog.LevelDebug, JSON: true})

	logger.Debug("loaded", "entries", 3)

	if !strings.Contains(buf.String(), `"msg":"loaded"`) || !strings.Contains(buf.String(), `"entries":3`) {
		t.Errorf("JSON output = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("Discard() logger reports enabled")
	}
}

func TestRecorder(t *testing.T) {
	logger, rec := NewRecorder()

	logger.Debug("skipped unknown entry", "heading", "Audio", "line", 4)
	logger.Warn("done")

	if diff := cmp.Diff([]string{"skipped unknown entry", "done"}, rec.Messages()); diff != "" {
		t.Errorf("Messages() mismatch (-want +got):\n%s", diff)
	}
	first := rec.Records()[0]
	if first.Attrs["heading"] != "Audio" || first.Attrs["line"] != int64(4) {
		t.Errorf("attrs = %v", first.Attrs)
	}
}
