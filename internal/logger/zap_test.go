package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{" WARN ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		if got := toZapLevel(tc.in); got != tc.want {
			t.Fatalf("toZapLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if ValidLevel("verbose") || !ValidLevel("Debug") {
		t.Fatalf("ValidLevel mismatch")
	}
	if ValidFormat("xml") || !ValidFormat(FormatJSON) {
		t.Fatalf("ValidFormat mismatch")
	}
}

func TestJSONLogger_WithAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newZapLogger(WarnLevel, FormatJSON, zapcore.AddSync(&buf)).Named("session").With("session_id", "s1")

	log.Infow("poll_ok")
	log.Warnw("roast_warning", "kind", "bean_temp_high")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the warn entry, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["msg"] != "roast_warning" || entry["level"] != "warn" || entry["logger"] != "session" ||
		entry["session_id"] != "s1" || entry["kind"] != "bean_temp_high" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestConsoleLogger_NoTimestamp(t *testing.T) {
	var buf bytes.Buffer
	log := newZapLogger(DebugLevel, FormatConsole, zapcore.AddSync(&buf))
	log.Debugw("charge_detected", "temp_c", 85.0)
	out := buf.String()
	if !strings.HasPrefix(out, "DEBUG") || !strings.Contains(out, "charge_detected") {
		t.Fatalf("unexpected console output: %q", out)
	}
}
