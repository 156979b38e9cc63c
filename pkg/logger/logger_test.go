package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{string(DebugLevel), slog.LevelDebug},
		{string(InfoLevel), slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitWritesJSON(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev; slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init("warn", &buf)

	Info("dropped")
	Warn("fetch failed", String("source", "joke"), Err(errors.New("boom")))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "fetch failed" {
		t.Errorf("msg = %v, want %q", entry["msg"], "fetch failed")
	}
	if entry["source"] != "joke" {
		t.Errorf("source = %v, want %q", entry["source"], "joke")
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want %q", entry["error"], "boom")
	}
}
