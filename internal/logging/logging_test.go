package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":   slog.LevelError,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"":        slog.LevelDebug,
		"verbose": slog.LevelDebug,
	}
	for in, want := range cases {
		if got := levelFromString(in); got != want {
			t.Fatalf("levelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWriterJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWriter(&buf, "info", "JSON")
	logger.Debug("hidden")
	logger.With("component", "store").Info("seeded", "posts", 3)

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug record leaked at info level: %s", line)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("expected one json record, got %q: %v", line, err)
	}
	if record["component"] != "store" || record["msg"] != "seeded" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestNewWriterText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWriter(&buf, "debug", "").Debug("queue started", "pending", 0)

	if !strings.Contains(buf.String(), "msg=\"queue started\"") {
		t.Fatalf("unexpected text output: %q", buf.String())
	}
}
