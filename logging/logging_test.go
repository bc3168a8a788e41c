package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInitWriterJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv("TRIAGE_JSON_LOG", "true")
	t.Setenv("TRIAGE_LOG_LEVEL", "")

	var buf bytes.Buffer
	InitWriter(&buf, "triage", false)
	For("pipeline").Info("scan complete", "label", "Safe")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if rec["service"] != "triage" || rec["component"] != "pipeline" || rec["label"] != "Safe" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestInitWriterLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv("TRIAGE_JSON_LOG", "")
	t.Setenv("TRIAGE_LOG_LEVEL", "warn")

	var buf bytes.Buffer
	logger := InitWriter(&buf, "triage", false)
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("level filter not applied: %q", buf.String())
	}

	buf.Reset()
	logger = InitWriter(&buf, "triage", true)
	logger.Debug("debug line")
	if !strings.Contains(buf.String(), "debug line") {
		t.Error("verbose should enable debug")
	}
}
