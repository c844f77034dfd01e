package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONLogger_WritesOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("connection created", String("node", "alice"))
	logger.Warn("drag cancelled")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}

	var e entry
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if e.Level != "INFO" || e.Message != "connection created" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Fields["node"] != "alice" {
		t.Errorf("expected node field, got %v", e.Fields)
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Error("visible")

	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("expected 1 line after filtering, got %d", got)
	}
}

func TestJSONLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("linker"))
	child.Info("finalized", Connection("a<->b"))

	var e entry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &e); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if e.Fields["component"] != "linker" || e.Fields["connection"] != "a<->b" {
		t.Errorf("missing preset or call fields: %v", e.Fields)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != DebugLevel {
		t.Error("debug should parse")
	}
	if ParseLevel("nonsense") != InfoLevel {
		t.Error("unknown level should default to info")
	}
}
