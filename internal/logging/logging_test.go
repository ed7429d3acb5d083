package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "roku.log")

	if err := InitWith(Options{Path: logPath, Debug: true}); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogMetricsEvent("metrics %s", "only")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "metrics only") {
		t.Fatalf("expected LogMetricsEvent content, got: %s", content)
	}
	first := strings.SplitN(strings.TrimSpace(content), "\n", 2)[0]
	var line map[string]any
	if err := json.Unmarshal([]byte(first), &line); err != nil {
		t.Fatalf("expected JSON lines in file, got %q: %v", first, err)
	}
	if line["level"] != "info" {
		t.Fatalf("expected info level, got: %v", line["level"])
	}
}

func TestDebugLinesFilteredByDefault(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(Options{Console: &buf}); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	LogRequest("roku->llm", "localhost", "llama3.2", "", "hi")
	if buf.Len() != 0 {
		t.Fatalf("expected debug request line to be filtered, got: %s", buf.String())
	}

	SetDebug(true)
	LogRequest("roku->llm", "localhost", "llama3.2", "", "hi")
	if !strings.Contains(buf.String(), "[ROKU->LLM] host=localhost model=llama3.2 payload=hi") {
		t.Fatalf("expected request line, got: %s", buf.String())
	}
}

func TestWithTagsComponent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "c.log")
	if err := InitWith(Options{Path: logPath}); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	l := With("agent")
	l.Info().Msg("round")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"component":"agent"`) {
		t.Fatalf("expected component field, got: %s", data)
	}
}

func TestBuildRequestMessageDefaults(t *testing.T) {
	msg := buildRequestMessage(" in ", " ", "", " tool ", map[string]any{"ok": true})
	if !strings.Contains(msg, "[IN]") {
		t.Fatalf("expected uppercased direction, got: %s", msg)
	}
	if !strings.Contains(msg, "host=unknown") {
		t.Fatalf("expected default host, got: %s", msg)
	}
	if !strings.Contains(msg, "model=unknown") {
		t.Fatalf("expected default model, got: %s", msg)
	}
	if !strings.Contains(msg, "tool=tool") {
		t.Fatalf("expected tool name, got: %s", msg)
	}
	if !strings.Contains(msg, "payload={\"ok\":true}") {
		t.Fatalf("expected payload json, got: %s", msg)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
}

func TestInitDiscard(t *testing.T) {
	if err := InitWith(Options{}); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("discard")
	if l := Logger(); l.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger, got level %v", l.GetLevel())
	}
}
