package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"routelabel/internal/logging"
	"routelabel/internal/services"
	"routelabel/internal/testsupport"
)

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleHeaderLiftsRouteAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "preload").Info("route ready",
		logging.Route("route_a"),
		logging.String(logging.FieldStage, "score"),
		logging.Int("frames", 12),
	)

	out := buf.String()
	if !strings.Contains(out, "INFO [preload] route_a (score) - route ready") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "    - frames: 12") {
		t.Fatalf("expected indented field, got %q", out)
	}
}

func TestColorFormatWithoutTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "color", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("route ready", logging.Int("frames", 3))

	out := buf.String()
	if !strings.Contains(out, "route ready") || !strings.Contains(out, "frames=3") {
		t.Fatalf("unexpected color output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes for a buffer, got %q", out)
	}
}

func TestNewUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("visible")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected info threshold, got %q", buf.String())
	}
}

func TestQuietConsoleStillWritesRunFile(t *testing.T) {
	var buf bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "run.log")
	logger, err := logging.New(logging.Options{
		Format:       "console",
		Level:        "info",
		Writer:       &buf,
		FilePath:     logPath,
		ConsoleLevel: "warn",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("progress line")
	logger.Warn("needs attention")

	if strings.Contains(buf.String(), "progress line") {
		t.Fatalf("console should suppress info, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "needs attention") {
		t.Fatalf("console should keep warnings, got %q", buf.String())
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines in run file, got %d: %q", len(lines), content)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode run log line: %v", err)
	}
	if entry["msg"] != "progress line" || entry["level"] != "info" {
		t.Fatalf("unexpected run log entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
}

func TestNewFromConfigPrunesOldRunLogs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Logging.RetentionDays = 7

	stale := logging.RunLogPath(cfg.Paths.LogDir, "old")
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatalf("write stale log: %v", err)
	}
	old := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg, "current", true)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale log removed, stat err=%v", err)
	}
	if _, err := os.Stat(logging.RunLogPath(cfg.Paths.LogDir, "current")); err != nil {
		t.Fatalf("expected current run log: %v", err)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRoute(ctx, "route_b")
	ctx = services.WithStage(ctx, "review")
	ctx = services.WithSessionID(ctx, "sess-1")

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WithContext(ctx, logger).Info("contextual log")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]string{
		logging.FieldRoute:     "route_b",
		logging.FieldStage:     "review",
		logging.FieldSessionID: "sess-1",
	}
	for key, value := range want {
		if entry[key] != value {
			t.Fatalf("field %s = %v, want %q", key, entry[key], value)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "route empty", "route_empty", logging.Impact("route archived unreviewed"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[logging.FieldEventType] != "route_empty" {
		t.Fatalf("event_type = %v", entry[logging.FieldEventType])
	}
	if entry[logging.FieldErrorHint] != "see the run log for details" {
		t.Fatalf("error_hint = %v", entry[logging.FieldErrorHint])
	}
	if entry[logging.FieldImpact] != "route archived unreviewed" {
		t.Fatalf("impact should keep caller value, got %v", entry[logging.FieldImpact])
	}
}
