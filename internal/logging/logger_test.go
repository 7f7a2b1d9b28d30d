package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"labbook/internal/config"
	"labbook/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("session opened", logging.String(logging.FieldPage, "2034"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "session opened") || !strings.Contains(string(content), "page=2034") {
		t.Fatalf("unexpected log content %q", content)
	}
}

func TestConsoleLoggerPrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "bounds").Info("category added", logging.Attribute("Location"))

	line := buf.String()
	if !strings.Contains(line, "INFO bounds: category added") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "attribute=Location") {
		t.Fatalf("expected attribute field, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleLoggerPutsEntryFieldsFirst(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithBlock(logging.WithPage(context.Background(), "0001"), "YVO4 Grinding Block")
	logging.WithContext(ctx, logger).Info("block assembled", logging.Int("ingredients", 2), logging.Error(errors.New("none")))

	line := buf.String()
	want := `block assembled page=0001 block="YVO4 Grinding Block" ingredients=2 error=none`
	if !strings.Contains(line, want) {
		t.Fatalf("console line = %q, want it to contain %q", line, want)
	}
}

func TestConsoleLoggerQualifiesGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("ledger").Info("registered", logging.String("kind", "process_spec"))
	if !strings.Contains(buf.String(), "ledger.kind=process_spec") {
		t.Fatalf("expected dotted group key, got %q", buf.String())
	}
}

func TestDebugLevelAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("loaded bounds registry")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information at debug level, got %q", buf.String())
	}

	buf.Reset()
	quiet, err := logging.New(logging.Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	quiet.Info("not shown")
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %q", buf.String())
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithBlock(logging.WithPage(context.Background(), "2034"), "YVO4 Grinding Block")
	logging.WithContext(ctx, logger).Warn("duplicate spec overwritten")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "warn" || entry["msg"] != "duplicate spec overwritten" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry[logging.FieldPage] != "2034" || entry[logging.FieldBlock] != "YVO4 Grinding Block" {
		t.Fatalf("missing context fields in %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key in %v", entry)
	}
}

func TestNewRejectsUnknownFormatAndLevel(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
	if _, err := logging.New(logging.Options{Level: "chatty"}); err == nil {
		t.Fatal("expected unsupported level error")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "prompt unavailable", "policy_fallback",
		logging.String(logging.FieldImpact, "unknown categorical values will be rejected"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry[logging.FieldEventType] != "policy_fallback" {
		t.Fatalf("expected event type, got %v", entry)
	}
	if entry[logging.FieldErrorHint] == nil {
		t.Fatalf("expected injected hint, got %v", entry)
	}
	if entry[logging.FieldImpact] != "unknown categorical values will be rejected" {
		t.Fatalf("caller impact replaced: %v", entry)
	}
}
