package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"labbook/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("LABBOOK_EMAIL", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantBounds := filepath.Join(tempHome, ".config", "labbook", "bounds.json")
	if cfg.Paths.BoundsFile != wantBounds {
		t.Fatalf("unexpected bounds file: got %q want %q", cfg.Paths.BoundsFile, wantBounds)
	}
	wantLedger := filepath.Join(tempHome, ".local", "share", "labbook", "ledger.db")
	if cfg.Paths.LedgerDB != wantLedger {
		t.Fatalf("unexpected ledger db: got %q want %q", cfg.Paths.LedgerDB, wantLedger)
	}
	if cfg.Bounds.UnknownValuePolicy != config.PolicyPrompt {
		t.Fatalf("expected prompt policy by default, got %q", cfg.Bounds.UnknownValuePolicy)
	}
	if cfg.Ledger.DuplicateNames != config.DuplicatesReject {
		t.Fatalf("expected duplicate names rejected by default, got %q", cfg.Ledger.DuplicateNames)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigNormalizesValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "labbook.toml")
	content := `
[paths]
bounds_file = "~/notebook/bounds.json"
ledger_db = "~/notebook/ledger.db"

[bounds]
unknown_value_policy = " Accept "

[ledger]
driver = "MEMORY"
duplicate_names = "overwrite"

[notebook]
keeper = "  Jane Doe "
email = "jdoe@lab.edu"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.BoundsFile != filepath.Join(tempHome, "notebook", "bounds.json") {
		t.Fatalf("unexpected bounds file %q", cfg.Paths.BoundsFile)
	}
	if cfg.Bounds.UnknownValuePolicy != config.PolicyAccept {
		t.Fatalf("unexpected policy %q", cfg.Bounds.UnknownValuePolicy)
	}
	if cfg.Ledger.Driver != config.LedgerMemory {
		t.Fatalf("unexpected ledger driver %q", cfg.Ledger.Driver)
	}
	if cfg.Notebook.Keeper != "Jane Doe" {
		t.Fatalf("expected trimmed keeper, got %q", cfg.Notebook.Keeper)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "labbook.toml")
	if err := os.WriteFile(configPath, []byte("[bounds]\nunknown_value_policy = \"maybe\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "bounds.unknown_value_policy") {
		t.Fatalf("expected policy validation error, got %v", err)
	}
}

func TestLoadRejectsMalformedEmail(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "labbook.toml")
	if err := os.WriteFile(configPath, []byte("[notebook]\nemail = \"not-an-email\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected malformed email to fail validation")
	}
}

func TestEmailFallsBackToEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LABBOOK_EMAIL", "keeper@lab.edu")
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notebook.Email != "keeper@lab.edu" {
		t.Fatalf("expected email from env, got %q", cfg.Notebook.Email)
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Ledger.Driver != config.LedgerSQLite {
		t.Fatalf("unexpected sample driver %q", cfg.Ledger.Driver)
	}
}

func TestEnsureDirectoriesCreatesParents(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BoundsFile = filepath.Join(base, "cfg", "bounds.json")
	cfg.Paths.LedgerDB = filepath.Join(base, "data", "ledger.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{"cfg", "data", "logs"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
