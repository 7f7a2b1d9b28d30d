package testsupport

import (
	"path/filepath"
	"testing"

	"labbook/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options. Unknown
// categorical values are rejected unless a test opts into another policy.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.BoundsFile = filepath.Join(base, "config", "bounds.json")
	cfgVal.Paths.LedgerDB = filepath.Join(base, "data", "ledger.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Bounds.UnknownValuePolicy = config.PolicyReject
	cfgVal.Notebook.Keeper = "Test Keeper"
	cfgVal.Notebook.Email = "keeper@lab.edu"
	cfgVal.Notebook.Tag = "TST"
	cfgVal.Notebook.Page = "0001"
	cfgVal.Notebook.Title = "Test Entry"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPolicy sets the unknown categorical value policy.
func WithPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Bounds.UnknownValuePolicy = policy
	}
}

// WithMemoryLedger keeps generated specs in memory instead of SQLite.
func WithMemoryLedger() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Driver = config.LedgerMemory
	}
}

// WithDuplicateNames sets the ledger duplicate-name policy.
func WithDuplicateNames(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.DuplicateNames = policy
	}
}

// WithBounds writes a bounds file with the given categories before the
// session opens and disables catalog seeding so only those attributes exist.
func WithBounds(categories map[string][]string) ConfigOption {
	return func(b *configBuilder) {
		WriteBounds(b.t, b.cfg.Paths.BoundsFile, categories)
		b.cfg.Bounds.SeedFromCatalog = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
