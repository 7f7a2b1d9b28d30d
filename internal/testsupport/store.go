package testsupport

import (
	"context"
	"testing"

	"labbook/internal/config"
	"labbook/internal/ledger"
)

// MustOpenLedger opens the SQLite ledger named by cfg and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Ledger {
	t.Helper()

	repo, err := ledger.OpenSQLite(context.Background(), cfg.Paths.LedgerDB)
	if err != nil {
		t.Fatalf("ledger.OpenSQLite: %v", err)
	}
	policy, err := ledger.ParseDuplicatePolicy(cfg.Ledger.DuplicateNames)
	if err != nil {
		t.Fatalf("ledger.ParseDuplicatePolicy: %v", err)
	}
	l := ledger.New(repo, policy, nil)
	t.Cleanup(func() {
		l.Close()
	})
	return l
}
