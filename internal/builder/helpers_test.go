package builder_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"labbook/internal/bounds"
	"labbook/internal/builder"
	"labbook/internal/catalog"
	"labbook/internal/ledger"
	"labbook/internal/logging"
	"labbook/internal/provenance"
)

type countingPolicy struct {
	accept bool
	calls  int
}

func (p *countingPolicy) Decide(context.Context, bounds.Query) (bool, error) {
	p.calls++
	return p.accept, nil
}

type fixture struct {
	builder    *builder.Builder
	registry   *bounds.Registry
	ledger     *ledger.Ledger
	policy     *countingPolicy
	boundsPath string
}

var entryDate = time.Date(2023, time.June, 22, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, accept bool) *fixture {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bounds.json")
	reg, err := bounds.Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("bounds.Open: %v", err)
	}
	if _, err := reg.Seed(context.Background(), cat); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	policy := &countingPolicy{accept: accept}
	l := ledger.New(ledger.NewMemoryRepository(), ledger.RejectDuplicates, logging.NewNop())
	prov := provenance.Default(entryDate)
	prov.Email = "keeper@lab.edu"
	b := builder.New(cat, bounds.NewValidator(cat, reg, policy, logging.NewNop()), l, prov, logging.NewNop())
	return &fixture{builder: b, registry: reg, ledger: l, policy: policy, boundsPath: path}
}

func (f *fixture) boundsFile(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(f.boundsPath)
	if err != nil {
		t.Fatalf("read bounds file: %v", err)
	}
	return data
}

func (f *fixture) recordCount(t *testing.T) int {
	t.Helper()
	recs, err := f.ledger.Records(context.Background(), "")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	return len(recs)
}
