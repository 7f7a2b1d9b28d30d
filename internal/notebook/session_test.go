package notebook_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"labbook/internal/bounds"
	"labbook/internal/builder"
	"labbook/internal/config"
	"labbook/internal/entity"
	"labbook/internal/faults"
	"labbook/internal/logging"
	"labbook/internal/notebook"
	"labbook/internal/testsupport"
)

var entryDate = time.Date(2023, 6, 22, 9, 30, 0, 0, time.UTC)

func open(t *testing.T, cfg *config.Config, policy bounds.UnknownValuePolicy) *notebook.Session {
	t.Helper()
	s, err := notebook.Open(context.Background(), cfg, notebook.Options{
		Logger: logging.NewNop(),
		Policy: policy,
		Now:    func() time.Time { return entryDate },
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenWiresSession(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMemoryLedger())
	s := open(t, cfg, nil)

	if s.Provenance.Keeper != "Test Keeper" || s.Provenance.Date != "2023-06-22" {
		t.Fatalf("provenance = %+v", s.Provenance)
	}
	if s.Builder.Provenance() != s.Provenance || s.Builder.Ledger() != s.Ledger {
		t.Fatal("builder not wired to the session")
	}
	if _, ok := s.Registry.Categories("Location"); !ok {
		t.Fatal("registry not seeded from the catalog")
	}
	if _, err := s.Reagents.Reagent("Y2O3"); err != nil {
		t.Fatalf("reagent table: %v", err)
	}
	stored := testsupport.ReadBounds(t, cfg.Paths.BoundsFile)
	if len(stored["Location"]) == 0 {
		t.Fatalf("seeded bounds not persisted: %v", stored)
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	if _, err := notebook.Open(context.Background(), nil, notebook.Options{}); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("nil config: expected ErrConfiguration, got %v", err)
	}
	cfg := testsupport.NewConfig(t, testsupport.WithPolicy("maybe"))
	_, err := notebook.Open(context.Background(), cfg, notebook.Options{Logger: logging.NewNop()})
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("bad policy: expected ErrConfiguration, got %v", err)
	}
}

func TestOpenRejectsInvalidKeeperEmail(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMemoryLedger())
	cfg.Notebook.Email = "keeper-at-lab"
	_, err := notebook.Open(context.Background(), cfg, notebook.Options{Logger: logging.NewNop()})
	if err == nil {
		t.Fatal("expected an error for an invalid keeper email")
	}
}

func TestSQLiteLedgerRejectsDuplicateAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first := open(t, cfg, nil)
	if _, err := first.Builder.Grind(ctx, builder.GrindingRequest{Name: "YVO4", Location: "Hot Lab"}); err != nil {
		t.Fatalf("Grind returned error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	second := open(t, cfg, nil)
	_, err := second.Builder.Grind(ctx, builder.GrindingRequest{Name: "YVO4", Location: "Hot Lab"})
	if !errors.Is(err, faults.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate after reopen, got %v", err)
	}
}

func TestSQLiteLedgerOverwritePolicy(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDuplicateNames(config.DuplicatesOverwrite))
	ctx := context.Background()
	s := open(t, cfg, nil)
	for range 2 {
		if _, err := s.Builder.Grind(ctx, builder.GrindingRequest{Name: "YVO4", Location: "Hot Lab"}); err != nil {
			t.Fatalf("Grind returned error: %v", err)
		}
	}
}

func TestInjectedPolicyAcceptsUnknownCategory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMemoryLedger())
	calls := 0
	accept := bounds.PolicyFunc(func(context.Context, bounds.Query) (bool, error) {
		calls++
		return true, nil
	})
	s := open(t, cfg, accept)
	if _, err := s.Builder.Grind(context.Background(), builder.GrindingRequest{Name: "YVO4", Location: "Annex"}); err != nil {
		t.Fatalf("Grind returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("policy consulted %d times, want 1", calls)
	}
	if registered, _ := s.Registry.Contains("Location", "Annex"); !registered {
		t.Fatal("accepted category not registered")
	}
}

func TestAssembleLinksBlock(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMemoryLedger())
	s := open(t, cfg, nil)
	ctx := s.Context(context.Background())

	r, err := s.Reagents.Reagent("Y2O3")
	if err != nil {
		t.Fatalf("Reagent: %v", err)
	}
	raw, err := s.Builder.AcquireReagent(ctx, r)
	if err != nil {
		t.Fatalf("AcquireReagent returned error: %v", err)
	}
	grind, err := s.Builder.Grind(ctx, builder.GrindingRequest{Name: "Y2O3", Location: "Hot Lab"})
	if err != nil {
		t.Fatalf("Grind returned error: %v", err)
	}
	stale, err := s.Builder.Grind(ctx, builder.GrindingRequest{Name: "Y2O3 draft", Location: "Hot Lab"})
	if err != nil {
		t.Fatalf("Grind returned error: %v", err)
	}
	ground, err := s.Builder.Material(ctx, builder.MaterialRequest{Kind: builder.Ground, Name: "Y2O3"})
	if err != nil {
		t.Fatalf("Material returned error: %v", err)
	}
	nominal, measured := builder.WeighedMass(500, 0.5, "mg")
	ing, err := s.Builder.Ingredient(ctx, builder.IngredientRequest{
		Name: "Y2O3", Material: raw.Material, Process: stale, Quantity: nominal, Measured: measured,
	})
	if err != nil {
		t.Fatalf("Ingredient returned error: %v", err)
	}

	blk, err := s.Assemble(ctx, "Y2O3 Grinding Block", grind, ground, []*entity.Ingredient{ing}, nil)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if ing.Spec().Process != grind.Spec() || ing.Run().Process != grind.Run() {
		t.Fatal("ingredient not linked to the block process")
	}
	if spec, run := ground.ProcessNames(); spec != grind.Spec().Name || run != grind.Run().Name {
		t.Fatalf("material process = %q / %q", spec, run)
	}

	var buf bytes.Buffer
	if err := s.Summary(&buf, raw, blk); err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	out := buf.String()
	header := "Test Keeper\nkeeper@lab.edu\nTST\n0001\nTest Entry\n2023-06-22\n"
	if !strings.HasPrefix(out, header) {
		t.Fatalf("summary header:\n%s", out)
	}
	if !strings.Contains(out, "ingredient") || !strings.Contains(out, "measured") {
		t.Fatalf("summary missing ingredient row:\n%s", out)
	}
}

func TestAssembleRequiresEntities(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMemoryLedger())
	s := open(t, cfg, nil)
	_, err := s.Assemble(context.Background(), "Empty Block", nil, nil, nil, nil)
	if !errors.Is(err, faults.ErrConstruction) {
		t.Fatalf("expected ErrConstruction, got %v", err)
	}
}
