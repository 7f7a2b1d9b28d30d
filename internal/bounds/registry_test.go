package bounds_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"labbook/internal/bounds"
	"labbook/internal/catalog"
	"labbook/internal/faults"
	"labbook/internal/logging"
	"labbook/internal/testsupport"
)

func openRegistry(t *testing.T, categories map[string][]string) (*bounds.Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bounds.json")
	if categories != nil {
		testsupport.WriteBounds(t, path, categories)
	}
	reg, err := bounds.Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return reg, path
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	reg, path := openRegistry(t, nil)
	if got := reg.Attributes(); len(got) != 0 {
		t.Fatalf("expected empty registry, got %v", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Open should not create the file, stat err=%v", err)
	}
}

func TestOpenRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bounds.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := bounds.Open(path, nil); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestAddPersistsAndPreservesOrder(t *testing.T) {
	reg, path := openRegistry(t, map[string][]string{
		"Location": {"Wet Lab", "Hot Lab"},
	})
	if err := reg.Add(context.Background(), "Location", "Bucket"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	want := []string{"Wet Lab", "Hot Lab", "Bucket"}
	if got, _ := reg.Categories("Location"); !slices.Equal(got, want) {
		t.Fatalf("in-memory categories = %v, want %v", got, want)
	}
	if got := testsupport.ReadBounds(t, path)["Location"]; !slices.Equal(got, want) {
		t.Fatalf("persisted categories = %v, want %v", got, want)
	}

	reopened, err := bounds.Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, _ := reopened.Categories("Location"); !slices.Equal(got, want) {
		t.Fatalf("reopened categories = %v, want %v", got, want)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"BOUNDS\"") {
		t.Fatalf("expected two-space indentation, got:\n%s", raw)
	}
}

func TestAddRegisteredValueDoesNotWrite(t *testing.T) {
	reg, path := openRegistry(t, map[string][]string{"Location": {"Hot Lab"}})
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if err := reg.Add(context.Background(), "Location", "Hot Lab"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatal("adding a registered value rewrote the file")
	}
}

func TestAddUnknownAttributeIsConfigurationError(t *testing.T) {
	reg, path := openRegistry(t, map[string][]string{"Location": {"Hot Lab"}})
	err := reg.Add(context.Background(), "Color", "Blue")
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if _, ok := testsupport.ReadBounds(t, path)["Color"]; ok {
		t.Fatal("unknown attribute was written")
	}
}

func TestAddKeepsExternalAdditions(t *testing.T) {
	reg, path := openRegistry(t, map[string][]string{
		"Location": {"Hot Lab"},
		"Solvent":  {"Water"},
	})

	// Another session appends while this registry is open.
	testsupport.WriteBounds(t, path, map[string][]string{
		"Location": {"Hot Lab", "Wet Lab"},
		"Solvent":  {"Water"},
		"Form":     {"Powder"},
	})

	if err := reg.Add(context.Background(), "Solvent", "Ethanol"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	got := testsupport.ReadBounds(t, path)
	if !slices.Equal(got["Location"], []string{"Hot Lab", "Wet Lab"}) {
		t.Fatalf("external Location addition lost: %v", got["Location"])
	}
	if !slices.Equal(got["Form"], []string{"Powder"}) {
		t.Fatalf("external Form attribute lost: %v", got["Form"])
	}
	if !slices.Equal(got["Solvent"], []string{"Water", "Ethanol"}) {
		t.Fatalf("Solvent = %v", got["Solvent"])
	}
}

func TestAddValueAlreadyAddedElsewhere(t *testing.T) {
	reg, path := openRegistry(t, map[string][]string{
		"Location": {"Wet Lab", "Hot Lab"},
	})

	testsupport.WriteBounds(t, path, map[string][]string{
		"Location": {"Wet Lab", "Hot Lab", "Bucket"},
	})

	if err := reg.Add(context.Background(), "Location", "Bucket"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	want := []string{"Wet Lab", "Hot Lab", "Bucket"}
	if got, _ := reg.Categories("Location"); !slices.Equal(got, want) {
		t.Fatalf("in-memory Location = %v, want %v", got, want)
	}
	if got := testsupport.ReadBounds(t, path)["Location"]; !slices.Equal(got, want) {
		t.Fatalf("stored Location = %v, want %v", got, want)
	}
}

func TestDefineKeepsAttributeDefinedElsewhere(t *testing.T) {
	reg, path := openRegistry(t, map[string][]string{
		"Location": {"Hot Lab"},
	})

	testsupport.WriteBounds(t, path, map[string][]string{
		"Location": {"Hot Lab"},
		"Solvent":  {"Water"},
	})

	defined, err := reg.Define(context.Background(), "Solvent", []string{"Ethanol"})
	if err != nil {
		t.Fatalf("Define returned error: %v", err)
	}
	if defined {
		t.Fatal("Define reported a new attribute that another session already wrote")
	}
	if got := testsupport.ReadBounds(t, path)["Solvent"]; !slices.Equal(got, []string{"Water"}) {
		t.Fatalf("stored Solvent = %v", got)
	}
}

func TestSavePreservesOtherTopLevelKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bounds.json")
	doc := `{"BOUNDS": {"Location": {"categories": ["Hot Lab"]}}, "OWNER": "lab"}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reg, err := bounds.Open(path, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := reg.Add(context.Background(), "Location", "Wet Lab"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), `"OWNER": "lab"`) {
		t.Fatalf("top-level key dropped:\n%s", raw)
	}
}

func TestCategoriesAreNormalized(t *testing.T) {
	reg, _ := openRegistry(t, map[string][]string{"Location": {"Hot  Lab"}})
	if registered, known := reg.Contains("Location", " Hot Lab "); !registered || !known {
		t.Fatalf("Contains = (%v, %v), want (true, true)", registered, known)
	}
}

func TestSeedAddsMissingCatalogAttributes(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	reg, path := openRegistry(t, map[string][]string{"Location": {"Hot Lab"}})

	added, err := reg.Seed(context.Background(), cat)
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if slices.Contains(added, "Location") {
		t.Fatal("Seed replaced an existing attribute")
	}
	if !slices.Contains(added, "Equipment Used") {
		t.Fatalf("Seed did not add Equipment Used: %v", added)
	}
	if slices.Contains(added, "Duration") {
		t.Fatal("Seed added a non-categorical attribute")
	}
	persisted := testsupport.ReadBounds(t, path)
	if !slices.Equal(persisted["Location"], []string{"Hot Lab"}) {
		t.Fatalf("Location changed: %v", persisted["Location"])
	}
	if !slices.Contains(persisted["Equipment Used"], "Mortar and Pestle") {
		t.Fatalf("seeded categories missing: %v", persisted["Equipment Used"])
	}

	again, err := reg.Seed(context.Background(), cat)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second Seed added %v", again)
	}
}

func TestInMemoryRegistry(t *testing.T) {
	reg, err := bounds.Open("", nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if ok, err := reg.Define(context.Background(), "Solvent", []string{"Water"}); err != nil || !ok {
		t.Fatalf("Define = (%v, %v)", ok, err)
	}
	if ok, _ := reg.Define(context.Background(), "Solvent", []string{"Acetone"}); ok {
		t.Fatal("Define replaced an existing attribute")
	}
	if err := reg.Add(context.Background(), "Solvent", "Ethanol"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if got := reg.Snapshot()["Solvent"]; !slices.Equal(got, []string{"Water", "Ethanol"}) {
		t.Fatalf("Solvent = %v", got)
	}
}
