package reagents_test

import (
	"errors"
	"testing"

	"labbook/internal/faults"
	"labbook/internal/reagents"
)

func TestDefaultTable(t *testing.T) {
	table, err := reagents.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	r, err := table.Reagent("y2o3")
	if err != nil {
		t.Fatalf("Reagent returned error: %v", err)
	}
	if r.Name != "Y2O3" || r.Manufacturer != "Strem Chemicals" || r.Purity != 99.99 || r.Lot != "23195800" || r.CASNumber != "1314-36-9" {
		t.Fatalf("unexpected reagent %+v", r)
	}
	if v, _ := table.Reagent("V2O5"); v.Lot != "0198917/2.1" || v.Purity != 99.6 {
		t.Fatalf("unexpected V2O5 %+v", v)
	}
	names := []string{}
	for _, r := range table.Reagents() {
		names = append(names, r.Name)
	}
	if len(names) != 3 || names[0] != "LiCO3" || names[2] != "Y2O3" {
		t.Fatalf("reagents = %v", names)
	}
}

func TestUnknownNames(t *testing.T) {
	table, err := reagents.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	if _, err := table.Reagent("NaCl"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := table.Solution("H2SO4"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWeightPercent(t *testing.T) {
	table, err := reagents.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	hcl, err := table.Solution("HCl")
	if err != nil {
		t.Fatalf("Solution returned error: %v", err)
	}
	if got := hcl.WeightPercent(2); got != 7.292 {
		t.Fatalf("2 M HCl = %v wt%%, want 7.292", got)
	}
	hno3, _ := table.Solution("HNO3")
	if got := hno3.WeightPercent(1.5); got != 9.45195 {
		t.Fatalf("1.5 M HNO3 = %v wt%%, want 9.45195", got)
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	doc := []byte("reagents:\n  - {name: Y2O3, purity: 99}\n  - {name: y2o3, purity: 98}\n")
	if _, err := reagents.Parse(doc); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if _, err := reagents.Parse([]byte("reagents:\n  - {name: X, purity: 120}\n")); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for purity, got %v", err)
	}
}
