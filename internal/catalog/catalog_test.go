package catalog_test

import (
	"errors"
	"testing"

	"labbook/internal/catalog"
	"labbook/internal/faults"
	"labbook/internal/gemd"
)

type staticCategories map[string][]string

func (s staticCategories) Categories(attribute string) ([]string, bool) {
	cats, ok := s[attribute]
	return cats, ok
}

func TestDefaultCatalogResolvesTemplates(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	loc, err := cat.AttributeTemplate("Location")
	if err != nil {
		t.Fatalf("lookup Location: %v", err)
	}
	if loc.Kind != gemd.ConditionKind || !gemd.IsCategorical(loc.Bounds) {
		t.Fatalf("unexpected Location template %+v", loc)
	}
	grinding, err := cat.ObjectTemplate("Grinding Material")
	if err != nil {
		t.Fatalf("lookup Grinding Material: %v", err)
	}
	if !grinding.Allows(gemd.ParameterKind, "Equipment Used") || !grinding.Allows(gemd.ConditionKind, "Location") {
		t.Fatalf("grinding template missing slots: %+v", grinding)
	}
	again, _ := catalog.Default()
	if again != cat {
		t.Fatal("Default should return the shared catalog")
	}
}

func TestLookupUnknownNameIsNotFound(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	if _, err := cat.AttributeTemplate("Color"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := cat.ObjectTemplate("Sintering Material"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSlotCarriesNarrowedBounds(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	slot, err := cat.Slot("Heating Material", "Furnace Temperature")
	if err != nil {
		t.Fatalf("Slot returned error: %v", err)
	}
	narrowed, ok := slot.EffectiveBounds().(gemd.RealBounds)
	if !ok || narrowed.Upper != 1050 {
		t.Fatalf("expected narrowed upper bound 1050, got %+v", slot.EffectiveBounds())
	}
	plain, err := cat.Slot("Grinding Material", "Furnace Temperature")
	if err != nil {
		t.Fatalf("Slot returned error: %v", err)
	}
	if plain.EffectiveBounds().(gemd.RealBounds).Upper != 1100 {
		t.Fatalf("expected catalog bounds outside the heating template")
	}
}

func TestParseObjectsMayReferenceLaterAttributes(t *testing.T) {
	doc := []byte(`
objects:
  - name: Grinding Material
    kind: process
    conditions: [Location]
attributes:
  - name: Location
    kind: condition
    bounds: {type: categorical, categories: [Hot Lab]}
`)
	cat, err := catalog.Parse(doc)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if _, err := cat.ObjectTemplate("Grinding Material"); err != nil {
		t.Fatalf("object lookup failed: %v", err)
	}
}

func TestParseRejectsBrokenDocuments(t *testing.T) {
	tests := map[string]string{
		"undefined attribute": `
objects:
  - name: Grinding Material
    kind: process
    conditions: [Location]
`,
		"duplicate attribute": `
attributes:
  - {name: Location, kind: condition}
  - {name: Location, kind: condition}
`,
		"wrong slot kind": `
attributes:
  - {name: Location, kind: condition}
objects:
  - name: Grinding Material
    kind: process
    parameters: [Location]
`,
		"material with parameters": `
attributes:
  - {name: Duration, kind: parameter}
objects:
  - name: Ground Material
    kind: material
    parameters: [Duration]
`,
		"unknown bounds": `
attributes:
  - name: Form
    kind: property
    bounds: {type: fuzzy}
`,
		"unknown field": `
attributes:
  - {name: Form, kind: property, colour: blue}
`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := catalog.Parse([]byte(doc)); !errors.Is(err, faults.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestScopedUsesRegisteredCategories(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	equipment, _ := cat.Slot("Grinding Material", "Equipment Used")
	location, _ := cat.Slot("Grinding Material", "Location")
	source := staticCategories{"Location": {"Hot Lab", "Glovebox 2"}}

	scoped, err := cat.Scoped("Grinding Material", source, equipment, location)
	if err != nil {
		t.Fatalf("Scoped returned error: %v", err)
	}
	if scoped.Kind != gemd.ProcessObject || scoped.Name != "Grinding Material" {
		t.Fatalf("unexpected scoped template %+v", scoped)
	}
	if len(scoped.Parameters) != 1 || len(scoped.Conditions) != 1 {
		t.Fatalf("expected exactly the declared slots, got %d/%d", len(scoped.Parameters), len(scoped.Conditions))
	}
	bounds := scoped.Conditions[0].EffectiveBounds().(gemd.CategoricalBounds)
	if len(bounds.Categories) != 2 || bounds.Categories[1] != "Glovebox 2" {
		t.Fatalf("expected registry categories, got %v", bounds.Categories)
	}
	base, _ := cat.ObjectTemplate("Grinding Material")
	if scoped == base || scoped.UIDs.Auto() == base.UIDs.Auto() {
		t.Fatal("scoped template must be a new value")
	}
}

func TestScopedRejectsParameterOnMaterial(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	duration, _ := cat.Slot("", "Duration")
	if _, err := cat.Scoped("Ground Material", nil, duration); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
