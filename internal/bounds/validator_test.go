package bounds_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"labbook/internal/bounds"
	"labbook/internal/catalog"
	"labbook/internal/faults"
	"labbook/internal/testsupport"
)

type countingPolicy struct {
	answer  bool
	calls   int
	queries []bounds.Query
}

func (p *countingPolicy) Decide(_ context.Context, q bounds.Query) (bool, error) {
	p.calls++
	p.queries = append(p.queries, q)
	return p.answer, nil
}

func newValidator(t *testing.T, policy bounds.UnknownValuePolicy, categories map[string][]string) (*bounds.Validator, string) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	reg, path := openRegistry(t, categories)
	return bounds.NewValidator(cat, reg, policy, nil), path
}

func TestValidateRegisteredValueSkipsPolicy(t *testing.T) {
	policy := &countingPolicy{}
	v, _ := newValidator(t, policy, map[string][]string{"Location": {"Hot Lab", "Wet Lab"}})
	if err := v.Validate(context.Background(), "Location", "Hot Lab"); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if policy.calls != 0 {
		t.Fatalf("policy called %d times", policy.calls)
	}
}

func TestValidateEmptyValueSucceeds(t *testing.T) {
	policy := &countingPolicy{}
	v, _ := newValidator(t, policy, map[string][]string{"Location": {"Hot Lab"}})
	if err := v.Validate(context.Background(), "Location", ""); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if policy.calls != 0 {
		t.Fatalf("policy called %d times", policy.calls)
	}
}

func TestValidateNonCategoricalSucceeds(t *testing.T) {
	policy := &countingPolicy{}
	v, path := newValidator(t, policy, map[string][]string{"Location": {"Hot Lab"}})
	if err := v.Validate(context.Background(), "Duration", "forever"); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if policy.calls != 0 {
		t.Fatalf("policy called %d times", policy.calls)
	}
	if _, ok := testsupport.ReadBounds(t, path)["Duration"]; ok {
		t.Fatal("non-categorical attribute written to registry")
	}
}

func TestValidateUnknownAttributeIsConfigurationError(t *testing.T) {
	policy := &countingPolicy{answer: true}
	v, _ := newValidator(t, policy, map[string][]string{"Location": {"Hot Lab"}})
	if err := v.Validate(context.Background(), "Color", "Blue"); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if policy.calls != 0 {
		t.Fatalf("policy called %d times", policy.calls)
	}
}

func TestValidateUnregisteredAttributeIsConfigurationError(t *testing.T) {
	policy := &countingPolicy{answer: true}
	v, path := newValidator(t, policy, map[string][]string{"Location": {"Hot Lab"}})
	if err := v.Validate(context.Background(), "Solvent", "Water"); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if policy.calls != 0 {
		t.Fatalf("policy called %d times", policy.calls)
	}
	if _, ok := testsupport.ReadBounds(t, path)["Solvent"]; ok {
		t.Fatal("unregistered attribute was written")
	}
}

func TestValidateAcceptedValueIsPersistedOnce(t *testing.T) {
	policy := &countingPolicy{answer: true}
	v, path := newValidator(t, policy, map[string][]string{"Location": {"Hot Lab", "Wet Lab"}})

	if err := v.Validate(context.Background(), "Location", "Glovebox"); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	want := []string{"Hot Lab", "Wet Lab", "Glovebox"}
	if got := testsupport.ReadBounds(t, path)["Location"]; !slices.Equal(got, want) {
		t.Fatalf("persisted = %v, want %v", got, want)
	}
	if err := v.Validate(context.Background(), "Location", "Glovebox"); err != nil {
		t.Fatalf("second Validate returned error: %v", err)
	}
	if policy.calls != 1 {
		t.Fatalf("policy called %d times, want 1", policy.calls)
	}
	if q := policy.queries[0]; q.Attribute != "Location" || q.Value != "Glovebox" || len(q.Registered) != 2 {
		t.Fatalf("unexpected query %+v", q)
	}
}

func TestValidateRejectedValueIsValidationError(t *testing.T) {
	policy := &countingPolicy{answer: false}
	v, path := newValidator(t, policy, map[string][]string{"Location": {"Hot Lab"}})

	err := v.Validate(context.Background(), "Location", "Glovebox")
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := testsupport.ReadBounds(t, path)["Location"]; !slices.Equal(got, []string{"Hot Lab"}) {
		t.Fatalf("registry changed after rejection: %v", got)
	}
	if policy.calls != 1 {
		t.Fatalf("policy called %d times, want 1", policy.calls)
	}
}

func TestValidatePolicyErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	policy := bounds.PolicyFunc(func(context.Context, bounds.Query) (bool, error) { return false, boom })
	v, _ := newValidator(t, policy, map[string][]string{"Location": {"Hot Lab"}})
	if err := v.Validate(context.Background(), "Location", "Glovebox"); !errors.Is(err, boom) {
		t.Fatalf("expected policy error, got %v", err)
	}
}

func TestValidateAllStopsAtFirstFailure(t *testing.T) {
	policy := &countingPolicy{answer: false}
	v, _ := newValidator(t, policy, map[string][]string{
		"Location":       {"Hot Lab"},
		"Equipment Used": {"Mortar and Pestle"},
	})
	err := v.ValidateAll(context.Background(),
		bounds.Check{Attribute: "Location", Value: "Attic"},
		bounds.Check{Attribute: "Equipment Used", Value: "Hammer"},
	)
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if policy.calls != 1 {
		t.Fatalf("policy called %d times, want 1", policy.calls)
	}
}
