package bounds

import (
	"context"
	"fmt"
	"log/slog"

	"labbook/internal/catalog"
	"labbook/internal/faults"
	"labbook/internal/gemd"
	"labbook/internal/logging"
	"labbook/internal/textutil"
)

// Check pairs an attribute name with a candidate value.
type Check struct {
	Attribute string
	Value     string
}

// Validator checks categorical values against the registry, consulting the
// unknown-value policy for values the registry has not seen.
type Validator struct {
	catalog  *catalog.Catalog
	registry *Registry
	policy   UnknownValuePolicy
	logger   *slog.Logger
}

// NewValidator wires a validator. A nil policy rejects unknown values.
func NewValidator(cat *catalog.Catalog, registry *Registry, policy UnknownValuePolicy, logger *slog.Logger) *Validator {
	if policy == nil {
		policy = Reject()
	}
	return &Validator{
		catalog:  cat,
		registry: registry,
		policy:   policy,
		logger:   logging.NewComponentLogger(logger, "validator"),
	}
}

// Validate succeeds when value may be used for attribute. Empty values and
// attributes without categorical bounds always pass. A value missing from
// the registry is put to the policy exactly once; an accepted value is
// persisted so later calls pass without asking again.
func (v *Validator) Validate(ctx context.Context, attribute, value string) error {
	tmpl, err := v.catalog.AttributeTemplate(attribute)
	if err != nil {
		return faults.Wrap(faults.ErrConfiguration, "validator", "validate",
			fmt.Sprintf("attribute %q is not defined in the catalog", attribute), err)
	}
	value = textutil.NormalizeCategory(value)
	if value == "" || !gemd.IsCategorical(tmpl.Bounds) {
		return nil
	}

	registered, known := v.registry.Contains(attribute, value)
	if !known {
		return faults.Wrap(faults.ErrConfiguration, "validator", "validate",
			fmt.Sprintf("attribute %q has no registered bounds", attribute), nil)
	}
	if registered {
		return nil
	}

	cats, _ := v.registry.Categories(attribute)
	accepted, err := v.policy.Decide(ctx, Query{Attribute: attribute, Value: value, Registered: cats})
	if err != nil {
		return err
	}
	logger := logging.WithContext(ctx, v.logger)
	if !accepted {
		logger.Info("unknown category rejected", logging.Args(append(
			logging.DecisionAttrs("unknown_category", "rejected", "policy declined"),
			logging.Attribute(attribute), logging.String(logging.FieldValue, value))...)...)
		return faults.Wrap(faults.ErrValidation, "validator", "validate",
			fmt.Sprintf("%q is not a registered %s category", value, attribute), nil)
	}
	if err := v.registry.Add(ctx, attribute, value); err != nil {
		return err
	}
	logger.Info("unknown category accepted", logging.Args(append(
		logging.DecisionAttrs("unknown_category", "accepted", "policy approved"),
		logging.Attribute(attribute), logging.String(logging.FieldValue, value))...)...)
	return nil
}

// ValidateAll validates every check in order and stops at the first failure.
func (v *Validator) ValidateAll(ctx context.Context, checks ...Check) error {
	for _, check := range checks {
		if err := v.Validate(ctx, check.Attribute, check.Value); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns the registry the validator writes to.
func (v *Validator) Registry() *Registry { return v.registry }
