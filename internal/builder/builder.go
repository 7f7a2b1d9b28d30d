package builder

import (
	"context"
	"fmt"
	"log/slog"

	"labbook/internal/bounds"
	"labbook/internal/catalog"
	"labbook/internal/faults"
	"labbook/internal/gemd"
	"labbook/internal/ledger"
	"labbook/internal/logging"
	"labbook/internal/provenance"
	"labbook/internal/textutil"
)

const component = "builder"

// Builder constructs entities against one catalog, validator, ledger, and
// notebook entry.
type Builder struct {
	catalog   *catalog.Catalog
	validator *bounds.Validator
	ledger    *ledger.Ledger
	prov      provenance.Provenance
	logger    *slog.Logger
}

// New returns a builder. A nil ledger keeps specs in memory and rejects
// duplicate names.
func New(cat *catalog.Catalog, validator *bounds.Validator, l *ledger.Ledger, prov provenance.Provenance, logger *slog.Logger) *Builder {
	if l == nil {
		l = ledger.New(ledger.NewMemoryRepository(), ledger.RejectDuplicates, logger)
	}
	return &Builder{
		catalog:   cat,
		validator: validator,
		ledger:    l,
		prov:      prov,
		logger:    logging.NewComponentLogger(logger, component),
	}
}

// Provenance returns the notebook entry stamped onto run sources.
func (b *Builder) Provenance() provenance.Provenance { return b.prov }

// Ledger returns the ledger specs are registered in.
func (b *Builder) Ledger() *ledger.Ledger { return b.ledger }

// Attr is one attribute value requested of a builder.
type Attr struct {
	// Name is the catalog attribute.
	Name string
	// As renames the attribute on the spec, as with program steps. Empty
	// keeps Name.
	As string
	// Value is the nominal spec value. Nil leaves the attribute out.
	Value gemd.Value
	// Measured replaces the value on the run. Nil copies Value.
	Measured gemd.Value
}

// Category returns a categorical attribute. An empty value leaves the
// attribute out.
func Category(name, value string) Attr {
	value = textutil.NormalizeCategory(value)
	if value == "" {
		return Attr{Name: name}
	}
	return Attr{Name: name, Value: gemd.NominalCategorical{Category: value}}
}

// Real returns a real attribute. Empty units take the attribute's default
// units.
func Real(name string, value float64, units string) Attr {
	return Attr{Name: name, Value: gemd.NominalReal{Nominal: value, Units: units}}
}

func (a Attr) slotName() string {
	if a.As != "" {
		return a.As
	}
	return a.Name
}

// prepared is the validated outcome of resolving a builder call.
type prepared struct {
	template *gemd.ObjectTemplate
	byKind   map[gemd.AttributeKind][]gemd.Attribute
	measured map[gemd.AttributeKind][]gemd.Attribute
}

type resolvedAttr struct {
	attr Attr
	slot gemd.TemplateSlot
}

// prepare resolves every attribute against the object template before any
// category is validated, validates categories and extra checks, and then
// builds the scoped template and the attribute values.
func (b *Builder) prepare(ctx context.Context, object string, kind gemd.ObjectKind, attrs []Attr, checks []bounds.Check) (*prepared, error) {
	base, err := b.catalog.ObjectTemplate(object)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, component, "resolve", fmt.Sprintf("object template %q is not defined in the catalog", object), err)
	}
	if base.Kind != kind {
		return nil, faults.Wrap(faults.ErrConfiguration, component, "resolve",
			fmt.Sprintf("object template %q is a %s template, not a %s template", object, base.Kind, kind), nil)
	}

	resolved := make([]resolvedAttr, 0, len(attrs))
	seen := make(map[string]struct{}, len(attrs))
	for _, attr := range attrs {
		slot, err := b.catalog.Slot(object, attr.Name)
		if err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "resolve",
				fmt.Sprintf("attribute %q is not defined in the catalog", attr.Name), err)
		}
		if !base.Allows(slot.Template.Kind, attr.Name) {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "resolve",
				fmt.Sprintf("template %q has no %s %q", object, slot.Template.Kind, attr.Name), nil)
		}
		name := attr.slotName()
		if _, dup := seen[name]; dup {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "resolve", fmt.Sprintf("attribute %q set twice", name), nil)
		}
		seen[name] = struct{}{}
		if attr.Value == nil {
			continue
		}
		resolved = append(resolved, resolvedAttr{attr: attr, slot: slot})
	}
	for _, check := range checks {
		if _, err := b.catalog.AttributeTemplate(check.Attribute); err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "resolve",
				fmt.Sprintf("attribute %q is not defined in the catalog", check.Attribute), err)
		}
	}

	for _, r := range resolved {
		if c, ok := r.attr.Value.(gemd.NominalCategorical); ok {
			if err := b.validator.Validate(ctx, r.attr.Name, c.Category); err != nil {
				return nil, err
			}
		}
	}
	if err := b.validator.ValidateAll(ctx, checks...); err != nil {
		return nil, err
	}

	slots := make([]gemd.TemplateSlot, 0, len(resolved))
	for i := range resolved {
		if name := resolved[i].attr.slotName(); name != resolved[i].slot.Template.Name {
			resolved[i].slot.Template = resolved[i].slot.Template.Renamed(name)
		}
		slots = append(slots, resolved[i].slot)
	}
	tmpl, err := b.catalog.Scoped(object, b.validator.Registry(), slots...)
	if err != nil {
		return nil, err
	}

	p := &prepared{
		template: tmpl,
		byKind:   make(map[gemd.AttributeKind][]gemd.Attribute),
		measured: make(map[gemd.AttributeKind][]gemd.Attribute),
	}
	for _, r := range resolved {
		attrKind := r.slot.Template.Kind
		slot, _ := tmpl.Slot(attrKind, r.attr.slotName())
		attr := newAttribute(attrKind, slot.Template, withUnits(r.attr.Value, slot.EffectiveBounds()))
		p.byKind[attrKind] = append(p.byKind[attrKind], attr)
		if r.attr.Measured != nil {
			p.measured[attrKind] = append(p.measured[attrKind], attr.Measured(withUnits(r.attr.Measured, slot.EffectiveBounds())))
		}
	}
	return p, nil
}

func newAttribute(kind gemd.AttributeKind, tmpl *gemd.AttributeTemplate, value gemd.Value) gemd.Attribute {
	switch kind {
	case gemd.PropertyKind:
		return gemd.NewProperty(tmpl, value)
	case gemd.ConditionKind:
		return gemd.NewCondition(tmpl, value)
	default:
		return gemd.NewParameter(tmpl, value)
	}
}

// withUnits fills empty units on real values from the default units of
// real bounds.
func withUnits(value gemd.Value, b gemd.Bounds) gemd.Value {
	rb, ok := b.(gemd.RealBounds)
	if !ok || rb.DefaultUnits == "" {
		return value
	}
	switch v := value.(type) {
	case gemd.NominalReal:
		if v.Units == "" {
			v.Units = rb.DefaultUnits
		}
		return v
	case gemd.UniformReal:
		if v.Units == "" {
			v.Units = rb.DefaultUnits
		}
		return v
	case gemd.NormalReal:
		if v.Units == "" {
			v.Units = rb.DefaultUnits
		}
		return v
	}
	return value
}

// register stores objects in the ledger and logs the outcome.
func (b *Builder) register(ctx context.Context, scope string, entityName string, objs ...gemd.Object) error {
	if err := b.ledger.RegisterIn(ctx, scope, objs...); err != nil {
		return err
	}
	logging.WithContext(ctx, b.logger).Info("entity built",
		logging.Entity(entityName),
		logging.Int("specs", len(objs)))
	return nil
}

func required(op, what, name string) error {
	return faults.Wrap(faults.ErrValidation, component, op, fmt.Sprintf("%s needs %s", name, what), nil)
}
