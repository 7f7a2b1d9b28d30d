package entity

import (
	"fmt"

	"labbook/internal/faults"
	"labbook/internal/gemd"
)

const component = "entity"

// Side selects the spec, the run, or both when updating or removing
// attributes.
type Side int

const (
	SpecSide Side = iota + 1
	RunSide
	BothSides
)

func (s Side) spec() bool { return s == SpecSide || s == BothSides }

func (s Side) run() bool { return s == RunSide || s == BothSides }

func (s Side) String() string {
	switch s {
	case SpecSide:
		return "spec"
	case RunSide:
		return "run"
	case BothSides:
		return "both"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// ValueOrigin is the encoded value of an attribute together with its origin.
type ValueOrigin struct {
	Value  map[string]any
	Origin gemd.Origin
}

// SpecRun holds the spec-side and run-side entries for one attribute name.
// A side without the attribute is nil.
type SpecRun struct {
	Spec *ValueOrigin
	Run  *ValueOrigin
}

func valueOrigin(attr gemd.Attribute) *ValueOrigin {
	vo := &ValueOrigin{Origin: attr.Origin}
	if attr.Value != nil {
		vo.Value = attr.Value.AsDict()
	}
	return vo
}

// checkAttributes verifies every item against the template before anything
// is mutated. Items without a template are bound to the slot template.
func checkAttributes(tmpl *gemd.ObjectTemplate, kind gemd.AttributeKind, items []gemd.Attribute) ([]gemd.Attribute, error) {
	checked := make([]gemd.Attribute, 0, len(items))
	for _, item := range items {
		if item.Kind != kind {
			return nil, faults.Wrap(faults.ErrValidation, component, "update",
				fmt.Sprintf("%q is a %s, not a %s", item.Name, item.Kind, kind), nil)
		}
		slot, ok := tmpl.Slot(kind, item.Name)
		if !ok {
			return nil, faults.Wrap(faults.ErrValidation, component, "update",
				fmt.Sprintf("%s %q is not supported by template %q", kind, item.Name, templateName(tmpl)), nil)
		}
		if !gemd.WithinBounds(slot.EffectiveBounds(), item.Value) {
			return nil, faults.Wrap(faults.ErrValidation, component, "update",
				fmt.Sprintf("value of %s %q is outside its bounds", kind, item.Name), nil)
		}
		if item.Template == nil {
			item.Template = slot.Template
		}
		checked = append(checked, item)
	}
	return checked, nil
}

// mergeAttributes replaces entries with matching names in place and appends
// the rest. Later items win over earlier ones with the same name.
func mergeAttributes(dst []gemd.Attribute, items []gemd.Attribute) []gemd.Attribute {
	for _, item := range items {
		replaced := false
		for i := range dst {
			if dst[i].Name == item.Name {
				dst[i] = item.Clone()
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, item.Clone())
		}
	}
	return dst
}

func removeAttributes(attrs []gemd.Attribute, names []string) []gemd.Attribute {
	if len(attrs) == 0 || len(names) == 0 {
		return attrs
	}
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}
	kept := attrs[:0]
	for _, attr := range attrs {
		if _, ok := drop[attr.Name]; !ok {
			kept = append(kept, attr)
		}
	}
	return kept
}

// attributeUpdate applies checked items to the selected sides. replaceAll
// clears the spec side, and only when the spec side is selected.
type attributeUpdate struct {
	template   *gemd.ObjectTemplate
	kind       gemd.AttributeKind
	which      Side
	replaceAll bool
}

func (u attributeUpdate) apply(spec, run *[]gemd.Attribute, items []gemd.Attribute) error {
	if u.which < SpecSide || u.which > BothSides {
		return faults.Wrap(faults.ErrValidation, component, "update", fmt.Sprintf("unknown side %d", int(u.which)), nil)
	}
	checked, err := checkAttributes(u.template, u.kind, items)
	if err != nil {
		return err
	}
	if u.which.spec() {
		if u.replaceAll {
			*spec = nil
		}
		*spec = mergeAttributes(*spec, checked)
	}
	if u.which.run() && run != nil {
		*run = mergeAttributes(*run, checked)
	}
	return nil
}

func removeFrom(which Side, spec, run *[]gemd.Attribute, names []string) {
	if which.spec() {
		*spec = removeAttributes(*spec, names)
	}
	if which.run() && run != nil {
		*run = removeAttributes(*run, names)
	}
}

func specRunDict(spec, run []gemd.Attribute) map[string]SpecRun {
	out := make(map[string]SpecRun, len(spec)+len(run))
	for _, attr := range spec {
		out[attr.Name] = SpecRun{Spec: valueOrigin(attr)}
	}
	for _, attr := range run {
		entry := out[attr.Name]
		entry.Run = valueOrigin(attr)
		out[attr.Name] = entry
	}
	return out
}

func templateName(tmpl *gemd.ObjectTemplate) string {
	if tmpl == nil {
		return ""
	}
	return tmpl.Name
}

func checkTemplate(tmpl *gemd.ObjectTemplate, kind gemd.ObjectKind) error {
	if tmpl == nil {
		return faults.Wrap(faults.ErrConstruction, component, "new", fmt.Sprintf("%s entity needs a template", kind), nil)
	}
	if tmpl.Kind != kind {
		return faults.Wrap(faults.ErrConstruction, component, "new",
			fmt.Sprintf("template %q is a %s template, not a %s template", tmpl.Name, tmpl.Kind, kind), nil)
	}
	return nil
}

func missingSpecAndRun(kind string) error {
	return faults.Wrap(faults.ErrConstruction, component, "new", fmt.Sprintf("%s needs a spec or a run", kind), nil)
}
