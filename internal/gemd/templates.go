package gemd

// AttributeKind distinguishes properties, parameters, and conditions.
type AttributeKind string

const (
	PropertyKind  AttributeKind = "property"
	ParameterKind AttributeKind = "parameter"
	ConditionKind AttributeKind = "condition"
)

// Valid reports whether k is one of the known attribute kinds.
func (k AttributeKind) Valid() bool {
	switch k {
	case PropertyKind, ParameterKind, ConditionKind:
		return true
	}
	return false
}

// ObjectKind distinguishes the template categories of specs and runs.
type ObjectKind string

const (
	ProcessObject     ObjectKind = "process"
	MaterialObject    ObjectKind = "material"
	MeasurementObject ObjectKind = "measurement"
)

// Valid reports whether k is one of the known object kinds.
func (k ObjectKind) Valid() bool {
	switch k {
	case ProcessObject, MaterialObject, MeasurementObject:
		return true
	}
	return false
}

// AttributeTemplate defines the name, kind, and bounds of one attribute.
type AttributeTemplate struct {
	Common
	Kind        AttributeKind
	Bounds      Bounds
	Description string
}

// NewAttributeTemplate constructs a template with a fresh UID.
func NewAttributeTemplate(kind AttributeKind, name string, bounds Bounds, description string) *AttributeTemplate {
	return &AttributeTemplate{
		Common:      newCommon(name),
		Kind:        kind,
		Bounds:      bounds,
		Description: description,
	}
}

func (t *AttributeTemplate) TypeName() string { return string(t.Kind) + "_template" }

// Renamed returns a copy of t registered under a different name.
func (t *AttributeTemplate) Renamed(name string) *AttributeTemplate {
	return NewAttributeTemplate(t.Kind, name, t.Bounds, t.Description)
}

// WithBounds returns a copy of t with different bounds.
func (t *AttributeTemplate) WithBounds(bounds Bounds) *AttributeTemplate {
	return NewAttributeTemplate(t.Kind, t.Name, bounds, t.Description)
}

// TemplateSlot attaches an attribute template to an object template, with
// optional narrower bounds.
type TemplateSlot struct {
	Template *AttributeTemplate
	Bounds   Bounds
}

// EffectiveBounds returns the slot bounds, falling back to the template's.
func (s TemplateSlot) EffectiveBounds() Bounds {
	if s.Bounds != nil {
		return s.Bounds
	}
	if s.Template == nil {
		return nil
	}
	return s.Template.Bounds
}

// ObjectTemplate declares the legal attribute surface of a process,
// material, or measurement.
type ObjectTemplate struct {
	Common
	Kind        ObjectKind
	Description string
	Properties  []TemplateSlot
	Parameters  []TemplateSlot
	Conditions  []TemplateSlot
}

// NewObjectTemplate constructs an empty template with a fresh UID.
func NewObjectTemplate(kind ObjectKind, name, description string) *ObjectTemplate {
	return &ObjectTemplate{Common: newCommon(name), Kind: kind, Description: description}
}

func (t *ObjectTemplate) TypeName() string { return string(t.Kind) + "_template" }

// Add appends a slot to the list matching the attribute template's kind.
func (t *ObjectTemplate) Add(slot TemplateSlot) {
	switch slot.Template.Kind {
	case PropertyKind:
		t.Properties = append(t.Properties, slot)
	case ParameterKind:
		t.Parameters = append(t.Parameters, slot)
	case ConditionKind:
		t.Conditions = append(t.Conditions, slot)
	}
}

// Slots returns the slots of the given attribute kind.
func (t *ObjectTemplate) Slots(kind AttributeKind) []TemplateSlot {
	if t == nil {
		return nil
	}
	switch kind {
	case PropertyKind:
		return t.Properties
	case ParameterKind:
		return t.Parameters
	case ConditionKind:
		return t.Conditions
	}
	return nil
}

// Slot looks up a slot by attribute kind and name.
func (t *ObjectTemplate) Slot(kind AttributeKind, name string) (TemplateSlot, bool) {
	for _, slot := range t.Slots(kind) {
		if slot.Template != nil && slot.Template.Name == name {
			return slot, true
		}
	}
	return TemplateSlot{}, false
}

// Allows reports whether the template declares an attribute of kind and name.
// Material templates carry conditions only nested under properties, so a
// condition is allowed on a material when the template declares it.
func (t *ObjectTemplate) Allows(kind AttributeKind, name string) bool {
	_, ok := t.Slot(kind, name)
	return ok
}
