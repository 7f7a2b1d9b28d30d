package gemd

// Origin records how an attribute value was obtained.
type Origin string

const (
	OriginSpecified Origin = "specified"
	OriginMeasured  Origin = "measured"
	OriginPredicted Origin = "predicted"
	OriginSummary   Origin = "summary"
	OriginEstimated Origin = "estimated"
	OriginUnknown   Origin = "unknown"
)

// Attribute is a property, parameter, or condition value on a spec or run.
type Attribute struct {
	Kind     AttributeKind
	Name     string
	Value    Value
	Origin   Origin
	Template *AttributeTemplate
	Notes    string
}

func newAttribute(kind AttributeKind, tmpl *AttributeTemplate, value Value) Attribute {
	attr := Attribute{Kind: kind, Value: value, Origin: OriginSpecified, Template: tmpl}
	if tmpl != nil {
		attr.Name = tmpl.Name
	}
	return attr
}

// NewProperty returns a specified property named after its template.
func NewProperty(tmpl *AttributeTemplate, value Value) Attribute {
	return newAttribute(PropertyKind, tmpl, value)
}

// NewParameter returns a specified parameter named after its template.
func NewParameter(tmpl *AttributeTemplate, value Value) Attribute {
	return newAttribute(ParameterKind, tmpl, value)
}

// NewCondition returns a specified condition named after its template.
func NewCondition(tmpl *AttributeTemplate, value Value) Attribute {
	return newAttribute(ConditionKind, tmpl, value)
}

// Measured returns a copy of a with a new value and the measured origin.
func (a Attribute) Measured(value Value) Attribute {
	a.Value = value
	a.Origin = OriginMeasured
	return a
}

// Clone returns a copy of a whose value shares no mutable state.
func (a Attribute) Clone() Attribute {
	a.Value = CloneValue(a.Value)
	return a
}

func (a Attribute) document() map[string]any {
	doc := map[string]any{
		"type":     string(a.Kind),
		"name":     a.Name,
		"value":    valueDict(a.Value),
		"origin":   string(a.Origin),
		"template": nil,
	}
	if a.Template != nil {
		doc["template"] = LinkTo(a.Template)
	}
	if a.Notes != "" {
		doc["notes"] = a.Notes
	}
	return doc
}

// PropertyAndConditions pairs a material property with the conditions under
// which it holds.
type PropertyAndConditions struct {
	Property   Attribute
	Conditions []Attribute
}

// Clone returns a deep copy of p.
func (p PropertyAndConditions) Clone() PropertyAndConditions {
	return PropertyAndConditions{Property: p.Property.Clone(), Conditions: CloneAttributes(p.Conditions)}
}

func (p PropertyAndConditions) document() map[string]any {
	return map[string]any{
		"type":       "property_and_conditions",
		"property":   p.Property.document(),
		"conditions": attributeDocuments(p.Conditions),
	}
}

// CloneAttributes deep-copies an attribute list.
func CloneAttributes(attrs []Attribute) []Attribute {
	if attrs == nil {
		return nil
	}
	out := make([]Attribute, len(attrs))
	for i, attr := range attrs {
		out[i] = attr.Clone()
	}
	return out
}

func attributeDocuments(attrs []Attribute) []any {
	out := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, attr.document())
	}
	return out
}
