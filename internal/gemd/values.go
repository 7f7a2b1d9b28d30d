package gemd

import (
	"encoding/json"
	"maps"
)

// Value is an attribute value or ingredient quantity.
type Value interface {
	ValueType() string
	AsDict() map[string]any
}

// NominalReal is a real number without uncertainty.
type NominalReal struct {
	Nominal float64
	Units   string
}

func (v NominalReal) ValueType() string { return "nominal_real" }

func (v NominalReal) AsDict() map[string]any {
	return map[string]any{"type": v.ValueType(), "nominal": v.Nominal, "units": v.Units}
}

func (v NominalReal) MarshalJSON() ([]byte, error) { return json.Marshal(v.AsDict()) }

// UniformReal is a real number uniformly distributed between two bounds.
type UniformReal struct {
	LowerBound float64
	UpperBound float64
	Units      string
}

func (v UniformReal) ValueType() string { return "uniform_real" }

func (v UniformReal) AsDict() map[string]any {
	return map[string]any{
		"type":        v.ValueType(),
		"lower_bound": v.LowerBound,
		"upper_bound": v.UpperBound,
		"units":       v.Units,
	}
}

func (v UniformReal) MarshalJSON() ([]byte, error) { return json.Marshal(v.AsDict()) }

// UniformAround returns a uniform range of +/- halfWidth around center.
func UniformAround(center, halfWidth float64, units string) UniformReal {
	return UniformReal{LowerBound: center - halfWidth, UpperBound: center + halfWidth, Units: units}
}

// NormalReal is a normally distributed real number.
type NormalReal struct {
	Mean  float64
	Std   float64
	Units string
}

func (v NormalReal) ValueType() string { return "normal_real" }

func (v NormalReal) AsDict() map[string]any {
	return map[string]any{"type": v.ValueType(), "mean": v.Mean, "std": v.Std, "units": v.Units}
}

func (v NormalReal) MarshalJSON() ([]byte, error) { return json.Marshal(v.AsDict()) }

// NominalInteger is an integer without uncertainty.
type NominalInteger struct {
	Nominal int
}

func (v NominalInteger) ValueType() string { return "nominal_integer" }

func (v NominalInteger) AsDict() map[string]any {
	return map[string]any{"type": v.ValueType(), "nominal": v.Nominal}
}

func (v NominalInteger) MarshalJSON() ([]byte, error) { return json.Marshal(v.AsDict()) }

// NominalCategorical is a single category.
type NominalCategorical struct {
	Category string
}

func (v NominalCategorical) ValueType() string { return "nominal_categorical" }

func (v NominalCategorical) AsDict() map[string]any {
	return map[string]any{"type": v.ValueType(), "category": v.Category}
}

func (v NominalCategorical) MarshalJSON() ([]byte, error) { return json.Marshal(v.AsDict()) }

// NominalComposition is a keyed record of quantities. Heating and float-zone
// programs store one step per composition, so quantities may hold the step
// type string alongside numeric entries.
type NominalComposition struct {
	Quantities map[string]any
}

func (v NominalComposition) ValueType() string { return "nominal_composition" }

func (v NominalComposition) AsDict() map[string]any {
	return map[string]any{"type": v.ValueType(), "quantities": maps.Clone(v.Quantities)}
}

func (v NominalComposition) MarshalJSON() ([]byte, error) { return json.Marshal(v.AsDict()) }

// CloneValue returns a copy of v that shares no mutable state with it.
func CloneValue(v Value) Value {
	if c, ok := v.(NominalComposition); ok {
		return NominalComposition{Quantities: maps.Clone(c.Quantities)}
	}
	return v
}

func valueDict(v Value) map[string]any {
	if v == nil {
		return nil
	}
	return v.AsDict()
}
