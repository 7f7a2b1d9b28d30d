package gemd

import "slices"

// Bounds constrains the values an attribute template accepts. A nil Bounds
// is unbounded.
type Bounds interface {
	BoundsType() string
	Contains(Value) bool
	AsDict() map[string]any
}

// CategoricalBounds accepts a fixed set of categories.
type CategoricalBounds struct {
	Categories []string
}

func (b CategoricalBounds) BoundsType() string { return "categorical_bounds" }

func (b CategoricalBounds) Contains(v Value) bool {
	cat, ok := v.(NominalCategorical)
	return ok && slices.Contains(b.Categories, cat.Category)
}

func (b CategoricalBounds) AsDict() map[string]any {
	return map[string]any{"type": b.BoundsType(), "categories": slices.Clone(b.Categories)}
}

// RealBounds accepts real values inside an inclusive range. Units are not
// converted; the default units document what callers are expected to use.
type RealBounds struct {
	Lower        float64
	Upper        float64
	DefaultUnits string
}

func (b RealBounds) BoundsType() string { return "real_bounds" }

func (b RealBounds) Contains(v Value) bool {
	switch val := v.(type) {
	case NominalReal:
		return b.within(val.Nominal)
	case UniformReal:
		return b.within(val.LowerBound) && b.within(val.UpperBound)
	case NormalReal:
		return b.within(val.Mean)
	default:
		return false
	}
}

func (b RealBounds) within(x float64) bool {
	return x >= b.Lower && x <= b.Upper
}

func (b RealBounds) AsDict() map[string]any {
	return map[string]any{
		"type":          b.BoundsType(),
		"lower_bound":   b.Lower,
		"upper_bound":   b.Upper,
		"default_units": b.DefaultUnits,
	}
}

// IntegerBounds accepts integers inside an inclusive range.
type IntegerBounds struct {
	Lower int
	Upper int
}

func (b IntegerBounds) BoundsType() string { return "integer_bounds" }

func (b IntegerBounds) Contains(v Value) bool {
	val, ok := v.(NominalInteger)
	return ok && val.Nominal >= b.Lower && val.Nominal <= b.Upper
}

func (b IntegerBounds) AsDict() map[string]any {
	return map[string]any{"type": b.BoundsType(), "lower_bound": b.Lower, "upper_bound": b.Upper}
}

// CompositionBounds accepts compositions whose keys are all listed components.
type CompositionBounds struct {
	Components []string
}

func (b CompositionBounds) BoundsType() string { return "composition_bounds" }

func (b CompositionBounds) Contains(v Value) bool {
	val, ok := v.(NominalComposition)
	if !ok {
		return false
	}
	for key := range val.Quantities {
		if !slices.Contains(b.Components, key) {
			return false
		}
	}
	return true
}

func (b CompositionBounds) AsDict() map[string]any {
	return map[string]any{"type": b.BoundsType(), "components": slices.Clone(b.Components)}
}

// WithinBounds reports whether v satisfies b. Nil bounds and nil values
// always pass.
func WithinBounds(b Bounds, v Value) bool {
	if b == nil || v == nil {
		return true
	}
	return b.Contains(v)
}

// IsCategorical reports whether b restricts values to named categories.
func IsCategorical(b Bounds) bool {
	_, ok := b.(CategoricalBounds)
	return ok
}

func boundsDict(b Bounds) map[string]any {
	if b == nil {
		return nil
	}
	return b.AsDict()
}
