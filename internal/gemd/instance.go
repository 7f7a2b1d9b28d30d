package gemd

import "slices"

// MakeProcessRun builds the default run of spec: same name and notes, a copy
// of every nominal attribute value, and Spec pointing at spec itself.
func MakeProcessRun(spec *ProcessSpec) *ProcessRun {
	run := NewProcessRun(spec.Name, spec)
	run.Notes = spec.Notes
	run.Tags = slices.Clone(spec.Tags)
	run.Parameters = CloneAttributes(spec.Parameters)
	run.Conditions = CloneAttributes(spec.Conditions)
	return run
}

// MakeMaterialRun builds the default run of spec. The producing process run
// is not instantiated; callers attach it.
func MakeMaterialRun(spec *MaterialSpec) *MaterialRun {
	run := NewMaterialRun(spec.Name, spec, nil)
	run.Notes = spec.Notes
	run.Tags = slices.Clone(spec.Tags)
	return run
}

// MakeIngredientRun builds the default run of spec, copying the nominal
// quantity.
func MakeIngredientRun(spec *IngredientSpec) *IngredientRun {
	run := NewIngredientRun(spec.Name, spec)
	run.Notes = spec.Notes
	run.Tags = slices.Clone(spec.Tags)
	run.AbsoluteQuantity = CloneValue(spec.AbsoluteQuantity)
	return run
}

// MakeMeasurementRun builds the default run of spec.
func MakeMeasurementRun(spec *MeasurementSpec) *MeasurementRun {
	run := NewMeasurementRun(spec.Name, spec)
	run.Notes = spec.Notes
	run.Tags = slices.Clone(spec.Tags)
	run.Parameters = CloneAttributes(spec.Parameters)
	run.Conditions = CloneAttributes(spec.Conditions)
	run.FileLinks = slices.Clone(spec.FileLinks)
	return run
}
