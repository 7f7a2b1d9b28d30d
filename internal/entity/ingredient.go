package entity

import (
	"labbook/internal/gemd"
)

// Ingredient records that a process consumed a material. The spec carries
// the nominal quantity and the run the measured one.
type Ingredient struct {
	name string
	spec *gemd.IngredientSpec
	run  *gemd.IngredientRun
}

// NewIngredient builds an ingredient entity from a spec, a run, or both.
// Ingredients have no object template.
func NewIngredient(name string, spec *gemd.IngredientSpec, run *gemd.IngredientRun) (*Ingredient, error) {
	if spec == nil && run == nil {
		return nil, missingSpecAndRun("ingredient")
	}
	i := &Ingredient{name: name}
	switch {
	case run == nil:
		i.spec = spec
		i.run = gemd.MakeIngredientRun(spec)
	case spec == nil:
		i.run = run
		i.spec = run.Spec
		if i.spec == nil {
			i.spec = gemd.NewIngredientSpec(run.Name, nil, nil, nil)
			run.Spec = i.spec
		}
	default:
		run.Spec = spec
		i.spec = spec
		i.run = run
	}
	return i, nil
}

// Name returns the entity name.
func (i *Ingredient) Name() string { return i.name }

// Spec returns the ingredient spec.
func (i *Ingredient) Spec() *gemd.IngredientSpec { return i.spec }

// Run returns the ingredient run.
func (i *Ingredient) Run() *gemd.IngredientRun { return i.run }

// SetMaterial points the spec and run at the consumed material.
func (i *Ingredient) SetMaterial(material *Material) {
	if material == nil {
		i.spec.Material = nil
		i.run.Material = nil
		return
	}
	i.spec.Material = material.Spec()
	i.run.Material = material.Run()
}

// SetProcess points the spec and run at the consuming process.
func (i *Ingredient) SetProcess(process *Process) {
	if process == nil {
		i.spec.Process = nil
		i.run.Process = nil
		return
	}
	i.spec.Process = process.Spec()
	i.run.Process = process.Run()
}

// SetMeasuredQuantity replaces the run quantity, typically with a range
// around the nominal mass.
func (i *Ingredient) SetMeasuredQuantity(quantity gemd.Value) {
	i.run.AbsoluteQuantity = quantity
}

// Quantities returns the nominal and measured quantities.
func (i *Ingredient) Quantities() (spec, run gemd.Value) {
	return i.spec.AbsoluteQuantity, i.run.AbsoluteQuantity
}
