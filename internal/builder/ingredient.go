package builder

import (
	"context"
	"fmt"
	"strings"

	"labbook/internal/entity"
	"labbook/internal/faults"
	"labbook/internal/gemd"
)

// IngredientRequest describes a material consumed by a process.
type IngredientRequest struct {
	Name     string
	Material *entity.Material
	Process  *entity.Process
	Quantity gemd.Value // nominal absolute quantity
	Measured gemd.Value // weighed quantity; nil copies Quantity
	Notes    string
}

// Ingredient builds an ingredient linking material to process and
// registers its spec under the process spec name, so the same reagent may
// feed several processes.
func (b *Builder) Ingredient(ctx context.Context, req IngredientRequest) (*entity.Ingredient, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, required("ingredient", "a name", "ingredient")
	}
	if req.Material == nil || req.Process == nil {
		return nil, faults.Wrap(faults.ErrConstruction, component, "ingredient",
			fmt.Sprintf("ingredient %q needs a material and a process", req.Name), nil)
	}
	if req.Quantity == nil {
		return nil, required("ingredient", "a quantity", req.Name+" Ingredient")
	}

	spec := gemd.NewIngredientSpec(req.Name+" Ingredient Spec", req.Material.Spec(), req.Process.Spec(), req.Quantity)
	spec.Labels = []string{req.Name}
	spec.Notes = req.Notes
	ing, err := entity.NewIngredient(req.Name+" Ingredient", spec, nil)
	if err != nil {
		return nil, err
	}
	ing.SetMaterial(req.Material)
	ing.SetProcess(req.Process)
	if req.Measured != nil {
		ing.SetMeasuredQuantity(req.Measured)
	}
	if err := b.register(ctx, req.Process.Spec().Name, ing.Name(), spec); err != nil {
		return nil, err
	}
	return ing, nil
}

// WeighedMass returns a nominal mass and the measured range around it.
// precision is the half width of the balance reading.
func WeighedMass(nominal, precision float64, units string) (gemd.NominalReal, gemd.UniformReal) {
	return gemd.NominalReal{Nominal: nominal, Units: units}, gemd.UniformAround(nominal, precision, units)
}
