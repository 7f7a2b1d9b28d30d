package builder

import (
	"context"

	"labbook/internal/block"
	"labbook/internal/reagents"
)

// AcquisitionRequest describes a purchased material and where it came from.
type AcquisitionRequest struct {
	Name         string
	Manufacturer string
	LotID        string
	CASNumber    string
	Form         string
	Purity       float64
	Notes        string
}

// AcquisitionBlockName is the generated block name for an acquired material.
func AcquisitionBlockName(name string) string {
	return name + " Acquisition Block"
}

// Acquire builds the purchasing process and the raw material it produced,
// registers both specs together, and returns them linked as one block.
func (b *Builder) Acquire(ctx context.Context, req AcquisitionRequest) (*block.Block, error) {
	purchase := PurchasingRequest{
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		LotID:        req.LotID,
		CASNumber:    req.CASNumber,
		Notes:        req.Notes,
	}
	process, err := b.buildProcess(ctx, purchase.process())
	if err != nil {
		return nil, err
	}
	raw := RawMaterialRequest{Name: req.Name, Form: req.Form, Purity: req.Purity}
	material, err := b.buildMaterial(ctx, raw.material(process))
	if err != nil {
		return nil, err
	}

	blk, err := block.New(AcquisitionBlockName(req.Name), process, material, nil, nil)
	if err != nil {
		return nil, err
	}
	blk.LinkWithin()
	if err := b.register(ctx, "", blk.Name, process.Spec(), material.Spec()); err != nil {
		return nil, err
	}
	return blk, nil
}

// AcquireReagent builds the acquisition block of a reagent from the
// reference table.
func (b *Builder) AcquireReagent(ctx context.Context, r reagents.Reagent) (*block.Block, error) {
	return b.Acquire(ctx, AcquisitionRequest{
		Name:         r.Name,
		Manufacturer: r.Manufacturer,
		LotID:        r.Lot,
		CASNumber:    r.CASNumber,
		Form:         r.Form,
		Purity:       r.Purity,
		Notes:        r.Notes,
	})
}
