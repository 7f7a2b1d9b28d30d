package builder

import (
	"context"
	"fmt"
	"strings"

	"labbook/internal/bounds"
	"labbook/internal/entity"
	"labbook/internal/gemd"
)

// ProcessKind names the catalog template and the label used in generated
// names for a kind of process.
type ProcessKind struct {
	Object string
	Label  string
}

var (
	Grinding   = ProcessKind{Object: "Grinding Material", Label: "Grinding"}
	Heating    = ProcessKind{Object: "Heating Material", Label: "Heating"}
	FloatZone  = ProcessKind{Object: "Float Zoning Material", Label: "Float Zone"}
	Dissolving = ProcessKind{Object: "Dissolving Material", Label: "Dissolving"}
	Pressing   = ProcessKind{Object: "Pressing Material", Label: "Pressing"}
	Filtering  = ProcessKind{Object: "Filter Solution", Label: "Filtering"}
	Evacuating = ProcessKind{Object: "Evacuating Material", Label: "Evacuating"}
	Purchasing = ProcessKind{Object: "Purchasing Raw Material", Label: "Purchasing"}
)

// SpecName is the generated spec name, such as "Grinding YVO4 Spec".
func (k ProcessKind) SpecName(name string) string {
	return fmt.Sprintf("%s %s Spec", k.Label, name)
}

// EntityName is the generated entity name, such as "YVO4 Grinding Process".
func (k ProcessKind) EntityName(name string) string {
	if k == Purchasing {
		return name + " Acquisition Process"
	}
	return fmt.Sprintf("%s %s Process", name, k.Label)
}

// ProcessRequest describes one process built from a catalog template.
type ProcessRequest struct {
	Kind   ProcessKind
	Name   string
	Attrs  []Attr
	Checks []bounds.Check
	Notes  string
}

// Process builds and registers a process entity. Spec and run carry one
// attribute per requested value; the run copies nominal values unless a
// measured value is given.
func (b *Builder) Process(ctx context.Context, req ProcessRequest) (*entity.Process, error) {
	p, err := b.buildProcess(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := b.register(ctx, "", p.Name(), p.Spec()); err != nil {
		return nil, err
	}
	return p, nil
}

func (b *Builder) buildProcess(ctx context.Context, req ProcessRequest) (*entity.Process, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, required("process", "a name", req.Kind.Label+" process")
	}
	prep, err := b.prepare(ctx, req.Kind.Object, gemd.ProcessObject, req.Attrs, req.Checks)
	if err != nil {
		return nil, err
	}

	spec := gemd.NewProcessSpec(req.Kind.SpecName(req.Name), prep.template)
	spec.Notes = req.Notes
	p, err := entity.NewProcess(req.Kind.EntityName(req.Name), prep.template, spec, nil)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateParameters(entity.BothSides, true, prep.byKind[gemd.ParameterKind]...); err != nil {
		return nil, err
	}
	if err := p.UpdateConditions(entity.BothSides, true, prep.byKind[gemd.ConditionKind]...); err != nil {
		return nil, err
	}
	if err := p.UpdateParameters(entity.RunSide, false, prep.measured[gemd.ParameterKind]...); err != nil {
		return nil, err
	}
	if err := p.UpdateConditions(entity.RunSide, false, prep.measured[gemd.ConditionKind]...); err != nil {
		return nil, err
	}
	if err := p.SetSource(b.prov.Email, b.prov.Date); err != nil {
		return nil, err
	}
	return p, nil
}

// GrindingRequest describes grinding a material into a powder.
type GrindingRequest struct {
	Name      string
	Location  string
	Equipment string // defaults to Mortar and Pestle
	Notes     string
}

// Grind builds a grinding process.
func (b *Builder) Grind(ctx context.Context, req GrindingRequest) (*entity.Process, error) {
	return b.Process(ctx, ProcessRequest{
		Kind: Grinding,
		Name: req.Name,
		Attrs: []Attr{
			Category("Equipment Used", orDefault(req.Equipment, "Mortar and Pestle")),
			Category("Location", req.Location),
		},
		Notes: req.Notes,
	})
}

// DissolvingRequest describes dissolving a material into a solution.
type DissolvingRequest struct {
	Name      string
	Location  string
	Equipment string
	Notes     string
}

// Dissolve builds a dissolving process.
func (b *Builder) Dissolve(ctx context.Context, req DissolvingRequest) (*entity.Process, error) {
	return b.Process(ctx, ProcessRequest{
		Kind: Dissolving,
		Name: req.Name,
		Attrs: []Attr{
			Category("Equipment Used", req.Equipment),
			Category("Location", req.Location),
		},
		Notes: req.Notes,
	})
}

// PressingRequest describes pressing a material into a rod or pellet.
type PressingRequest struct {
	Name      string
	Location  string
	Equipment string
	Pressure  float64 // MPa
	Duration  float64 // hr
	Notes     string
}

// Press builds a pressing process.
func (b *Builder) Press(ctx context.Context, req PressingRequest) (*entity.Process, error) {
	return b.Process(ctx, ProcessRequest{
		Kind: Pressing,
		Name: req.Name,
		Attrs: []Attr{
			Category("Equipment Used", req.Equipment),
			Real("Duration", req.Duration, ""),
			Real("Pressure", req.Pressure, ""),
			Category("Location", req.Location),
		},
		Notes: req.Notes,
	})
}

// FilteringRequest describes filtering a solid out of a solution.
type FilteringRequest struct {
	Name      string
	Location  string // defaults to Wet Lab
	Equipment string // defaults to Vacuum Filter
	Solvent   string // optional
	Notes     string
}

// Filter builds a filtering process.
func (b *Builder) Filter(ctx context.Context, req FilteringRequest) (*entity.Process, error) {
	return b.Process(ctx, ProcessRequest{
		Kind: Filtering,
		Name: req.Name,
		Attrs: []Attr{
			Category("Equipment Used", orDefault(req.Equipment, "Vacuum Filter")),
			Category("Solvent", req.Solvent),
			Category("Location", orDefault(req.Location, "Wet Lab")),
		},
		Notes: req.Notes,
	})
}

// EvacuatingRequest describes holding a material under vacuum.
type EvacuatingRequest struct {
	Name      string
	Location  string
	Equipment string // defaults to Vacuum Pump
	Duration  float64
	Notes     string
}

// Evacuate builds an evacuating process.
func (b *Builder) Evacuate(ctx context.Context, req EvacuatingRequest) (*entity.Process, error) {
	return b.Process(ctx, ProcessRequest{
		Kind: Evacuating,
		Name: req.Name,
		Attrs: []Attr{
			Category("Equipment Used", orDefault(req.Equipment, "Vacuum Pump")),
			Real("Duration", req.Duration, ""),
			Category("Location", req.Location),
		},
		Notes: req.Notes,
	})
}

// PurchasingRequest describes buying a raw material.
type PurchasingRequest struct {
	Name         string
	Manufacturer string
	LotID        string
	CASNumber    string // optional
	Notes        string
}

func (r PurchasingRequest) process() ProcessRequest {
	return ProcessRequest{
		Kind: Purchasing,
		Name: r.Name,
		Attrs: []Attr{
			Category("Manufacturer", r.Manufacturer),
			Category("Lot ID", r.LotID),
			Category("CAS RN", r.CASNumber),
		},
		Notes: r.Notes,
	}
}

// Purchase builds a purchasing process.
func (b *Builder) Purchase(ctx context.Context, req PurchasingRequest) (*entity.Process, error) {
	return b.Process(ctx, req.process())
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
