package builder

import (
	"context"
	"fmt"
	"strings"

	"labbook/internal/entity"
	"labbook/internal/gemd"
)

// MaterialKind names the catalog template, the label used in generated
// names, and the default form of a kind of material.
type MaterialKind struct {
	Object      string
	Label       string
	DefaultForm string
}

var (
	Chunked    = MaterialKind{Object: "Chunked Material", Label: "Chunked"}
	Ground     = MaterialKind{Object: "Ground Material", Label: "Ground", DefaultForm: "Powder"}
	Heated     = MaterialKind{Object: "Heated Material", Label: "Heated"}
	FloatZoned = MaterialKind{Object: "Float Zoned Material", Label: "Float Zoned", DefaultForm: "Crystal"}
	Pressed    = MaterialKind{Object: "Pressed Material", Label: "Pressed", DefaultForm: "Pellet"}
	Dissolved  = MaterialKind{Object: "Solution Material", Label: "Dissolved", DefaultForm: "Solution"}
	Filtered   = MaterialKind{Object: "Filtered Material", Label: "Filtered"}
	Evacuated  = MaterialKind{Object: "Evacuated Material", Label: "Evacuated"}
	Terminal   = MaterialKind{Object: "Terminal Material", Label: "Terminal"}
	Raw        = MaterialKind{Object: "Raw Material", Label: "Raw"}
)

// SpecName is the generated spec name, such as "YVO4 Ground Material Spec".
func (k MaterialKind) SpecName(name string) string {
	return fmt.Sprintf("%s %s Material Spec", name, k.Label)
}

// EntityName is the generated entity name, such as "YVO4 Ground Material".
func (k MaterialKind) EntityName(name string) string {
	return fmt.Sprintf("%s %s Material", name, k.Label)
}

// MaterialRequest describes the material produced by a process.
type MaterialRequest struct {
	Kind    MaterialKind
	Name    string
	Process *entity.Process // nil leaves the material unlinked
	Form    string          // defaults to the kind's default form
	Attrs   []Attr          // further properties
	Notes   string
}

// Material builds and registers a material entity. The run is an
// experimental sample produced by the process run.
func (b *Builder) Material(ctx context.Context, req MaterialRequest) (*entity.Material, error) {
	m, err := b.buildMaterial(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := b.register(ctx, "", m.Name(), m.Spec()); err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Builder) buildMaterial(ctx context.Context, req MaterialRequest) (*entity.Material, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, required("material", "a name", req.Kind.Label+" material")
	}
	form := orDefault(req.Form, req.Kind.DefaultForm)
	if form == "" {
		return nil, required("material", "a form", req.Kind.EntityName(req.Name))
	}
	attrs := append([]Attr{Category("Form", form)}, req.Attrs...)
	prep, err := b.prepare(ctx, req.Kind.Object, gemd.MaterialObject, attrs, nil)
	if err != nil {
		return nil, err
	}

	spec := gemd.NewMaterialSpec(req.Kind.SpecName(req.Name), prep.template, nil)
	spec.Notes = req.Notes
	m, err := entity.NewMaterial(req.Kind.EntityName(req.Name), prep.template, spec, nil)
	if err != nil {
		return nil, err
	}
	props := make([]gemd.PropertyAndConditions, 0, len(prep.byKind[gemd.PropertyKind]))
	for _, prop := range prep.byKind[gemd.PropertyKind] {
		props = append(props, gemd.PropertyAndConditions{Property: prop})
	}
	if err := m.UpdatePropertiesAndConditions(true, props...); err != nil {
		return nil, err
	}
	if err := m.SetSampleType(gemd.SampleExperimental); err != nil {
		return nil, err
	}
	if req.Process != nil {
		m.SetProcess(req.Process)
	}
	return m, nil
}

// RawMaterialRequest describes a purchased material.
type RawMaterialRequest struct {
	Name   string
	Form   string
	Purity float64 // %
	Notes  string
}

func (r RawMaterialRequest) material(process *entity.Process) MaterialRequest {
	return MaterialRequest{
		Kind:    Raw,
		Name:    r.Name,
		Process: process,
		Form:    r.Form,
		Attrs:   []Attr{Real("Purity Percentage", r.Purity, "")},
		Notes:   r.Notes,
	}
}

// RawMaterial builds a purchased material with its form and purity.
func (b *Builder) RawMaterial(ctx context.Context, req RawMaterialRequest) (*entity.Material, error) {
	return b.Material(ctx, req.material(nil))
}
