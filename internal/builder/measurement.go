package builder

import (
	"context"
	"fmt"
	"strings"

	"labbook/internal/entity"
	"labbook/internal/gemd"
)

// MeasurementKind names the catalog template and the label used in
// generated names for a kind of measurement.
type MeasurementKind struct {
	Object string
	Label  string
}

var (
	XRD         = MeasurementKind{Object: "X-Ray Diffraction", Label: "XRD"}
	Photo       = MeasurementKind{Object: "Photograph", Label: "Photo"}
	Temperature = MeasurementKind{Object: "Temperature Measurement", Label: "Temperature"}
)

// SpecName is the generated spec name, such as "YVO4 XRD Measurement Spec".
func (k MeasurementKind) SpecName(name string) string {
	return fmt.Sprintf("%s %s Measurement Spec", name, k.Label)
}

// EntityName is the generated entity name, such as "YVO4 XRD Measurement".
func (k MeasurementKind) EntityName(name string) string {
	return fmt.Sprintf("%s %s Measurement", name, k.Label)
}

// MeasurementRequest describes a measurement taken on a material.
type MeasurementRequest struct {
	Kind     MeasurementKind
	Name     string
	Material *entity.Material // nil leaves the measurement unlinked
	Attrs    []Attr
	Files    []gemd.FileLink // raw instrument files, attached to the run
	Notes    string
}

// Measurement builds and registers a measurement entity.
func (b *Builder) Measurement(ctx context.Context, req MeasurementRequest) (*entity.Measurement, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, required("measurement", "a name", req.Kind.Label+" measurement")
	}
	prep, err := b.prepare(ctx, req.Kind.Object, gemd.MeasurementObject, req.Attrs, nil)
	if err != nil {
		return nil, err
	}

	spec := gemd.NewMeasurementSpec(req.Kind.SpecName(req.Name), prep.template)
	spec.Notes = req.Notes
	m, err := entity.NewMeasurement(req.Kind.EntityName(req.Name), prep.template, spec, nil)
	if err != nil {
		return nil, err
	}
	if err := m.UpdateParameters(entity.BothSides, true, prep.byKind[gemd.ParameterKind]...); err != nil {
		return nil, err
	}
	if err := m.UpdateConditions(entity.BothSides, true, prep.byKind[gemd.ConditionKind]...); err != nil {
		return nil, err
	}
	if err := m.UpdateParameters(entity.RunSide, false, prep.measured[gemd.ParameterKind]...); err != nil {
		return nil, err
	}
	if err := m.UpdateConditions(entity.RunSide, false, prep.measured[gemd.ConditionKind]...); err != nil {
		return nil, err
	}
	if err := m.SetSource(b.prov.Email, b.prov.Date); err != nil {
		return nil, err
	}
	for _, f := range req.Files {
		m.AddFileLink(f.URL, f.Filename)
	}
	if req.Material != nil {
		m.SetMaterial(req.Material)
	}
	if err := b.register(ctx, "", m.Name(), spec); err != nil {
		return nil, err
	}
	return m, nil
}

// XRDRequest describes an X-ray diffraction scan.
type XRDRequest struct {
	Name     string
	Material *entity.Material
	Duration float64 // hr
	Range    string  // 2-theta range, such as "5-90"
	Adhesive string
	Location string // defaults to X-Ray Diffraction Panel
	Files    []gemd.FileLink
	Notes    string
}

// XRDScan builds an XRD measurement.
func (b *Builder) XRDScan(ctx context.Context, req XRDRequest) (*entity.Measurement, error) {
	return b.Measurement(ctx, MeasurementRequest{
		Kind:     XRD,
		Name:     req.Name,
		Material: req.Material,
		Attrs: []Attr{
			Real("Duration", req.Duration, ""),
			Category("XRD Range", req.Range),
			Category("XRD Adhesive", req.Adhesive),
			Category("Location", orDefault(req.Location, "X-Ray Diffraction Panel")),
		},
		Files: req.Files,
		Notes: req.Notes,
	})
}

// PhotoRequest describes a photograph of a sample.
type PhotoRequest struct {
	Name      string
	Material  *entity.Material
	Equipment string // defaults to Camera
	Location  string
	Files     []gemd.FileLink
	Notes     string
}

// Photograph builds a photograph measurement.
func (b *Builder) Photograph(ctx context.Context, req PhotoRequest) (*entity.Measurement, error) {
	return b.Measurement(ctx, MeasurementRequest{
		Kind:     Photo,
		Name:     req.Name,
		Material: req.Material,
		Attrs: []Attr{
			Category("Equipment Used", orDefault(req.Equipment, "Camera")),
			Category("Location", req.Location),
		},
		Files: req.Files,
		Notes: req.Notes,
	})
}
