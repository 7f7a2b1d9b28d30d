package builder

import (
	"context"
	"fmt"

	"labbook/internal/bounds"
	"labbook/internal/entity"
	"labbook/internal/gemd"
	"labbook/internal/textutil"
)

// HeatingStep is one step of a furnace program. Init and End steps use a
// temperature of 0.
type HeatingStep struct {
	Type        string  // Init, Ramp, Hold, or End
	Temperature float64 // degC at the end of a ramp or during a hold
	Duration    float64 // hr
}

// FloatZoneStep is one step of a laser float-zone program.
type FloatZoneStep struct {
	Type     string
	Power    float64 // laser power, %
	Rotation float64 // rpm
	Rate     float64 // translation, mm/hr
	Duration float64 // hr
}

// HeatingRequest describes a multi-step furnace program.
type HeatingRequest struct {
	Name     string
	Location string // defaults to Hot Lab
	Steps    []HeatingStep
	Notes    string
}

// FloatZoneRequest describes a laser float-zone growth.
type FloatZoneRequest struct {
	Name       string
	Atmosphere string
	Location   string // defaults to Laser Floating Zone Furnace
	Steps      []FloatZoneStep
	Notes      string
}

// StepName is the parameter name of the n-th program step, counted from 1.
func StepName(n int) string {
	return fmt.Sprintf("Step %d", n)
}

// Heat builds a heating process with one "Step N" parameter per program
// step, in order.
func (b *Builder) Heat(ctx context.Context, req HeatingRequest) (*entity.Process, error) {
	if len(req.Steps) == 0 {
		return nil, required("heat", "at least one program step", req.Name)
	}
	attrs := make([]Attr, 0, len(req.Steps)+1)
	checks := make([]bounds.Check, 0, len(req.Steps))
	for i, step := range req.Steps {
		stepType := textutil.NormalizeCategory(step.Type)
		checks = append(checks, bounds.Check{Attribute: "Step Type", Value: stepType})
		attrs = append(attrs, Attr{
			Name: "Heating Step",
			As:   StepName(i + 1),
			Value: gemd.NominalComposition{Quantities: map[string]any{
				"Number":   i + 1,
				"Type":     stepType,
				"Temp":     step.Temperature,
				"Duration": step.Duration,
			}},
		})
	}
	attrs = append(attrs, Category("Location", orDefault(req.Location, "Hot Lab")))
	return b.Process(ctx, ProcessRequest{Kind: Heating, Name: req.Name, Attrs: attrs, Checks: checks, Notes: req.Notes})
}

// GrowFloatZone builds a float-zone process with one "Step N" parameter per
// program step, in order.
func (b *Builder) GrowFloatZone(ctx context.Context, req FloatZoneRequest) (*entity.Process, error) {
	if len(req.Steps) == 0 {
		return nil, required("float zone", "at least one program step", req.Name)
	}
	attrs := make([]Attr, 0, len(req.Steps)+2)
	checks := make([]bounds.Check, 0, len(req.Steps))
	for i, step := range req.Steps {
		stepType := textutil.NormalizeCategory(step.Type)
		checks = append(checks, bounds.Check{Attribute: "Step Type", Value: stepType})
		attrs = append(attrs, Attr{
			Name: "Float Zone Step",
			As:   StepName(i + 1),
			Value: gemd.NominalComposition{Quantities: map[string]any{
				"Number":   i + 1,
				"Type":     stepType,
				"Power":    step.Power,
				"Rotation": step.Rotation,
				"Rate":     step.Rate,
				"Duration": step.Duration,
			}},
		})
	}
	attrs = append(attrs,
		Category("Atmosphere", req.Atmosphere),
		Category("Location", orDefault(req.Location, "Laser Floating Zone Furnace")))
	return b.Process(ctx, ProcessRequest{Kind: FloatZone, Name: req.Name, Attrs: attrs, Checks: checks, Notes: req.Notes})
}
