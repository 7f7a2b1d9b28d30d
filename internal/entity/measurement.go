package entity

import (
	"labbook/internal/gemd"
)

// Measurement wraps a measurement spec and run.
type Measurement struct {
	name     string
	template *gemd.ObjectTemplate
	spec     *gemd.MeasurementSpec
	run      *gemd.MeasurementRun
}

// NewMeasurement builds a measurement entity from a spec, a run, or both.
func NewMeasurement(name string, tmpl *gemd.ObjectTemplate, spec *gemd.MeasurementSpec, run *gemd.MeasurementRun) (*Measurement, error) {
	if spec == nil && run == nil {
		return nil, missingSpecAndRun("measurement")
	}
	if err := checkTemplate(tmpl, gemd.MeasurementObject); err != nil {
		return nil, err
	}
	m := &Measurement{name: name, template: tmpl}
	switch {
	case run == nil:
		spec.Template = tmpl
		m.spec = spec
		m.run = gemd.MakeMeasurementRun(spec)
	case spec == nil:
		m.run = run
		m.spec = run.Spec
		if m.spec == nil {
			m.spec = gemd.NewMeasurementSpec(run.Name, tmpl)
			run.Spec = m.spec
		}
	default:
		spec.Template = tmpl
		run.Spec = spec
		m.spec = spec
		m.run = run
	}
	return m, nil
}

// Name returns the entity name.
func (m *Measurement) Name() string { return m.name }

// Template returns the per-call measurement template the spec is bound to.
func (m *Measurement) Template() *gemd.ObjectTemplate { return m.template }

// Spec returns the measurement spec.
func (m *Measurement) Spec() *gemd.MeasurementSpec { return m.spec }

// Run returns the measurement run.
func (m *Measurement) Run() *gemd.MeasurementRun { return m.run }

// UpdateParameters adds or replaces parameters on the selected side.
// replaceAll clears existing spec parameters first.
func (m *Measurement) UpdateParameters(which Side, replaceAll bool, params ...gemd.Attribute) error {
	u := attributeUpdate{template: m.template, kind: gemd.ParameterKind, which: which, replaceAll: replaceAll}
	return u.apply(&m.spec.Parameters, &m.run.Parameters, params)
}

// UpdateConditions adds or replaces conditions on the selected side.
// replaceAll clears existing spec conditions first.
func (m *Measurement) UpdateConditions(which Side, replaceAll bool, conds ...gemd.Attribute) error {
	u := attributeUpdate{template: m.template, kind: gemd.ConditionKind, which: which, replaceAll: replaceAll}
	return u.apply(&m.spec.Conditions, &m.run.Conditions, conds)
}

// RemoveParameters drops parameters by name. Unknown names are ignored.
func (m *Measurement) RemoveParameters(which Side, names ...string) {
	removeFrom(which, &m.spec.Parameters, &m.run.Parameters, names)
}

// RemoveConditions drops conditions by name. Unknown names are ignored.
func (m *Measurement) RemoveConditions(which Side, names ...string) {
	removeFrom(which, &m.spec.Conditions, &m.run.Conditions, names)
}

// Parameters returns the spec and run parameters keyed by name.
func (m *Measurement) Parameters() map[string]SpecRun {
	return specRunDict(m.spec.Parameters, m.run.Parameters)
}

// Conditions returns the spec and run conditions keyed by name.
func (m *Measurement) Conditions() map[string]SpecRun {
	return specRunDict(m.spec.Conditions, m.run.Conditions)
}

// SetMaterial records the material run the measurement was taken on.
func (m *Measurement) SetMaterial(material *Material) {
	if material == nil {
		m.run.Material = nil
		return
	}
	m.run.Material = material.Run()
}

// AddFileLink attaches a raw instrument file to the run. The file is only
// referenced.
func (m *Measurement) AddFileLink(url, filename string) {
	m.run.FileLinks = append(m.run.FileLinks, gemd.FileLink{URL: url, Filename: filename})
}

// FileLinks returns a copy of the run file links.
func (m *Measurement) FileLinks() []gemd.FileLink {
	return append([]gemd.FileLink(nil), m.run.FileLinks...)
}

// SetSource records who performed the run and, optionally, when.
func (m *Measurement) SetSource(email, isoDate string) error {
	src, err := buildSource(email, isoDate)
	if err != nil {
		return err
	}
	m.run.Source = src
	return nil
}

// Source returns the run source, if one was set.
func (m *Measurement) Source() (gemd.PerformedSource, bool) {
	return sourceOf(m.run.Source)
}
