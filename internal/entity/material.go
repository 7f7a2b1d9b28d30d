package entity

import (
	"fmt"

	"labbook/internal/faults"
	"labbook/internal/gemd"
)

// PropertyEntry is the encoded form of one material property and the
// conditions it was stated under.
type PropertyEntry struct {
	Property   ValueOrigin
	Conditions map[string]ValueOrigin
}

// Material wraps a material spec and run.
type Material struct {
	name     string
	template *gemd.ObjectTemplate
	spec     *gemd.MaterialSpec
	run      *gemd.MaterialRun
}

// NewMaterial builds a material entity from a spec, a run, or both.
func NewMaterial(name string, tmpl *gemd.ObjectTemplate, spec *gemd.MaterialSpec, run *gemd.MaterialRun) (*Material, error) {
	if spec == nil && run == nil {
		return nil, missingSpecAndRun("material")
	}
	if err := checkTemplate(tmpl, gemd.MaterialObject); err != nil {
		return nil, err
	}
	m := &Material{name: name, template: tmpl}
	switch {
	case run == nil:
		spec.Template = tmpl
		m.spec = spec
		m.run = gemd.MakeMaterialRun(spec)
	case spec == nil:
		m.run = run
		m.spec = run.Spec
		if m.spec == nil {
			m.spec = gemd.NewMaterialSpec(run.Name, tmpl, nil)
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
func (m *Material) Name() string { return m.name }

// Template returns the per-call material template the spec is bound to.
func (m *Material) Template() *gemd.ObjectTemplate { return m.template }

// Spec returns the material spec.
func (m *Material) Spec() *gemd.MaterialSpec { return m.spec }

// Run returns the material run.
func (m *Material) Run() *gemd.MaterialRun { return m.run }

// SetProcess points the spec and run at the producing process. A nil
// process clears both.
func (m *Material) SetProcess(process *Process) {
	if process == nil {
		m.spec.Process = nil
		m.run.Process = nil
		return
	}
	m.spec.Process = process.Spec()
	m.run.Process = process.Run()
}

// ProcessNames returns the names of the spec and run processes.
func (m *Material) ProcessNames() (spec, run string) {
	if m.spec.Process != nil {
		spec = m.spec.Process.Name
	}
	if m.run.Process != nil {
		run = m.run.Process.Name
	}
	return spec, run
}

// SampleType returns the sample type recorded on the run.
func (m *Material) SampleType() gemd.SampleType { return m.run.SampleType }

// SetSampleType records the run sample type. Unknown types are rejected.
func (m *Material) SetSampleType(st gemd.SampleType) error {
	if !st.Valid() {
		return faults.Wrap(faults.ErrValidation, component, "sample type", fmt.Sprintf("unknown sample type %q", st), nil)
	}
	m.run.SampleType = st
	return nil
}

// UpdatePropertiesAndConditions adds or replaces spec properties by name.
// replaceAll clears existing properties first.
func (m *Material) UpdatePropertiesAndConditions(replaceAll bool, props ...gemd.PropertyAndConditions) error {
	attrs := make([]gemd.Attribute, len(props))
	for i, prop := range props {
		attrs[i] = prop.Property
	}
	checked, err := checkAttributes(m.template, gemd.PropertyKind, attrs)
	if err != nil {
		return err
	}
	if replaceAll {
		m.spec.Properties = nil
	}
	for i, prop := range props {
		prop = prop.Clone()
		prop.Property = checked[i]
		m.spec.Properties = mergeProperty(m.spec.Properties, prop)
	}
	return nil
}

func mergeProperty(dst []gemd.PropertyAndConditions, prop gemd.PropertyAndConditions) []gemd.PropertyAndConditions {
	for i := range dst {
		if dst[i].Property.Name == prop.Property.Name {
			dst[i] = prop
			return dst
		}
	}
	return append(dst, prop)
}

// RemoveProperties drops spec properties by name. Unknown names are ignored.
func (m *Material) RemoveProperties(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}
	kept := m.spec.Properties[:0]
	for _, prop := range m.spec.Properties {
		if _, ok := drop[prop.Property.Name]; !ok {
			kept = append(kept, prop)
		}
	}
	m.spec.Properties = kept
}

// PropertiesAndConditions returns the spec properties keyed by name.
func (m *Material) PropertiesAndConditions() map[string]PropertyEntry {
	out := make(map[string]PropertyEntry, len(m.spec.Properties))
	for _, prop := range m.spec.Properties {
		conds := make(map[string]ValueOrigin, len(prop.Conditions))
		for _, cond := range prop.Conditions {
			conds[cond.Name] = *valueOrigin(cond)
		}
		out[prop.Property.Name] = PropertyEntry{Property: *valueOrigin(prop.Property), Conditions: conds}
	}
	return out
}
