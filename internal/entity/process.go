package entity

import (
	"labbook/internal/gemd"
)

// Process wraps a process spec and run.
type Process struct {
	name     string
	template *gemd.ObjectTemplate
	spec     *gemd.ProcessSpec
	run      *gemd.ProcessRun
}

// NewProcess builds a process entity from a spec, a run, or both.
func NewProcess(name string, tmpl *gemd.ObjectTemplate, spec *gemd.ProcessSpec, run *gemd.ProcessRun) (*Process, error) {
	if spec == nil && run == nil {
		return nil, missingSpecAndRun("process")
	}
	if err := checkTemplate(tmpl, gemd.ProcessObject); err != nil {
		return nil, err
	}
	p := &Process{name: name, template: tmpl}
	switch {
	case run == nil:
		spec.Template = tmpl
		p.spec = spec
		p.run = gemd.MakeProcessRun(spec)
	case spec == nil:
		p.run = run
		p.spec = run.Spec
		if p.spec == nil {
			p.spec = gemd.NewProcessSpec(run.Name, tmpl)
			run.Spec = p.spec
		}
	default:
		spec.Template = tmpl
		run.Spec = spec
		p.spec = spec
		p.run = run
	}
	return p, nil
}

// Name returns the entity name.
func (p *Process) Name() string { return p.name }

// Template returns the per-call process template the spec is bound to.
func (p *Process) Template() *gemd.ObjectTemplate { return p.template }

// Spec returns the process spec.
func (p *Process) Spec() *gemd.ProcessSpec { return p.spec }

// Run returns the process run.
func (p *Process) Run() *gemd.ProcessRun { return p.run }

// UpdateParameters adds or replaces parameters on the selected side.
// replaceAll clears existing spec parameters first.
func (p *Process) UpdateParameters(which Side, replaceAll bool, params ...gemd.Attribute) error {
	u := attributeUpdate{template: p.template, kind: gemd.ParameterKind, which: which, replaceAll: replaceAll}
	return u.apply(&p.spec.Parameters, &p.run.Parameters, params)
}

// UpdateConditions adds or replaces conditions on the selected side.
// replaceAll clears existing spec conditions first.
func (p *Process) UpdateConditions(which Side, replaceAll bool, conds ...gemd.Attribute) error {
	u := attributeUpdate{template: p.template, kind: gemd.ConditionKind, which: which, replaceAll: replaceAll}
	return u.apply(&p.spec.Conditions, &p.run.Conditions, conds)
}

// RemoveParameters drops parameters by name. Unknown names are ignored.
func (p *Process) RemoveParameters(which Side, names ...string) {
	removeFrom(which, &p.spec.Parameters, &p.run.Parameters, names)
}

// RemoveConditions drops conditions by name. Unknown names are ignored.
func (p *Process) RemoveConditions(which Side, names ...string) {
	removeFrom(which, &p.spec.Conditions, &p.run.Conditions, names)
}

// Parameters returns the spec and run parameters keyed by name.
func (p *Process) Parameters() map[string]SpecRun {
	return specRunDict(p.spec.Parameters, p.run.Parameters)
}

// Conditions returns the spec and run conditions keyed by name.
func (p *Process) Conditions() map[string]SpecRun {
	return specRunDict(p.spec.Conditions, p.run.Conditions)
}

// SetSource records who performed the run and, optionally, when.
func (p *Process) SetSource(email, isoDate string) error {
	src, err := buildSource(email, isoDate)
	if err != nil {
		return err
	}
	p.run.Source = src
	return nil
}

// Source returns the run source, if one was set.
func (p *Process) Source() (gemd.PerformedSource, bool) {
	return sourceOf(p.run.Source)
}
