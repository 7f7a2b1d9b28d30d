// Package reagents holds the reference data for purchased starting
// materials and acid solutions.
package reagents

import (
	_ "embed"
	"fmt"
	"math"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"labbook/internal/faults"
	"labbook/internal/textutil"
)

const component = "reagents"

//go:embed reagents.yaml
var document []byte

// Reagent is a purchased starting material.
type Reagent struct {
	Name         string  `yaml:"name"`
	Manufacturer string  `yaml:"manufacturer"`
	Purity       float64 `yaml:"purity"`
	Form         string  `yaml:"form"`
	Lot          string  `yaml:"lot"`
	CASNumber    string  `yaml:"cas_rn"`
	Notes        string  `yaml:"notes"`
}

// Solution is an acid diluted in water.
type Solution struct {
	Name      string  `yaml:"name"`
	MolarMass float64 `yaml:"molar_mass"`
}

// Table indexes reagents and solutions by name.
type Table struct {
	reagents  map[string]Reagent
	solutions map[string]Solution
}

type tableDoc struct {
	Reagents  []Reagent  `yaml:"reagents"`
	Solutions []Solution `yaml:"solutions"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the table built from the embedded reference document.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(document)
	})
	return defaultTable, defaultErr
}

// Parse builds a table from a YAML document. Names must be unique and
// purities must lie in (0, 100].
func Parse(data []byte) (*Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, component, "parse", "decode reagent table", err)
	}
	t := &Table{
		reagents:  make(map[string]Reagent, len(doc.Reagents)),
		solutions: make(map[string]Solution, len(doc.Solutions)),
	}
	for _, r := range doc.Reagents {
		if r.Name == "" {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "parse", "reagent without a name", nil)
		}
		if r.Purity <= 0 || r.Purity > 100 {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "parse", fmt.Sprintf("reagent %q purity %v out of range", r.Name, r.Purity), nil)
		}
		key := textutil.Fold(r.Name)
		if _, dup := t.reagents[key]; dup {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "parse", fmt.Sprintf("duplicate reagent %q", r.Name), nil)
		}
		t.reagents[key] = r
	}
	for _, s := range doc.Solutions {
		if s.Name == "" || s.MolarMass <= 0 {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "parse", fmt.Sprintf("solution %q needs a positive molar mass", s.Name), nil)
		}
		key := textutil.Fold(s.Name)
		if _, dup := t.solutions[key]; dup {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "parse", fmt.Sprintf("duplicate solution %q", s.Name), nil)
		}
		t.solutions[key] = s
	}
	return t, nil
}

// Reagent looks a reagent up by name, ignoring case.
func (t *Table) Reagent(name string) (Reagent, error) {
	r, ok := t.reagents[textutil.Fold(name)]
	if !ok {
		return Reagent{}, faults.Wrap(faults.ErrNotFound, component, "reagent", fmt.Sprintf("unknown reagent %q", name), nil)
	}
	return r, nil
}

// Solution looks a solution up by name, ignoring case.
func (t *Table) Solution(name string) (Solution, error) {
	s, ok := t.solutions[textutil.Fold(name)]
	if !ok {
		return Solution{}, faults.Wrap(faults.ErrNotFound, component, "solution", fmt.Sprintf("unknown solution %q", name), nil)
	}
	return s, nil
}

// Reagents returns every reagent sorted by name.
func (t *Table) Reagents() []Reagent {
	out := make([]Reagent, 0, len(t.reagents))
	for _, r := range t.reagents {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// WeightPercent converts a molarity in mol/L to weight percent, rounded to
// five decimals. Assumes a density of 1 g/mL.
func (s Solution) WeightPercent(molarity float64) float64 {
	return math.Round(molarity*s.MolarMass/10*1e5) / 1e5
}
