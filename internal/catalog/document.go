package catalog

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"labbook/internal/gemd"
)

type document struct {
	Attributes []attributeDoc `yaml:"attributes"`
	Objects    []objectDoc    `yaml:"objects"`
}

type attributeDoc struct {
	Name        string     `yaml:"name"`
	Kind        string     `yaml:"kind"`
	Description string     `yaml:"description"`
	Bounds      *boundsDoc `yaml:"bounds"`
}

type objectDoc struct {
	Name        string    `yaml:"name"`
	Kind        string    `yaml:"kind"`
	Description string    `yaml:"description"`
	Properties  []slotDoc `yaml:"properties"`
	Parameters  []slotDoc `yaml:"parameters"`
	Conditions  []slotDoc `yaml:"conditions"`
}

type boundsDoc struct {
	Type       string   `yaml:"type"`
	Categories []string `yaml:"categories"`
	Components []string `yaml:"components"`
	Lower      *float64 `yaml:"lower"`
	Upper      *float64 `yaml:"upper"`
	Units      string   `yaml:"units"`
}

// slotDoc is written either as a bare attribute name or as a mapping with
// narrowed bounds.
type slotDoc struct {
	Name   string     `yaml:"name"`
	Bounds *boundsDoc `yaml:"bounds"`
}

func (s *slotDoc) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		return n.Decode(&s.Name)
	}
	type plain slotDoc
	var out plain
	if err := n.Decode(&out); err != nil {
		return fmt.Errorf("slot at line %d: %w", n.Line, err)
	}
	*s = slotDoc(out)
	return nil
}

func (b *boundsDoc) build() (gemd.Bounds, error) {
	if b == nil {
		return nil, nil
	}
	switch b.Type {
	case "categorical":
		return gemd.CategoricalBounds{Categories: append([]string(nil), b.Categories...)}, nil
	case "real":
		if b.Lower == nil || b.Upper == nil {
			return nil, errors.New("real bounds need lower and upper")
		}
		if *b.Lower > *b.Upper {
			return nil, fmt.Errorf("real bounds lower %v exceeds upper %v", *b.Lower, *b.Upper)
		}
		return gemd.RealBounds{Lower: *b.Lower, Upper: *b.Upper, DefaultUnits: b.Units}, nil
	case "integer":
		if b.Lower == nil || b.Upper == nil {
			return nil, errors.New("integer bounds need lower and upper")
		}
		return gemd.IntegerBounds{Lower: int(*b.Lower), Upper: int(*b.Upper)}, nil
	case "composition":
		if len(b.Components) == 0 {
			return nil, errors.New("composition bounds need components")
		}
		return gemd.CompositionBounds{Components: append([]string(nil), b.Components...)}, nil
	case "", "unbounded":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown bounds type %q", b.Type)
	}
}
