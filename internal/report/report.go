// Package report renders notebook blocks, the bounds registry, and the spec
// ledger as terminal tables.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"labbook/internal/block"
	"labbook/internal/bounds"
	"labbook/internal/entity"
	"labbook/internal/gemd"
	"labbook/internal/ledger"
)

// Block lists the entities of b, one row per entity, with the spec name and
// the nominal attribute values. Ingredient rows show nominal and measured
// quantities.
func Block(b *block.Block) string {
	rows := [][]string{
		{"process", b.Process.Name(), b.Process.Spec().Name, joinAttributes(b.Process.Spec().Parameters, b.Process.Spec().Conditions)},
		{"material", b.Material.Name(), b.Material.Spec().Name, materialProperties(b.Material)},
	}
	for _, ing := range b.Ingredients {
		nominal, measured := ing.Quantities()
		detail := FormatValue(nominal)
		if m := FormatValue(measured); m != "" && m != detail {
			detail += " (measured " + m + ")"
		}
		rows = append(rows, []string{"ingredient", ing.Name(), ing.Spec().Name, detail})
	}
	for _, m := range b.Measurements {
		detail := joinAttributes(m.Spec().Parameters, m.Spec().Conditions)
		if n := len(m.FileLinks()); n > 0 {
			detail += fmt.Sprintf("; %d file(s)", n)
		}
		rows = append(rows, []string{"measurement", m.Name(), m.Spec().Name, detail})
	}
	return b.Name + "\n" + renderTable([]string{"Role", "Entity", "Spec", "Values"}, rows, nil)
}

// Registry lists every registered attribute with its categories.
func Registry(r *bounds.Registry) string {
	snapshot := r.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		cats := snapshot[name]
		rows = append(rows, []string{name, strconv.Itoa(len(cats)), strings.Join(cats, ", ")})
	}
	return renderTable([]string{"Attribute", "Count", "Categories"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
}

// Ledger lists stored spec records.
func Ledger(records []ledger.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.Kind, rec.Name, rec.UID, rec.RegisteredAt.UTC().Format(time.RFC3339)})
	}
	return renderTable([]string{"Kind", "Name", "UID", "Registered"}, rows, nil)
}

func joinAttributes(groups ...[]gemd.Attribute) string {
	var parts []string
	for _, attrs := range groups {
		for _, attr := range attrs {
			parts = append(parts, attr.Name+"="+FormatValue(attr.Value))
		}
	}
	return strings.Join(parts, "; ")
}

func materialProperties(m *entity.Material) string {
	props := m.Spec().Properties
	attrs := make([]gemd.Attribute, 0, len(props))
	for _, p := range props {
		attrs = append(attrs, p.Property)
	}
	return joinAttributes(attrs)
}

// FormatValue renders a value compactly, such as "276.9 mg" or
// "[276.5, 277.5] mg".
func FormatValue(v gemd.Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case gemd.NominalCategorical:
		return val.Category
	case gemd.NominalReal:
		return withUnits(formatFloat(val.Nominal), val.Units)
	case gemd.UniformReal:
		return withUnits("["+formatFloat(val.LowerBound)+", "+formatFloat(val.UpperBound)+"]", val.Units)
	case gemd.NormalReal:
		return withUnits(formatFloat(val.Mean)+" ± "+formatFloat(val.Std), val.Units)
	case gemd.NominalInteger:
		return strconv.Itoa(val.Nominal)
	case gemd.NominalComposition:
		keys := make([]string, 0, len(val.Quantities))
		for k := range val.Quantities {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, val.Quantities[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v.AsDict())
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func withUnits(value, units string) string {
	if units == "" {
		return value
	}
	return value + " " + units
}
