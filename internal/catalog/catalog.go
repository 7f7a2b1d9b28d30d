package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"labbook/internal/faults"
	"labbook/internal/gemd"
)

//go:embed catalog.yaml
var defaultDocument []byte

const component = "catalog"

// Catalog maps semantic names to attribute and object templates.
type Catalog struct {
	attributes map[string]*gemd.AttributeTemplate
	attrOrder  []string
	objects    map[string]*gemd.ObjectTemplate
	objOrder   []string
}

// CategorySource supplies the currently registered categories of an
// attribute. The bounds registry implements it.
type CategorySource interface {
	Categories(attribute string) ([]string, bool)
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultDocument)
})

// Default returns the shared catalog built from the embedded document.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Parse builds a catalog from a YAML document. Attribute templates are built
// before object templates, so an object may reference any attribute in the
// document regardless of order; a reference to an undefined attribute, a
// duplicate name, or a slot listed under the wrong kind is a configuration
// error.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, component, "parse", "decode catalog document", err)
	}

	c := &Catalog{
		attributes: make(map[string]*gemd.AttributeTemplate, len(doc.Attributes)),
		objects:    make(map[string]*gemd.ObjectTemplate, len(doc.Objects)),
	}
	for _, attr := range doc.Attributes {
		if err := c.addAttribute(attr); err != nil {
			return nil, err
		}
	}
	for _, obj := range doc.Objects {
		if err := c.addObject(obj); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) addAttribute(doc attributeDoc) error {
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		return faults.Wrap(faults.ErrConfiguration, component, "attribute", "attribute template without a name", nil)
	}
	if _, exists := c.attributes[name]; exists {
		return faults.Wrap(faults.ErrConfiguration, component, "attribute", fmt.Sprintf("duplicate attribute template %q", name), nil)
	}
	kind := gemd.AttributeKind(doc.Kind)
	if !kind.Valid() {
		return faults.Wrap(faults.ErrConfiguration, component, "attribute", fmt.Sprintf("attribute %q has unknown kind %q", name, doc.Kind), nil)
	}
	bounds, err := doc.Bounds.build()
	if err != nil {
		return faults.Wrap(faults.ErrConfiguration, component, "attribute", fmt.Sprintf("attribute %q", name), err)
	}
	c.attributes[name] = gemd.NewAttributeTemplate(kind, name, bounds, strings.TrimSpace(doc.Description))
	c.attrOrder = append(c.attrOrder, name)
	return nil
}

func (c *Catalog) addObject(doc objectDoc) error {
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		return faults.Wrap(faults.ErrConfiguration, component, "object", "object template without a name", nil)
	}
	if _, exists := c.objects[name]; exists {
		return faults.Wrap(faults.ErrConfiguration, component, "object", fmt.Sprintf("duplicate object template %q", name), nil)
	}
	kind := gemd.ObjectKind(doc.Kind)
	if !kind.Valid() {
		return faults.Wrap(faults.ErrConfiguration, component, "object", fmt.Sprintf("object %q has unknown kind %q", name, doc.Kind), nil)
	}
	if kind == gemd.MaterialObject && (len(doc.Parameters) > 0 || len(doc.Conditions) > 0) {
		return faults.Wrap(faults.ErrConfiguration, component, "object", fmt.Sprintf("material template %q may only declare properties", name), nil)
	}
	if kind == gemd.ProcessObject && len(doc.Properties) > 0 {
		return faults.Wrap(faults.ErrConfiguration, component, "object", fmt.Sprintf("process template %q may not declare properties", name), nil)
	}

	tmpl := gemd.NewObjectTemplate(kind, name, strings.TrimSpace(doc.Description))
	groups := []struct {
		kind  gemd.AttributeKind
		slots []slotDoc
	}{
		{gemd.PropertyKind, doc.Properties},
		{gemd.ParameterKind, doc.Parameters},
		{gemd.ConditionKind, doc.Conditions},
	}
	for _, group := range groups {
		for _, slot := range group.slots {
			resolved, err := c.resolveSlot(name, group.kind, slot)
			if err != nil {
				return err
			}
			tmpl.Add(resolved)
		}
	}
	c.objects[name] = tmpl
	c.objOrder = append(c.objOrder, name)
	return nil
}

func (c *Catalog) resolveSlot(object string, kind gemd.AttributeKind, doc slotDoc) (gemd.TemplateSlot, error) {
	attrName := strings.TrimSpace(doc.Name)
	attr, ok := c.attributes[attrName]
	if !ok {
		return gemd.TemplateSlot{}, faults.Wrap(faults.ErrConfiguration, component, "object",
			fmt.Sprintf("object %q references undefined attribute %q", object, attrName), nil)
	}
	if attr.Kind != kind {
		return gemd.TemplateSlot{}, faults.Wrap(faults.ErrConfiguration, component, "object",
			fmt.Sprintf("object %q lists %s %q as a %s", object, attr.Kind, attrName, kind), nil)
	}
	bounds, err := doc.Bounds.build()
	if err != nil {
		return gemd.TemplateSlot{}, faults.Wrap(faults.ErrConfiguration, component, "object",
			fmt.Sprintf("object %q slot %q", object, attrName), err)
	}
	return gemd.TemplateSlot{Template: attr, Bounds: bounds}, nil
}

// AttributeTemplate returns the attribute template registered under name.
func (c *Catalog) AttributeTemplate(name string) (*gemd.AttributeTemplate, error) {
	attr, ok := c.attributes[name]
	if !ok {
		return nil, faults.Wrap(faults.ErrNotFound, component, "lookup", fmt.Sprintf("attribute template %q", name), nil)
	}
	return attr, nil
}

// ObjectTemplate returns the object template registered under name.
func (c *Catalog) ObjectTemplate(name string) (*gemd.ObjectTemplate, error) {
	obj, ok := c.objects[name]
	if !ok {
		return nil, faults.Wrap(faults.ErrNotFound, component, "lookup", fmt.Sprintf("object template %q", name), nil)
	}
	return obj, nil
}

// Attributes returns every attribute template in document order.
func (c *Catalog) Attributes() []*gemd.AttributeTemplate {
	out := make([]*gemd.AttributeTemplate, 0, len(c.attrOrder))
	for _, name := range c.attrOrder {
		out = append(out, c.attributes[name])
	}
	return out
}

// Objects returns every object template in document order.
func (c *Catalog) Objects() []*gemd.ObjectTemplate {
	out := make([]*gemd.ObjectTemplate, 0, len(c.objOrder))
	for _, name := range c.objOrder {
		out = append(out, c.objects[name])
	}
	return out
}

// Categorical returns the attribute templates bounded by categories.
func (c *Catalog) Categorical() []*gemd.AttributeTemplate {
	var out []*gemd.AttributeTemplate
	for _, attr := range c.Attributes() {
		if gemd.IsCategorical(attr.Bounds) {
			out = append(out, attr)
		}
	}
	return out
}

// Slot resolves an attribute name into a template slot, carrying the narrowed
// bounds the named object template declares for it when it has any.
func (c *Catalog) Slot(object, attribute string) (gemd.TemplateSlot, error) {
	attr, err := c.AttributeTemplate(attribute)
	if err != nil {
		return gemd.TemplateSlot{}, err
	}
	if obj, ok := c.objects[object]; ok {
		if declared, ok := obj.Slot(attr.Kind, attribute); ok {
			return declared, nil
		}
	}
	return gemd.TemplateSlot{Template: attr}, nil
}

// Scoped builds the template for a single builder call: the kind and
// description of the named object template with exactly the given slots.
// Categorical slots take their categories from source so the template
// reflects every value registered so far.
func (c *Catalog) Scoped(object string, source CategorySource, slots ...gemd.TemplateSlot) (*gemd.ObjectTemplate, error) {
	base, err := c.ObjectTemplate(object)
	if err != nil {
		return nil, err
	}
	scoped := gemd.NewObjectTemplate(base.Kind, base.Name, base.Description)
	for _, slot := range slots {
		if slot.Template == nil {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "scope", fmt.Sprintf("object %q has a slot without a template", object), nil)
		}
		if base.Kind == gemd.MaterialObject && slot.Template.Kind != gemd.PropertyKind {
			return nil, faults.Wrap(faults.ErrConfiguration, component, "scope",
				fmt.Sprintf("material template %q cannot hold %s %q", object, slot.Template.Kind, slot.Template.Name), nil)
		}
		if source != nil && gemd.IsCategorical(slot.EffectiveBounds()) {
			if categories, ok := source.Categories(slot.Template.Name); ok {
				slot.Bounds = gemd.CategoricalBounds{Categories: slices.Clone(categories)}
			}
		}
		scoped.Add(slot)
	}
	return scoped, nil
}
