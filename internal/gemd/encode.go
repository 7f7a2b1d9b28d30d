package gemd

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Thin returns the canonical document for obj with every referenced object
// replaced by a link_by_uid document.
func Thin(obj Object) (map[string]any, error) {
	if obj == nil {
		return nil, fmt.Errorf("thin: nil object")
	}
	base := obj.Base()
	doc := map[string]any{
		"type": obj.TypeName(),
		"name": base.Name,
		"uids": base.UIDs.clone(),
	}
	if base.Notes != "" {
		doc["notes"] = base.Notes
	}
	if len(base.Tags) > 0 {
		doc["tags"] = slices.Clone(base.Tags)
	}
	switch o := obj.(type) {
	case *AttributeTemplate:
		doc["bounds"] = boundsDict(o.Bounds)
		doc["description"] = o.Description
	case *ObjectTemplate:
		doc["description"] = o.Description
		if o.Kind == MaterialObject {
			doc["properties"] = slotDocuments(o.Properties)
		} else {
			doc["parameters"] = slotDocuments(o.Parameters)
			doc["conditions"] = slotDocuments(o.Conditions)
		}
	case *ProcessSpec:
		doc["template"] = linkIf(o.Template != nil, o.Template)
		doc["parameters"] = attributeDocuments(o.Parameters)
		doc["conditions"] = attributeDocuments(o.Conditions)
	case *ProcessRun:
		doc["spec"] = linkIf(o.Spec != nil, o.Spec)
		doc["parameters"] = attributeDocuments(o.Parameters)
		doc["conditions"] = attributeDocuments(o.Conditions)
		doc["source"] = sourceDocument(o.Source)
	case *MaterialSpec:
		doc["template"] = linkIf(o.Template != nil, o.Template)
		doc["process"] = linkIf(o.Process != nil, o.Process)
		props := make([]any, 0, len(o.Properties))
		for _, p := range o.Properties {
			props = append(props, p.document())
		}
		doc["properties"] = props
	case *MaterialRun:
		doc["spec"] = linkIf(o.Spec != nil, o.Spec)
		doc["process"] = linkIf(o.Process != nil, o.Process)
		doc["sample_type"] = string(o.SampleType)
	case *IngredientSpec:
		doc["material"] = linkIf(o.Material != nil, o.Material)
		doc["process"] = linkIf(o.Process != nil, o.Process)
		doc["absolute_quantity"] = valueDict(o.AbsoluteQuantity)
		doc["labels"] = slices.Clone(o.Labels)
	case *IngredientRun:
		doc["spec"] = linkIf(o.Spec != nil, o.Spec)
		doc["material"] = linkIf(o.Material != nil, o.Material)
		doc["process"] = linkIf(o.Process != nil, o.Process)
		doc["absolute_quantity"] = valueDict(o.AbsoluteQuantity)
	case *MeasurementSpec:
		doc["template"] = linkIf(o.Template != nil, o.Template)
		doc["parameters"] = attributeDocuments(o.Parameters)
		doc["conditions"] = attributeDocuments(o.Conditions)
		doc["file_links"] = fileLinkDocuments(o.FileLinks)
	case *MeasurementRun:
		doc["spec"] = linkIf(o.Spec != nil, o.Spec)
		doc["material"] = linkIf(o.Material != nil, o.Material)
		doc["parameters"] = attributeDocuments(o.Parameters)
		doc["conditions"] = attributeDocuments(o.Conditions)
		doc["properties"] = attributeDocuments(o.Properties)
		doc["file_links"] = fileLinkDocuments(o.FileLinks)
		doc["source"] = sourceDocument(o.Source)
	default:
		return nil, fmt.Errorf("thin: unsupported object type %T", obj)
	}
	return doc, nil
}

// Marshal encodes the thin document of obj as indented JSON. Keys are
// emitted in sorted order so output is stable across runs.
func Marshal(obj Object) ([]byte, error) {
	doc, err := Thin(obj)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// linkIf keeps typed nil pointers from producing a link document. Absent
// links are an untyped nil so callers can compare against nil.
func linkIf(present bool, obj Object) any {
	if !present {
		return nil
	}
	return LinkTo(obj)
}

func slotDocuments(slots []TemplateSlot) []any {
	out := make([]any, 0, len(slots))
	for _, slot := range slots {
		out = append(out, []any{LinkTo(slot.Template), boundsDict(slot.Bounds)})
	}
	return out
}

func sourceDocument(src *PerformedSource) any {
	if src == nil {
		return nil
	}
	return map[string]any{
		"type":           "performed_source",
		"performed_by":   src.PerformedBy,
		"performed_date": src.PerformedDate,
	}
}

func fileLinkDocuments(links []FileLink) []any {
	out := make([]any, 0, len(links))
	for _, link := range links {
		out = append(out, map[string]any{
			"type":     "file_link",
			"url":      link.URL,
			"filename": link.Filename,
		})
	}
	return out
}
