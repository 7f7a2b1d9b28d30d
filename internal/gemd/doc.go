// Package gemd renders the GEMD materials data model used by the notebook:
// attribute and object templates, specs, runs, values, and bounds.
//
// The package is a schema, not a framework. Objects are plain structs linked
// by pointers; a run points at the exact spec it realises, a material points
// at the process that produced it, and an ingredient points at both the
// material it consumes and the process consuming it. Pointer identity is the
// link, so code that repoints a run at a spec must assign the pointer rather
// than copy the struct.
//
// # Encoding
//
// Thin serializes any object to the canonical GEMD document shape. Values are
// always {"type": <kind>, ...fields..., "units": <string>}, attributes are
// {"type", "name", "value", "origin", "template"}, and references to other
// objects are replaced by {"type": "link_by_uid", "scope": "auto", "id": ...}.
package gemd
