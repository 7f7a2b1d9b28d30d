// Package entity pairs a spec with its run under a single object template.
//
// Process, Material, Ingredient, and Measurement are built through their
// New functions, which accept a spec, a run, or both. A spec alone yields a
// default run mirroring its nominal values. A run alone reuses the spec it
// references. Supplying both re-parents the run onto the spec and binds the
// spec to the entity template, so later linking can rely on pointer
// identity between specs and runs.
//
// Attribute updates are checked against the entity template: the attribute
// kind and name must be declared by a slot and the value must fall inside
// the slot bounds. Removals of names that are not present are no-ops.
package entity
