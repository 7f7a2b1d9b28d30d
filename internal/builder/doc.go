// Package builder assembles validated specs, runs, and entities for each
// step of a synthesis notebook entry.
//
// Every builder call resolves the attributes it uses in the template
// catalog, validates every categorical value against the bounds registry,
// and only then constructs the spec, its run, and the wrapping entity. The
// spec is registered in the ledger last, so a failed call leaves nothing
// behind. The object template attached to each spec is scoped to the
// attributes that call actually set.
package builder
