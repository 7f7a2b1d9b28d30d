// Package faults defines the error kinds shared by the notebook builders.
//
// Every failure surfaced by the catalog, bounds registry, entity layer, and
// builders wraps exactly one of the exported sentinels so callers can branch
// with errors.Is. Configuration errors mean the catalog and the code disagree
// and are not recoverable by retrying with other input. Validation errors are
// recoverable: the notebook author fixes the value and reruns the entry.
// Construction errors indicate a programming mistake in how entities were
// assembled.
package faults
