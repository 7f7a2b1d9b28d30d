// Package bounds owns the persisted whitelist of categorical attribute values
// and the validator that consults it.
//
// A Registry is loaded once per session from a JSON document shaped as
// {"BOUNDS": {"<attribute>": {"categories": [...]}}}. Additions are appended
// in order and the whole document is rewritten after each one, under a file
// lock so concurrent sessions merge rather than clobber each other. The
// Validator resolves attributes through the template catalog and defers
// unknown values to an injected UnknownValuePolicy.
package bounds
