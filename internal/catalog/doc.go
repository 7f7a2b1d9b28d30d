// Package catalog holds the attribute and object templates that govern
// notebook records.
//
// The catalog is built in two phases from a YAML document: every attribute
// template first, then object templates that reference attributes by name.
// A catalog is read-only once built. Builders narrow an object template to
// the slots a single call declares through Scoped.
package catalog
