// Package config loads, normalizes, and validates labbook configuration.
//
// It defines the TOML schema (bounds registry location, unknown-value policy,
// ledger backend, notebook keeper defaults, logging), supplies repository
// defaults, expands user paths, and renders the embedded sample config.
// Callers obtain a ready-to-use *Config via Load and never mutate the shared
// defaults directly.
package config
