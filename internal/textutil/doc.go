// Package textutil provides the text handling shared by the bounds registry
// and record encoding.
//
// The primary use cases are:
//   - Normalizing categorical values so visually identical strings compare equal
//   - Suggesting the closest registered category for a mistyped value
//   - Sanitizing record names into stable document keys
//
// Fingerprints are term-frequency vectors over case-folded tokens.
package textutil
