package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeCategory trims surrounding space, collapses internal runs of
// whitespace, and converts the value to Unicode NFC. Registry lookups and
// writes go through it so composed and decomposed forms are one category.
func NormalizeCategory(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return norm.NFC.String(strings.Join(fields, " "))
}

// Fold returns the case-folded form of value for caseless comparison. A
// Caser holds state, so each call gets its own.
func Fold(value string) string {
	return cases.Fold().String(NormalizeCategory(value))
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
