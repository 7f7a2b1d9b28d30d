// Package notebook opens a data-entry session: it loads the template
// catalog and the bounds registry, picks the unknown-value policy, opens the
// spec ledger, and hands out a builder stamped with the entry provenance.
package notebook
