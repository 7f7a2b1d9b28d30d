// Package ledger keeps the specs built during a session, keyed by their
// generated names.
//
// A Ledger sits on a Repository: MemoryRepository for throwaway sessions
// and SQLiteRepository when specs should outlive the process. Every
// registered object is stored as its thin JSON document. Generated names
// repeat whenever a notebook entry is rerun, so the ledger applies an
// explicit DuplicatePolicy instead of letting the latest build win
// silently.
//
// Schema changes bump schemaVersion in sqlite.go; users delete the
// database to adopt the new schema.
package ledger
