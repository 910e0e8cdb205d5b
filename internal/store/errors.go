package store

import "fmt"

// The four failure classes of the state layer. Every failure is terminal for
// that attempt; there is no retry machinery anywhere in this package.

// PersistenceError is a failed create, update, or delete of a core record.
// The operation is safely retryable: no local state was mutated.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// AssociationError is a failed person-association replace after the core
// project record was already persisted. The save cycle continues past it, so
// server state may be partially updated until the next refresh.
type AssociationError struct {
	ProjectID int64
	Err       error
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("updating person associations for project %d: %v", e.ProjectID, e.Err)
}

func (e *AssociationError) Unwrap() error { return e.Err }

// FlushError is one or more failed pending-result creations. The draft
// session is cleared regardless, so failed drafts must be re-entered.
type FlushError struct {
	Failed int
	Total  int
	Err    error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("could not save one of the results (%d of %d failed): %v", e.Failed, e.Total, e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }

// FetchError is a failed list or read. The mirrored list keeps its
// last-known value.
type FetchError struct {
	Kind string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
