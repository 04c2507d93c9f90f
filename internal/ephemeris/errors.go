package ephemeris

import (
	"errors"
	"fmt"
)

// Sentinel errors for table construction and lookup.
var (
	// ErrNotFound indicates the query timestamp falls outside the span the
	// table can answer for.
	ErrNotFound = errors.New("retrograde data not found")
	// ErrUnsorted indicates entries are not strictly increasing by timestamp.
	ErrUnsorted = errors.New("entries not strictly increasing by timestamp")
	// ErrMaskOverflow indicates an entry sets bits outside the tracked bodies.
	ErrMaskOverflow = errors.New("mask sets bits beyond tracked bodies")
)

// MissReason classifies why a lookup produced no result.
type MissReason int

const (
	// MissEmpty means the table has no entries.
	MissEmpty MissReason = iota
	// MissBeforeFirst means the query predates the first entry.
	MissBeforeFirst
	// MissAfterLast means the query is strictly after the last entry.
	MissAfterLast
)

// String returns a short description of the reason.
func (r MissReason) String() string {
	switch r {
	case MissEmpty:
		return "empty table"
	case MissBeforeFirst:
		return "before first entry"
	case MissAfterLast:
		return "after last entry"
	default:
		return fmt.Sprintf("MissReason(%d)", int(r))
	}
}

// LookupError records a failed lookup. It unwraps to ErrNotFound.
type LookupError struct {
	Timestamp uint64
	Reason    MissReason
}

// Error returns a human-readable description of the miss.
func (e *LookupError) Error() string {
	return fmt.Sprintf("%d: %s (%s)", e.Timestamp, ErrNotFound, e.Reason)
}

// Unwrap returns ErrNotFound for use with errors.Is.
func (e *LookupError) Unwrap() error {
	return ErrNotFound
}

// EntryError records a data-contract violation at a specific table index.
type EntryError struct {
	Index int
	Err   error
}

// Error returns the violation with its index.
func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *EntryError) Unwrap() error {
	return e.Err
}
