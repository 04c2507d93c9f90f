// Package ephemeris answers point queries against a precomputed,
// time-ordered table of retrograde states.
//
// Each entry marks the moment a new combination of retrograde bodies takes
// effect; it holds until the next entry. A query resolves to the latest
// entry at or before it, but only while a later entry still bounds it: a
// timestamp past the final entry is reported as not found rather than
// extrapolated.
package ephemeris

import (
	"iter"
	"time"

	"github.com/papapumpkin/retrograde/internal/body"
)

// Entry is the set of bodies retrograde from Timestamp (Unix seconds, UTC)
// until the next entry.
type Entry struct {
	Timestamp uint64
	Flags     body.Mask
}

// Time returns Timestamp as a UTC time.
func (e Entry) Time() time.Time {
	return time.Unix(int64(e.Timestamp), 0).UTC()
}

// Table is an immutable, strictly ascending sequence of entries. The zero
// value is an empty table.
type Table struct {
	entries []Entry
}

// New validates entries and returns a table owning a copy of them.
// Timestamps must be strictly increasing and masks may only use the nine
// tracked bits.
func New(entries []Entry) (*Table, error) {
	for i, e := range entries {
		if e.Flags&^body.Full != 0 {
			return nil, &EntryError{Index: i, Err: ErrMaskOverflow}
		}
		if i > 0 && e.Timestamp <= entries[i-1].Timestamp {
			return nil, &EntryError{Index: i, Err: ErrUnsorted}
		}
	}
	owned := make([]Entry, len(entries))
	copy(owned, entries)
	return &Table{entries: owned}, nil
}

// MustNew is like New but panics on invalid entries. It is meant for
// package-level fixtures.
func MustNew(entries []Entry) *Table {
	t, err := New(entries)
	if err != nil {
		panic("ephemeris: " + err.Error())
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// At returns the entry at index i. It panics if i is out of range.
func (t *Table) At(i int) Entry {
	return t.entries[i]
}

// Entries yields the entries in ascending timestamp order.
func (t *Table) Entries() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		if t == nil {
			return
		}
		for i, e := range t.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Span returns the first and last timestamps. ok is false for an empty
// table.
func (t *Table) Span() (first, last uint64, ok bool) {
	if t.Len() == 0 {
		return 0, 0, false
	}
	return t.entries[0].Timestamp, t.entries[len(t.entries)-1].Timestamp, true
}
