package ephemeris

import "github.com/papapumpkin/retrograde/internal/body"

// Find returns the entry in effect at ts.
//
// An exact timestamp match is returned as is. Otherwise the entry just
// before the insertion point is returned, provided the insertion point is
// neither the start nor the end of the table. Misses are *LookupError
// values wrapping ErrNotFound.
func (t *Table) Find(ts uint64) (Entry, error) {
	n := t.Len()
	if n == 0 {
		return Entry{}, &LookupError{Timestamp: ts, Reason: MissEmpty}
	}

	lo, hi := 0, n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch cur := t.entries[mid].Timestamp; {
		case cur > ts:
			hi = mid
		case cur < ts:
			lo = mid + 1
		default:
			return t.entries[mid], nil
		}
	}

	// hi is now the index of the first entry after ts.
	switch hi {
	case 0:
		return Entry{}, &LookupError{Timestamp: ts, Reason: MissBeforeFirst}
	case n:
		return Entry{}, &LookupError{Timestamp: ts, Reason: MissAfterLast}
	}
	return t.entries[hi-1], nil
}

// Lookup returns the retrograde mask in effect at ts.
func (t *Table) Lookup(ts uint64) (body.Mask, error) {
	e, err := t.Find(ts)
	if err != nil {
		return 0, err
	}
	return e.Flags, nil
}

// Lookup is the function form of (*Table).Lookup.
func Lookup(t *Table, ts uint64) (body.Mask, error) {
	return t.Lookup(ts)
}
