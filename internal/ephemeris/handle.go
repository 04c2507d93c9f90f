package ephemeris

import (
	"sync/atomic"

	"github.com/papapumpkin/retrograde/internal/body"
)

// Handle publishes the current table to concurrent readers. Replacement
// tables are built elsewhere and swapped in whole, so readers never observe
// a partially loaded table.
type Handle struct {
	cur atomic.Pointer[Table]
}

// NewHandle returns a handle serving t.
func NewHandle(t *Table) *Handle {
	h := &Handle{}
	h.cur.Store(t)
	return h
}

// Load returns the table currently being served. It never returns nil;
// a handle with nothing stored serves an empty table.
func (h *Handle) Load() *Table {
	if t := h.cur.Load(); t != nil {
		return t
	}
	return &Table{}
}

// Swap publishes t and returns the table it replaced.
func (h *Handle) Swap(t *Table) *Table {
	return h.cur.Swap(t)
}

// Lookup queries the table currently being served.
func (h *Handle) Lookup(ts uint64) (body.Mask, error) {
	return h.Load().Lookup(ts)
}
