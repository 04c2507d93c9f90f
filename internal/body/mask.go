package body

import (
	"iter"
	"strings"
)

// Mask is a set of bodies, one bit per Body. Bits above Moon are never set
// by Encode and are ignored by Describe.
type Mask uint16

// Full is the mask with every tracked body set.
const Full Mask = 1<<Count - 1

// Encode returns the mask with the bit of each given body set. Invalid
// bodies are skipped.
func Encode(bodies ...Body) Mask {
	var m Mask
	for _, b := range bodies {
		m |= b.Bit()
	}
	return m
}

// Has reports whether b's bit is set in m.
func (m Mask) Has(b Body) bool {
	return b.Valid() && m&b.Bit() != 0
}

// Describe yields the bodies whose bits are set in m, Mercury through Moon.
// The sequence may be ranged over any number of times.
func Describe(m Mask) iter.Seq[Body] {
	return func(yield func(Body) bool) {
		for b := Body(0); b < Count; b++ {
			if m&b.Bit() == 0 {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// Bodies collects Describe(m) into a slice.
func (m Mask) Bodies() []Body {
	var out []Body
	for b := range Describe(m) {
		out = append(out, b)
	}
	return out
}

// Names returns the display names of the bodies set in m.
func (m Mask) Names() []string {
	var out []string
	for b := range Describe(m) {
		out = append(out, b.String())
	}
	return out
}

// String joins the set bodies with ", ", or returns "none".
func (m Mask) String() string {
	n := m.Names()
	if len(n) == 0 {
		return "none"
	}
	return strings.Join(n, ", ")
}
