// Package body defines the closed set of celestial bodies tracked for
// retrograde motion and the bitmask that encodes which of them are
// retrograde at a given moment.
package body

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBody indicates a name that does not match any tracked body.
var ErrUnknownBody = errors.New("unknown celestial body")

// Body identifies a celestial body by its bit position in a Mask.
type Body uint8

// Bit positions are fixed; data files depend on them.
const (
	Mercury Body = iota
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Moon
)

// Count is the number of tracked bodies.
const Count = 9

var names = [Count]string{
	"Mercury", "Venus", "Mars", "Jupiter", "Saturn",
	"Uranus", "Neptune", "Pluto", "Moon",
}

// All returns every body in ascending bit order.
func All() []Body {
	out := make([]Body, Count)
	for i := range out {
		out[i] = Body(i)
	}
	return out
}

// String returns the body's display name.
func (b Body) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Body(%d)", uint8(b))
	}
	return names[b]
}

// Valid reports whether b is one of the nine tracked bodies.
func (b Body) Valid() bool {
	return b < Count
}

// Bit returns the single-bit mask for b, or 0 if b is not valid.
func (b Body) Bit() Mask {
	if !b.Valid() {
		return 0
	}
	return 1 << b
}

// Parse resolves a body name, ignoring case and surrounding whitespace.
func Parse(name string) (Body, error) {
	n := strings.TrimSpace(name)
	for i, candidate := range names {
		if strings.EqualFold(candidate, n) {
			return Body(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}
