package dataset

import "errors"

// Sentinel errors for table files.
var (
	// ErrBodyOrder indicates a file's body header does not match the fixed
	// bit order, so its masks cannot be interpreted.
	ErrBodyOrder = errors.New("body list does not match fixed bit order")
	// ErrUnknownFormat indicates a path whose extension names no known format.
	ErrUnknownFormat = errors.New("unknown table format")
)
