// Package dataset loads and writes retrograde tables: the embedded default
// table, TOML files, SQLite databases and plain SQL scripts.
package dataset

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

//go:embed data/retrogrades.toml
var defaultTOML []byte

var defaultTable = sync.OnceValues(func() (*ephemeris.Table, error) {
	return DecodeTOML(bytes.NewReader(defaultTOML))
})

// Default returns the table compiled into the binary. It is parsed once and
// shared; callers must not expect a fresh copy.
func Default() (*ephemeris.Table, error) {
	return defaultTable()
}
