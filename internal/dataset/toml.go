package dataset

import (
	"fmt"
	"io"
	"slices"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/retrograde/internal/body"
	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

// tomlFile is the on-disk layout of a TOML table.
type tomlFile struct {
	Bodies  []string    `toml:"bodies" comment:"Bit order of the body flags; must not be changed."`
	Entries []tomlEntry `toml:"entry"`
}

type tomlEntry struct {
	Timestamp uint64   `toml:"ts"`
	Date      string   `toml:"date,omitempty"`
	Bodies    []string `toml:"bodies"`
}

// DecodeTOML reads a TOML table and validates it into an ephemeris.Table.
// The date field of each entry is informational and is not checked.
func DecodeTOML(r io.Reader) (*ephemeris.Table, error) {
	var f tomlFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("dataset: parse toml: %w", err)
	}

	if len(f.Bodies) > 0 && !slices.Equal(f.Bodies, bodyNames()) {
		return nil, fmt.Errorf("dataset: %w: got %v", ErrBodyOrder, f.Bodies)
	}

	entries := make([]ephemeris.Entry, 0, len(f.Entries))
	for i, te := range f.Entries {
		var m body.Mask
		for _, name := range te.Bodies {
			b, err := body.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("dataset: entry %d: %w", i, err)
			}
			m |= b.Bit()
		}
		entries = append(entries, ephemeris.Entry{Timestamp: te.Timestamp, Flags: m})
	}

	tbl, err := ephemeris.New(entries)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return tbl, nil
}

// EncodeTOML writes tbl in the layout DecodeTOML reads.
func EncodeTOML(w io.Writer, tbl *ephemeris.Table) error {
	f := tomlFile{
		Bodies:  bodyNames(),
		Entries: make([]tomlEntry, 0, tbl.Len()),
	}
	for _, e := range tbl.Entries() {
		names := e.Flags.Names()
		if names == nil {
			names = []string{}
		}
		f.Entries = append(f.Entries, tomlEntry{
			Timestamp: e.Timestamp,
			Date:      e.Time().Format(time.DateOnly),
			Bodies:    names,
		})
	}

	enc := toml.NewEncoder(w)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("dataset: encode toml: %w", err)
	}
	return nil
}

func bodyNames() []string {
	all := body.All()
	out := make([]string, len(all))
	for i, b := range all {
		out[i] = b.String()
	}
	return out
}
