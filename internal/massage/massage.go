// Package massage turns a daily retrograde feed into table entries.
//
// The feed is a JSON document of the form
//
//	{"dates": {"2022-01-01": {"Mercury": false, "Venus": true, ...}, ...}}
//
// listed in ascending date order. Each date stands for midnight UTC.
// Consecutive days with the same state collapse into a single entry, so
// the resulting table only records the days on which something changed.
package massage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/papapumpkin/retrograde/internal/body"
	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

// Sentinel errors for feed parsing.
var (
	// ErrNoDates indicates the feed has no "dates" object.
	ErrNoDates = errors.New("feed has no dates")
	// ErrIncompleteRow indicates a day that does not list the same bodies
	// as the first day.
	ErrIncompleteRow = errors.New("row does not list the same bodies as the first row")
)

// Row is the retrograde state of a single day.
type Row struct {
	Date  time.Time
	Flags body.Mask
}

// Timestamp returns the row's date as Unix seconds.
func (r Row) Timestamp() uint64 {
	return uint64(r.Date.Unix())
}

// ReadFeed parses a feed, preserving the order of its dates.
func ReadFeed(r io.Reader) ([]Row, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var (
		rows  []Row
		found bool
	)
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if key != "dates" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("massage: skip %q: %w", key, err)
			}
			continue
		}
		found = true
		rows, err = readDates(dec)
		if err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, ErrNoDates
	}
	return rows, nil
}

func readDates(dec *json.Decoder) ([]Row, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var (
		rows  []Row
		names []string
	)
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		date, err := time.ParseInLocation(time.DateOnly, key, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("massage: date %q: %w", key, err)
		}
		if date.Unix() < 0 {
			return nil, fmt.Errorf("massage: date %q predates the Unix epoch", key)
		}

		var state map[string]bool
		if err := dec.Decode(&state); err != nil {
			return nil, fmt.Errorf("massage: %s: %w", key, err)
		}

		// The first row fixes the body set every later row must list.
		rowNames := slices.Sorted(maps.Keys(state))
		if names == nil {
			names = rowNames
		} else if !slices.Equal(names, rowNames) {
			return nil, fmt.Errorf("massage: %s: %w", key, ErrIncompleteRow)
		}

		var m body.Mask
		for name, retro := range state {
			b, err := body.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("massage: %s: %w", key, err)
			}
			if retro {
				m |= b.Bit()
			}
		}
		rows = append(rows, Row{Date: date, Flags: m})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return rows, nil
}

// Collapse keeps only the rows whose state differs from the row before.
func Collapse(rows []Row) []ephemeris.Entry {
	var out []ephemeris.Entry
	for i, r := range rows {
		if i > 0 && r.Flags == rows[i-1].Flags {
			continue
		}
		out = append(out, ephemeris.Entry{Timestamp: r.Timestamp(), Flags: r.Flags})
	}
	return out
}

// Build reads a feed and returns the collapsed, validated table.
func Build(r io.Reader) (*ephemeris.Table, error) {
	rows, err := ReadFeed(r)
	if err != nil {
		return nil, err
	}
	tbl, err := ephemeris.New(Collapse(rows))
	if err != nil {
		return nil, fmt.Errorf("massage: %w", err)
	}
	return tbl, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("massage: read key: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("massage: expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("massage: read token: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("massage: expected %q, got %v", want, tok)
	}
	return nil
}
