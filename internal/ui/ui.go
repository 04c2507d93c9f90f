// Package ui formats lookup results and tables for the terminal.
package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/papapumpkin/retrograde/internal/config"
	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

// ErrInvalidTimestamp marks a query that could not be parsed as an unsigned
// decimal timestamp.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Result is the outcome of one query as the printer sees it. Entry is only
// meaningful when Err is nil.
type Result struct {
	Query     string
	Timestamp uint64
	Entry     ephemeris.Entry
	Err       error
}

// Options configures a Printer.
type Options struct {
	Format string // config.FormatText (default) or config.FormatJSON
	Color  string // config.ColorAuto (default), ColorAlways or ColorNever
	Since  bool   // also report when the matched state began
}

// Printer writes results to out and diagnostics to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	opts   Options
	st     styles
	errSt  styles
}

// New returns a printer for out and errOut.
func New(out, errOut io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = config.FormatText
	}
	return &Printer{
		out:    out,
		errOut: errOut,
		opts:   opts,
		st:     newStyles(renderer(out, opts.Color)),
		errSt:  newStyles(renderer(errOut, opts.Color)),
	}
}

func renderer(w io.Writer, mode string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case config.ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// Result prints one query outcome. Text output follows the classic layout:
//
//	ts: 1642118400
//		Mercury
//		Venus
//
// or "<ts>: failed to find retrograde data" on a miss.
func (p *Printer) Result(r Result) {
	if p.opts.Format == config.FormatJSON {
		p.resultJSON(r)
		return
	}

	switch {
	case errors.Is(r.Err, ErrInvalidTimestamp):
		fmt.Fprintf(p.out, "%s: %s\n", r.Query, p.st.miss.Render("invalid timestamp"))
	case r.Err != nil:
		fmt.Fprintf(p.out, "%d: %s\n", r.Timestamp, p.st.miss.Render("failed to find retrograde data"))
	default:
		fmt.Fprintf(p.out, "%s %s\n", p.st.header.Render("ts:"), p.st.header.Render(fmt.Sprint(r.Timestamp)))
		if p.opts.Since {
			fmt.Fprintf(p.out, "  %s\n", p.st.muted.Render("since "+since(r.Entry, r.Timestamp)))
		}
		for _, name := range r.Entry.Flags.Names() {
			fmt.Fprintf(p.out, "\t%s\n", p.st.body.Render(name))
		}
	}
}

// jsonResult is the line-delimited JSON form of a Result.
type jsonResult struct {
	Query     string   `json:"query,omitempty"`
	Timestamp *uint64  `json:"ts,omitempty"`
	Bodies    []string `json:"bodies,omitempty"`
	Mask      string   `json:"mask,omitempty"`
	Since     *uint64  `json:"since,omitempty"`
	Error     string   `json:"error,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

func (p *Printer) resultJSON(r Result) {
	var jr jsonResult
	switch {
	case errors.Is(r.Err, ErrInvalidTimestamp):
		jr.Query = r.Query
		jr.Error = ErrInvalidTimestamp.Error()
	case r.Err != nil:
		jr.Timestamp = &r.Timestamp
		jr.Error = ephemeris.ErrNotFound.Error()
		var le *ephemeris.LookupError
		if errors.As(r.Err, &le) {
			jr.Reason = le.Reason.String()
		}
	default:
		jr.Timestamp = &r.Timestamp
		jr.Bodies = r.Entry.Flags.Names()
		if jr.Bodies == nil {
			jr.Bodies = []string{}
		}
		jr.Mask = fmt.Sprintf("0x%04x", uint16(r.Entry.Flags))
		if p.opts.Since {
			jr.Since = &r.Entry.Timestamp
		}
	}

	data, err := json.Marshal(jr)
	if err != nil {
		p.Error(fmt.Sprintf("encode result: %v", err))
		return
	}
	fmt.Fprintln(p.out, string(data))
}

// since describes when entry began relative to the query time.
func since(e ephemeris.Entry, ts uint64) string {
	start := e.Time()
	q := time.Unix(int64(ts), 0).UTC()
	return fmt.Sprintf("%s (%s)", start.Format(time.DateOnly), humanize.RelTime(start, q, "earlier", "later"))
}

// Table prints every entry of tbl, one per line.
func (p *Printer) Table(tbl *ephemeris.Table) {
	for _, e := range tbl.Entries() {
		fmt.Fprintf(p.out, "%s  %s  %s\n",
			p.st.header.Render(fmt.Sprintf("%10d", e.Timestamp)),
			p.st.muted.Render(e.Time().Format(time.DateOnly)),
			p.st.body.Render(e.Flags.String()))
	}
}

// Summary prints the size and span of tbl, labelled with its source.
func (p *Printer) Summary(source string, tbl *ephemeris.Table) {
	fmt.Fprintf(p.out, "%s %s\n", p.st.header.Render("table:"), source)
	fmt.Fprintf(p.out, "  entries: %d\n", tbl.Len())
	first, last, ok := tbl.Span()
	if !ok {
		fmt.Fprintln(p.out, "  span:    (empty)")
		return
	}
	fmt.Fprintf(p.out, "  first:   %d (%s)\n", first, time.Unix(int64(first), 0).UTC().Format(time.DateOnly))
	fmt.Fprintf(p.out, "  last:    %d (%s)\n", last, time.Unix(int64(last), 0).UTC().Format(time.DateOnly))
}

// Generated reports a file written by the generate command.
func (p *Printer) Generated(path string) {
	fmt.Fprintf(p.out, "Generated %s.\n", path)
}

// Error prints msg to the diagnostic writer.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.errSt.miss.Bold(true).Render("error:"), strings.TrimSpace(msg))
}
