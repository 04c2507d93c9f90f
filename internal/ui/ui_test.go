package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/papapumpkin/retrograde/internal/body"
	"github.com/papapumpkin/retrograde/internal/config"
	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

// newTestPrinter returns a colorless printer and its output buffers.
func newTestPrinter(opts Options) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	opts.Color = config.ColorNever
	return New(&out, &errOut, opts), &out, &errOut
}

func hit(ts, start uint64, bodies ...body.Body) Result {
	return Result{
		Query:     fmt.Sprint(ts),
		Timestamp: ts,
		Entry:     ephemeris.Entry{Timestamp: start, Flags: body.Encode(bodies...)},
	}
}

func TestResult_TextHit(t *testing.T) {
	t.Parallel()
	p, out, _ := newTestPrinter(Options{})

	p.Result(hit(1642118400, 1642118400, body.Mercury, body.Venus, body.Uranus))

	want := "ts: 1642118400\n\tMercury\n\tVenus\n\tUranus\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestResult_TextHitNoBodies(t *testing.T) {
	t.Parallel()
	p, out, _ := newTestPrinter(Options{})

	p.Result(hit(1643932800, 1643932800))

	if got := out.String(); got != "ts: 1643932800\n" {
		t.Errorf("output = %q, want only the ts line", got)
	}
}

func TestResult_TextMiss(t *testing.T) {
	t.Parallel()
	p, out, _ := newTestPrinter(Options{})

	p.Result(Result{
		Query:     "50",
		Timestamp: 50,
		Err:       &ephemeris.LookupError{Timestamp: 50, Reason: ephemeris.MissBeforeFirst},
	})

	if got := out.String(); got != "50: failed to find retrograde data\n" {
		t.Errorf("output = %q", got)
	}
}

func TestResult_TextInvalid(t *testing.T) {
	t.Parallel()
	p, out, _ := newTestPrinter(Options{})

	p.Result(Result{Query: "tomorrow", Err: fmt.Errorf("%w: %q", ErrInvalidTimestamp, "tomorrow")})

	if got := out.String(); got != "tomorrow: invalid timestamp\n" {
		t.Errorf("output = %q", got)
	}
}

func TestResult_TextSince(t *testing.T) {
	t.Parallel()
	p, out, _ := newTestPrinter(Options{Since: true})

	// Three days after the state began.
	p.Result(hit(1642118400+3*86400, 1642118400, body.Mercury))

	output := out.String()
	for _, want := range []string{"since 2022-01-14", "3 days earlier", "\tMercury"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestResult_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    Result
		check func(t *testing.T, got map[string]any)
	}{
		{
			name: "hit",
			in:   hit(1642118400, 1642118400, body.Venus, body.Moon),
			check: func(t *testing.T, got map[string]any) {
				if got["mask"] != "0x0102" {
					t.Errorf("mask = %v, want 0x0102", got["mask"])
				}
				bodies, _ := got["bodies"].([]any)
				if len(bodies) != 2 || bodies[0] != "Venus" || bodies[1] != "Moon" {
					t.Errorf("bodies = %v, want [Venus Moon]", got["bodies"])
				}
				if _, ok := got["since"]; ok {
					t.Error("since present without Since option")
				}
			},
		},
		{
			name: "miss",
			in: Result{
				Timestamp: 250,
				Err:       &ephemeris.LookupError{Timestamp: 250, Reason: ephemeris.MissAfterLast},
			},
			check: func(t *testing.T, got map[string]any) {
				if got["ts"] != float64(250) {
					t.Errorf("ts = %v, want 250", got["ts"])
				}
				if got["reason"] != "after last entry" {
					t.Errorf("reason = %v", got["reason"])
				}
			},
		},
		{
			name: "invalid",
			in:   Result{Query: "-1", Err: ErrInvalidTimestamp},
			check: func(t *testing.T, got map[string]any) {
				if got["query"] != "-1" || got["error"] != "invalid timestamp" {
					t.Errorf("got %v", got)
				}
				if _, ok := got["ts"]; ok {
					t.Error("ts present for invalid query")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, out, _ := newTestPrinter(Options{Format: config.FormatJSON})
			p.Result(tt.in)

			var got map[string]any
			if err := json.Unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", out.String(), err)
			}
			tt.check(t, got)
		})
	}
}

func TestTableAndSummary(t *testing.T) {
	t.Parallel()
	p, out, _ := newTestPrinter(Options{})

	tbl := ephemeris.MustNew([]ephemeris.Entry{
		{Timestamp: 1640995200, Flags: body.Encode(body.Venus, body.Uranus)},
		{Timestamp: 1643932800},
	})
	p.Table(tbl)
	p.Summary("embedded", tbl)

	output := out.String()
	checks := []string{
		"1640995200  2022-01-01  Venus, Uranus",
		"1643932800  2022-02-04  none",
		"table: embedded",
		"entries: 2",
		"last:    1643932800 (2022-02-04)",
	}
	for _, c := range checks {
		if !strings.Contains(output, c) {
			t.Errorf("expected output to contain %q, got:\n%s", c, output)
		}
	}
}

func TestSummary_Empty(t *testing.T) {
	t.Parallel()
	p, out, _ := newTestPrinter(Options{})

	p.Summary("empty.toml", ephemeris.MustNew(nil))
	if !strings.Contains(out.String(), "(empty)") {
		t.Errorf("output = %q, want empty span", out.String())
	}
}

func TestError_WritesToErrOut(t *testing.T) {
	t.Parallel()
	p, out, errOut := newTestPrinter(Options{})

	p.Error("table file missing\n")
	if out.Len() != 0 {
		t.Errorf("Error wrote to stdout: %q", out.String())
	}
	if got := errOut.String(); got != "error: table file missing\n" {
		t.Errorf("errOut = %q", got)
	}
}

func TestResult_ColorAlwaysAddsEscapes(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	p := New(&out, &out, Options{Color: config.ColorAlways})

	p.Result(hit(100, 100, body.Mars))
	if !strings.Contains(out.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes with ColorAlways, got %q", out.String())
	}
}
