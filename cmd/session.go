package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/papapumpkin/retrograde/internal/config"
	"github.com/papapumpkin/retrograde/internal/dataset"
	"github.com/papapumpkin/retrograde/internal/ephemeris"
	"github.com/papapumpkin/retrograde/internal/telemetry"
	"github.com/papapumpkin/retrograde/internal/ui"
)

// session bundles what every query command needs: the loaded table, the
// printer, a logger and the optional telemetry stream.
type session struct {
	cfg     config.Config
	source  string
	table   *ephemeris.Handle
	printer *ui.Printer
	logger  *slog.Logger
	events  *telemetry.Emitter
}

func newSession(ctx context.Context, cfg config.Config, out, errOut io.Writer) (*session, error) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	s := &session{
		cfg:    cfg,
		source: cfg.DataPath,
		printer: ui.New(out, errOut, ui.Options{
			Format: cfg.Format,
			Color:  cfg.Color,
			Since:  cfg.Since,
		}),
		logger: slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})),
	}
	if s.source == "" {
		s.source = "built-in"
	}

	tbl, err := dataset.Load(ctx, cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}
	s.table = ephemeris.NewHandle(tbl)
	s.logger.Debug("table loaded", "source", s.source, "entries", tbl.Len())

	if cfg.TelemetryPath != "" {
		em, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return nil, err
		}
		s.events = em
	}
	s.emit(telemetry.Event{
		Kind:   telemetry.KindTableLoaded,
		Source: s.source,
		Data:   map[string]int{"entries": tbl.Len()},
	})
	return s, nil
}

func (s *session) close() {
	if err := s.events.Close(); err != nil {
		s.logger.Warn("closing telemetry", "error", err)
	}
}

// emit records evt, logging rather than failing on write errors. Reloads
// that land after close are dropped quietly.
func (s *session) emit(evt telemetry.Event) {
	if evt.Source == "" {
		evt.Source = s.source
	}
	if err := s.events.Emit(evt); err != nil && !errors.Is(err, telemetry.ErrClosed) {
		s.logger.Warn("telemetry write failed", "error", err)
	}
}

// parseTimestamp accepts unsigned decimal seconds.
func parseTimestamp(arg string) (uint64, error) {
	ts, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ui.ErrInvalidTimestamp, arg)
	}
	return ts, nil
}

// query answers a single raw argument against the current table.
func (s *session) query(arg string) ui.Result {
	r := ui.Result{Query: arg}

	ts, err := parseTimestamp(arg)
	if err != nil {
		r.Err = err
		s.emit(telemetry.Event{Kind: telemetry.KindQueryInvalid, Query: arg})
		return r
	}
	r.Timestamp = ts

	entry, err := s.table.Load().Find(ts)
	if err != nil {
		r.Err = err
		s.logger.Debug("lookup miss", "ts", ts, "error", err)
		s.emit(telemetry.Event{Kind: telemetry.KindQueryMiss, Query: arg})
		return r
	}
	r.Entry = entry
	s.emit(telemetry.Event{Kind: telemetry.KindQueryHit, Query: arg, Bodies: entry.Flags.Names()})
	return r
}

// answer prints the result of each argument in order. Individual failures
// are reported inline and never abort the batch.
func (s *session) answer(args []string) {
	for _, arg := range args {
		s.printer.Result(s.query(arg))
	}
}
