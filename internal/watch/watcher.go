// Package watch reloads a table file when it changes on disk and publishes
// the new table through an ephemeris.Handle.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

// LoadFunc builds a table from the file at path.
type LoadFunc func(ctx context.Context, path string) (*ephemeris.Table, error)

// Reload reports the outcome of one reload attempt. On failure Table is nil
// and the handle keeps serving the previous table.
type Reload struct {
	Path  string
	Table *ephemeris.Table
	Err   error
}

// Watcher monitors a single table file using fsnotify. It watches the
// file's directory rather than the file itself so that editors and tools
// that replace the file by rename are still noticed.
type Watcher struct {
	Path    string
	Reloads <-chan Reload // Read-only external channel

	reloads  chan Reload
	done     chan struct{}
	watcher  *fsnotify.Watcher
	handle   *ephemeris.Handle
	load     LoadFunc
	logger   *slog.Logger
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for watch errors. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets how long the file must be quiet before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher that reloads path into h using load.
func NewWatcher(path string, h *ephemeris.Handle, load LoadFunc, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Reload, 16)
	w := &Watcher{
		Path:     abs,
		Reloads:  ch,
		reloads:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		handle:   h,
		load:     load,
		logger:   slog.Default(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. Reloads run on the watcher's goroutine until ctx
// is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		close(w.done)
		return err
	}

	go w.loop(ctx)
	return nil
}

// Stop closes the watcher and the Reloads channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.reloads)
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var (
		pending bool
		last    time.Time
	)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				last = time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(last) >= w.debounce {
				pending = false
				w.reload(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.Path, "error", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	tbl, err := w.load(ctx, w.Path)
	if err != nil {
		w.logger.Warn("table reload failed, keeping previous table", "path", w.Path, "error", err)
		w.emit(Reload{Path: w.Path, Err: err})
		return
	}
	w.handle.Swap(tbl)
	w.logger.Debug("table reloaded", "path", w.Path, "entries", tbl.Len())
	w.emit(Reload{Path: w.Path, Table: tbl})
}

// emit never blocks; the handle is already updated, so a slow consumer
// only misses the notification.
func (w *Watcher) emit(r Reload) {
	select {
	case w.reloads <- r:
	default:
		w.logger.Debug("reload notification dropped", "path", r.Path)
	}
}
