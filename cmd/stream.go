package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/retrograde/internal/config"
	"github.com/papapumpkin/retrograde/internal/dataset"
	"github.com/papapumpkin/retrograde/internal/telemetry"
	"github.com/papapumpkin/retrograde/internal/watch"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Answer timestamps read from stdin, one per line",
	Long: `Reads timestamps from standard input, one per line, and answers each as it
arrives. Blank lines and lines starting with # are skipped.

With --watch and --data, the table file is reloaded whenever it changes; a
reload that fails to parse leaves the previous table in service.`,
	Args: cobra.NoArgs,
	RunE: runStream,
}

func init() {
	streamCmd.Flags().BoolP("watch", "w", false, "reload the --data file when it changes")
	_ = viper.BindPFlag("watch", streamCmd.Flags().Lookup("watch"))
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	if cfg.Watch {
		if cfg.DataPath == "" {
			return fmt.Errorf("--watch requires --data")
		}
		w, err := watch.NewWatcher(cfg.DataPath, s.table, dataset.Load, watch.WithLogger(s.logger))
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", cfg.DataPath, err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch %s: %w", cfg.DataPath, err)
		}
		defer w.Stop()
		go s.recordReloads(w.Reloads)
	}

	return s.stream(ctx, cmd.InOrStdin())
}

// stream answers each non-blank line of r until EOF or cancellation.
// Lines are read on a separate goroutine so cancellation is seen while r
// is idle; that goroutine exits once r returns.
func (s *session) stream(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			s.printer.Result(s.query(line))
		}
	}
}

// recordReloads turns watcher notifications into telemetry until the
// channel is closed.
func (s *session) recordReloads(reloads <-chan watch.Reload) {
	for r := range reloads {
		if r.Err != nil {
			s.emit(telemetry.Event{Kind: telemetry.KindReloadFailed, Data: map[string]string{"error": r.Err.Error()}})
			continue
		}
		s.logger.Info("table reloaded", "source", r.Path, "entries", r.Table.Len())
		s.emit(telemetry.Event{Kind: telemetry.KindTableReloaded, Data: map[string]int{"entries": r.Table.Len()}})
	}
}
