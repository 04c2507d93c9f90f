package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/retrograde/internal/config"
	"github.com/papapumpkin/retrograde/internal/telemetry"
)

var eventsCmd = &cobra.Command{
	Use:   "events [file]",
	Short: "View the JSONL telemetry recorded by --telemetry",
	Long: `Reads and formats a telemetry file written with --telemetry.

Without a file argument, uses the configured telemetry_path.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("follow")

	path, err := resolveTelemetryPath(args)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	// Print all existing events. A bufio.Reader rather than a Scanner keeps
	// the read offset exact for following.
	events := &eventReader{r: bufio.NewReader(f)}
	if err := events.printAvailable(cmd.OutOrStdout()); err != nil {
		return err
	}

	if !follow {
		events.flush(cmd.OutOrStdout())
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return tailFollow(ctx, cmd.OutOrStdout(), events, path)
}

func resolveTelemetryPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TelemetryPath == "" {
		return "", errors.New("telemetry: no file given and telemetry_path is not set")
	}
	return cfg.TelemetryPath, nil
}

// eventReader reads JSONL events from a file that may still be growing.
// Text after the last newline is held until the rest of its line arrives.
type eventReader struct {
	r       *bufio.Reader
	partial string
}

// printAvailable prints every complete line currently readable.
func (e *eventReader) printAvailable(w io.Writer) error {
	for {
		chunk, err := e.r.ReadString('\n')
		if err != nil {
			e.partial += chunk
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("telemetry: read: %w", err)
		}
		line := strings.TrimSpace(e.partial + chunk)
		e.partial = ""
		if line != "" {
			printEvent(w, line)
		}
	}
}

// flush prints a final line that was never terminated.
func (e *eventReader) flush(w io.Writer) {
	if line := strings.TrimSpace(e.partial); line != "" {
		printEvent(w, line)
	}
	e.partial = ""
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(ctx context.Context, w io.Writer, events *eventReader, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == 0 {
				continue
			}
			if err := events.printAvailable(w); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("telemetry: watch %s: %w", path, err)
		}
	}
}

// printEvent decodes a JSONL line and prints a human-readable representation.
func printEvent(w io.Writer, line string) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}

	ts := evt.Timestamp.Format(time.DateTime)
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", ts))
	parts = append(parts, evt.Kind)

	if evt.Source != "" {
		parts = append(parts, fmt.Sprintf("source=%s", evt.Source))
	}
	if evt.Query != "" {
		parts = append(parts, fmt.Sprintf("query=%s", evt.Query))
	}
	if len(evt.Bodies) > 0 {
		parts = append(parts, fmt.Sprintf("bodies=%s", strings.Join(evt.Bodies, ",")))
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
