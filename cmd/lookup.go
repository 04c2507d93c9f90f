package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/retrograde/internal/config"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <timestamp>...",
	Short: "Show the bodies in retrograde at each timestamp",
	Long: `Looks up each Unix timestamp (seconds, UTC) in the table.

A timestamp before the first entry or after the last one has no data and is
reported as such; the remaining timestamps are still answered.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	s, err := newSession(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	s.answer(args)
	return nil
}
