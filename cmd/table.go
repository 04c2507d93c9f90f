package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/retrograde/internal/config"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print every entry of the loaded table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		s, err := newSession(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.close()

		s.printer.Table(s.table.Load())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
}
