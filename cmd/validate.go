package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/retrograde/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the table loads and report its span",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		s, err := newSession(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.close()

		s.printer.Summary(s.source, s.table.Load())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
