package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/retrograde/internal/config"
	"github.com/papapumpkin/retrograde/internal/dataset"
	"github.com/papapumpkin/retrograde/internal/ephemeris"
	"github.com/papapumpkin/retrograde/internal/massage"
	"github.com/papapumpkin/retrograde/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate <toml|sql|sqlite> <input.json> <output-prefix>",
	Short: "Convert a daily JSON retrograde feed into a table file",
	Long: `Reads a JSON feed of the form {"dates": {"YYYY-MM-DD": {"Mercury": true, ...}}}
and writes the collapsed table as <output-prefix>.toml, <output-prefix>.sql or
<output-prefix>.sqlite. Consecutive days with the same state become one entry.`,
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{string(dataset.FormatTOML), string(dataset.FormatSQL), string(dataset.FormatSQLite)},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		path, err := generate(cmd.Context(), dataset.Format(args[0]), args[1], args[2])
		if err != nil {
			return err
		}
		ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), ui.Options{Color: cfg.Color}).Generated(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// generate converts the feed at input into prefix.<format> and returns the
// path written.
func generate(ctx context.Context, format dataset.Format, input, prefix string) (string, error) {
	switch format {
	case dataset.FormatTOML, dataset.FormatSQL, dataset.FormatSQLite:
	default:
		return "", fmt.Errorf("unknown output mode %q (want toml, sql or sqlite)", format)
	}

	f, err := os.Open(input)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	defer f.Close()

	tbl, err := massage.Build(f)
	if err != nil {
		return "", fmt.Errorf("generate: %s: %w", input, err)
	}

	path := prefix + "." + string(format)
	if format == dataset.FormatSQLite {
		if err := dataset.WriteSQLite(ctx, path, tbl); err != nil {
			return "", err
		}
		return path, nil
	}
	if err := writeFile(path, tbl, format); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, tbl *ephemeris.Table, format dataset.Format) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("generate: close %s: %w", path, cerr)
		}
	}()

	if format == dataset.FormatSQL {
		return dataset.WriteSQL(out, tbl)
	}
	return dataset.EncodeTOML(out, tbl)
}
