package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

// Format identifies an on-disk table encoding.
type Format string

// Supported table formats.
const (
	FormatTOML   Format = "toml"
	FormatSQLite Format = "sqlite"
	FormatSQL    Format = "sql"
)

// FormatOf infers the format from a path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".sqlite", ".sqlite3", ".db":
		return FormatSQLite, nil
	case ".sql":
		return FormatSQL, nil
	default:
		return "", fmt.Errorf("dataset: %w: %s", ErrUnknownFormat, path)
	}
}

// Load reads the table at path. An empty path selects the embedded default
// table. SQL scripts are write-only and cannot be loaded.
func Load(ctx context.Context, path string) (*ephemeris.Table, error) {
	if path == "" {
		return Default()
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatTOML:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("dataset: open %s: %w", path, err)
		}
		defer f.Close()
		return DecodeTOML(f)
	case FormatSQLite:
		// sql.Open would silently create a missing database.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("dataset: open %s: %w", path, err)
		}
		return ReadSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("dataset: %w: %s is not loadable", ErrUnknownFormat, format)
	}
}
