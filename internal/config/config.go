// Package config loads retrograde settings through viper.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Output formats accepted by the format setting.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ErrInvalidSetting indicates a setting whose value is not one of the
// accepted choices.
var ErrInvalidSetting = errors.New("invalid setting")

// Config holds all runtime configuration for a retrograde session.
// Values are populated from .retrograde.yaml, RETROGRADE_* env vars, and CLI flags.
type Config struct {
	DataPath      string `mapstructure:"data_path"`
	Format        string `mapstructure:"format"`
	Color         string `mapstructure:"color"`
	Since         bool   `mapstructure:"since"`
	Watch         bool   `mapstructure:"watch"`
	TelemetryPath string `mapstructure:"telemetry_path"`
	Verbose       bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("data_path", "")
	viper.SetDefault("format", FormatText)
	viper.SetDefault("color", ColorAuto)
	viper.SetDefault("since", false)
	viper.SetDefault("watch", false)
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	switch cfg.Format {
	case FormatText, FormatJSON:
	default:
		return Config{}, fmt.Errorf("config: %w: format %q (want %s or %s)", ErrInvalidSetting, cfg.Format, FormatText, FormatJSON)
	}
	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return Config{}, fmt.Errorf("config: %w: color %q (want %s, %s or %s)", ErrInvalidSetting, cfg.Color, ColorAuto, ColorAlways, ColorNever)
	}
	return cfg, nil
}
