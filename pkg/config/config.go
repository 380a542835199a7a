// Package config loads insulator settings from defaults, an optional TOML
// file and INSULATOR_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/insulator/pkg/export"
	"github.com/chazu/insulator/pkg/insulation"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Pattern PatternConfig `mapstructure:"pattern"`
	Export  ExportConfig  `mapstructure:"export"`
}

// PatternConfig selects how insulation is drawn.
type PatternConfig struct {
	Style           string `mapstructure:"style"`
	MaterialKeyword string `mapstructure:"material_keyword"`
}

// ExportConfig controls output files.
type ExportConfig struct {
	Format string  `mapstructure:"format"`
	Output string  `mapstructure:"output"`
	Scale  float64 `mapstructure:"scale"`
	Layer  string  `mapstructure:"layer"`
}

// Load reads configuration. An explicit path must exist; otherwise
// INSULATOR_CONFIG or ~/.config/insulator/config.toml is read if present.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("pattern.style", insulation.StyleLoop.String())
	v.SetDefault("pattern.material_keyword", insulation.DefaultKeyword)
	v.SetDefault("export.format", export.FormatDXF.String())
	v.SetDefault("export.output", "")
	v.SetDefault("export.scale", export.DefaultOptions().Scale)
	v.SetDefault("export.layer", export.DefaultOptions().Layer)

	v.SetConfigType("toml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv("INSULATOR_CONFIG")
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "insulator"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("INSULATOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that enumerated settings name known values.
func (c Config) Validate() error {
	if _, err := c.Style(); err != nil {
		return fmt.Errorf("config: pattern.style: %w", err)
	}
	if _, err := c.Format(); err != nil {
		return fmt.Errorf("config: export.format: %w", err)
	}
	if c.Export.Scale <= 0 {
		return fmt.Errorf("config: export.scale must be positive, got %g", c.Export.Scale)
	}
	return nil
}

// Style returns the configured insulation style.
func (c Config) Style() (insulation.Style, error) {
	return insulation.ParseStyle(c.Pattern.Style)
}

// Format returns the configured export format. An output path with a known
// extension overrides export.format.
func (c Config) Format() (export.Format, error) {
	if c.Export.Output != "" {
		if f, err := export.FormatFromPath(c.Export.Output); err == nil {
			return f, nil
		}
	}
	return export.ParseFormat(c.Export.Format)
}

// ExportOptions returns the drawing options for the exporter.
func (c Config) ExportOptions() export.Options {
	return export.Options{Layer: c.Export.Layer, Scale: c.Export.Scale}
}
