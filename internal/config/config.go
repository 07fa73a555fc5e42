// Package config handles meshtool configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Output formats understood by meshtool.
const (
	FormatRaw = "raw" // bare interleaved vertex buffer
	FormatMSH = "msh"
	FormatSTL = "stl"
)

// Config holds all meshtool settings.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GenerationConfig holds settings shared by every generator.
type GenerationConfig struct {
	Tolerance     float32 `yaml:"tolerance"`      // curve linearization distance
	SmoothNormals bool    `yaml:"smooth_normals"` // average normals of shared corners
	Color         string  `yaml:"color"`          // SVG color name for new builders
	Workers       int     `yaml:"workers"`        // scene objects built at once, 0 = GOMAXPROCS
}

// OutputConfig selects where and how meshes are written.
type OutputConfig struct {
	Path   string `yaml:"path"` // "" or "-" writes to stdout
	Format string `yaml:"format"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			Tolerance: 0.01,
			Color:     "white",
		},
		Output: OutputConfig{
			Format: FormatMSH,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Generation.Tolerance <= 0 {
		err = multierr.Append(err, fmt.Errorf("generation.tolerance must be positive, got %v", c.Generation.Tolerance))
	}
	if c.Generation.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("generation.workers must not be negative, got %d", c.Generation.Workers))
	}
	switch c.Output.Format {
	case FormatRaw, FormatMSH, FormatSTL:
	default:
		err = multierr.Append(err, fmt.Errorf("output.format must be raw, msh or stl, got %q", c.Output.Format))
	}
	return err
}
