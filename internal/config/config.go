package config

import (
	"fmt"
	"strings"
)

// Config is the complete configuration for the tably application, covering
// the extract and serve commands. Values load from configuration files,
// environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Table reconstruction settings
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract" json:"extract"`

	// Output formatting settings
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// ExtractConfig contains table reconstruction settings.
type ExtractConfig struct {
	YTolerance   float64        `mapstructure:"y_tolerance" yaml:"y_tolerance" json:"y_tolerance"`
	XThreshold   float64        `mapstructure:"x_threshold" yaml:"x_threshold" json:"x_threshold"`
	TemplatePath string         `mapstructure:"template_path" yaml:"template_path" json:"template_path"`
	Parallel     ParallelConfig `mapstructure:"parallel" yaml:"parallel" json:"parallel"`
}

// ParallelConfig contains parallel page processing settings.
type ParallelConfig struct {
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers" json:"max_workers"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format         string `mapstructure:"format" yaml:"format" json:"format"`
	OverlayEnabled bool   `mapstructure:"overlay_enabled" yaml:"overlay_enabled" json:"overlay_enabled"`
	OverlayDir     string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	TemplatesDir    string `mapstructure:"templates_dir" yaml:"templates_dir" json:"templates_dir"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Extract: ExtractConfig{
			YTolerance: 10,
			XThreshold: 50,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			TemplatesDir:    "templates",
		},
	}
}

// Validate checks the configuration for values the commands cannot work
// with. Tolerance degeneracy (zero or negative) is allowed: the core
// produces defined, if degenerate, output for it and callers own the
// responsibility for sane tolerances.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch c.Output.Format {
	case "json", "csv", "":
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Extract.Parallel.MaxWorkers < 0 {
		return fmt.Errorf("max_workers must not be negative, got %d", c.Extract.Parallel.MaxWorkers)
	}
	return nil
}
