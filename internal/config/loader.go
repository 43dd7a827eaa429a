package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "tably"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "TABLY"
)

// Loader handles loading configuration from files, environment variables,
// and bound command-line flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader on the global viper instance
// so that cobra flag bindings take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// GetViper exposes the underlying viper instance, letting commands re-read
// values after late flag binding.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// Load loads configuration from the search paths, environment variables,
// and defaults, then validates it. A missing configuration file is not an
// error; defaults and environment values apply.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.unmarshal()
}

// LoadWithFile loads configuration from a specific file path instead of the
// search paths. An empty path falls back to Load.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// addConfigPaths registers the configuration file search order: working
// directory first, then user, then system locations.
func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "tably"))
	}
	l.v.AddConfigPath("/etc/tably")
}

// setupEnvironmentVariables enables TABLY_* environment overrides, with
// dots in keys mapped to underscores (extract.y_tolerance ->
// TABLY_EXTRACT_Y_TOLERANCE).
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

// setDefaults seeds viper with the values from DefaultConfig.
func (l *Loader) setDefaults() {
	def := DefaultConfig()

	l.v.SetDefault("log_level", def.LogLevel)
	l.v.SetDefault("verbose", def.Verbose)

	l.v.SetDefault("extract.y_tolerance", def.Extract.YTolerance)
	l.v.SetDefault("extract.x_threshold", def.Extract.XThreshold)
	l.v.SetDefault("extract.template_path", def.Extract.TemplatePath)
	l.v.SetDefault("extract.parallel.max_workers", def.Extract.Parallel.MaxWorkers)

	l.v.SetDefault("output.format", def.Output.Format)
	l.v.SetDefault("output.overlay_enabled", def.Output.OverlayEnabled)
	l.v.SetDefault("output.overlay_dir", def.Output.OverlayDir)

	l.v.SetDefault("server.host", def.Server.Host)
	l.v.SetDefault("server.port", def.Server.Port)
	l.v.SetDefault("server.cors_origin", def.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", def.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", def.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
	l.v.SetDefault("server.templates_dir", def.Server.TemplatesDir)
}
