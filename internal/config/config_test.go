package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.InDelta(t, 10.0, cfg.Extract.YTolerance, 1e-9)
	assert.InDelta(t, 50.0, cfg.Extract.XThreshold, 1e-9)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(50), cfg.Server.MaxUploadMB)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "chatty" },
			wantErr: "invalid log_level",
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: "invalid output format",
		},
		{
			name:    "negative port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Server.MaxUploadMB = 0 },
			wantErr: "max_upload_mb",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Extract.Parallel.MaxWorkers = -2 },
			wantErr: "max_workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DegenerateToleranceAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extract.YTolerance = -5
	cfg.Extract.XThreshold = 0
	assert.NoError(t, cfg.Validate())
}
