package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
output_dir: /tmp/report
internal_links_domain: https://example.org/
messages_slice_size: 25
timezone: Europe/Berlin
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/report", cfg.OutputDir)
	assert.Equal(t, "https://example.org/", cfg.InternalLinksDomain)
	assert.Equal(t, 25, cfg.MessagesSliceSize)
	assert.Equal(t, DefaultUserpicsSliceSize, cfg.UserpicsSliceSize)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeConfigFile(t, "config.toml", `
output_dir = "/tmp/toml-report"
userpics_slice_size = 7
log_level = "debug"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/toml-report", cfg.OutputDir)
	assert.Equal(t, 7, cfg.UserpicsSliceSize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "config.yml", "output_dir: /from/file\nmessages_slice_size: 10\n")
	t.Setenv(EnvPrefix+"OUTPUT_DIR", "/from/env")
	t.Setenv(EnvPrefix+"MESSAGES_SLICE_SIZE", "3")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.OutputDir)
	assert.Equal(t, 3, cfg.MessagesSliceSize)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantKey string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") },
			wantKey: "config",
		},
		{
			name:    "unsupported extension",
			path:    func(t *testing.T) string { return writeConfigFile(t, "config.ini", "a=b") },
			wantKey: "config",
		},
		{
			name:    "malformed yaml",
			path:    func(t *testing.T) string { return writeConfigFile(t, "config.yaml", "output_dir: [") },
			wantKey: "config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path(t))
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "LoadConfig() error = %v, want ConfigError", err)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestLoadConfig_BadEnvNumber(t *testing.T) {
	t.Setenv(EnvPrefix+"USERPICS_SLICE_SIZE", "many")

	_, err := LoadConfig("")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "userpics_slice_size", cfgErr.Key)
}

func TestConfig_ValidateLowersFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "TEXT"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "text", cfg.Format)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantKey string
	}{
		{"valid", func(c *Config) {}, ""},
		{"txt alias", func(c *Config) { c.Format = "TXT" }, ""},
		{"empty output", func(c *Config) { c.OutputDir = " " }, "output_dir"},
		{"json format", func(c *Config) { c.Format = "json" }, "format"},
		{"zero messages slice", func(c *Config) { c.MessagesSliceSize = 0 }, "messages_slice_size"},
		{"negative userpics slice", func(c *Config) { c.UserpicsSliceSize = -1 }, "userpics_slice_size"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}
