package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of an export run
type Config struct {
	OutputDir           string `yaml:"output_dir" toml:"output_dir"`
	InternalLinksDomain string `yaml:"internal_links_domain" toml:"internal_links_domain"`
	Format              string `yaml:"format" toml:"format"`
	MessagesSliceSize   int    `yaml:"messages_slice_size" toml:"messages_slice_size"`
	UserpicsSliceSize   int    `yaml:"userpics_slice_size" toml:"userpics_slice_size"`
	Timezone            string `yaml:"timezone" toml:"timezone"`
	LogLevel            string `yaml:"log_level" toml:"log_level"`
}

// DefaultConfig returns a Config filled with defaults
func DefaultConfig() *Config {
	return &Config{
		OutputDir:           DefaultOutputDir,
		InternalLinksDomain: DefaultInternalLinksDomain,
		Format:              DefaultFormat,
		MessagesSliceSize:   DefaultMessagesSliceSize,
		UserpicsSliceSize:   DefaultUserpicsSliceSize,
		Timezone:            DefaultTimezone,
		LogLevel:            DefaultLogLevel,
	}
}

// LoadConfig builds a Config from defaults, the optional config file at path,
// a .env file in the working directory and CHAT_REPORT_* variables, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		LogWarn("Failed to load .env file: %v", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Key: "config", Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, c)
	case ".toml":
		_, err = toml.Decode(string(content), c)
	default:
		err = fmt.Errorf("unsupported config file type: %s (supported: .yaml, .yml, .toml)", path)
	}
	if err != nil {
		return &ConfigError{Key: "config", Err: err}
	}

	LogDebug("Loaded config file: %s", path)
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"OUTPUT_DIR":            &c.OutputDir,
		"INTERNAL_LINKS_DOMAIN": &c.InternalLinksDomain,
		"FORMAT":                &c.Format,
		"TIMEZONE":              &c.Timezone,
		"LOG_LEVEL":             &c.LogLevel,
	}
	for name, field := range strs {
		if value, ok := lookup(EnvPrefix + name); ok {
			*field = value
		}
	}

	ints := map[string]*int{
		"MESSAGES_SLICE_SIZE": &c.MessagesSliceSize,
		"USERPICS_SLICE_SIZE": &c.UserpicsSliceSize,
	}
	for name, field := range ints {
		value, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return &ConfigError{Key: strings.ToLower(name), Err: err}
		}
		*field = n
	}
	return nil
}

// Validate checks every field of the config
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return &ConfigError{Key: "output_dir", Err: errors.New("must not be empty")}
	}
	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "text", "txt":
	default:
		return &ConfigError{Key: "format", Err: fmt.Errorf("unsupported format: %s (supported: text)", c.Format)}
	}
	if c.MessagesSliceSize <= 0 {
		return &ConfigError{Key: "messages_slice_size", Err: fmt.Errorf("must be positive, got %d", c.MessagesSliceSize)}
	}
	if c.UserpicsSliceSize <= 0 {
		return &ConfigError{Key: "userpics_slice_size", Err: fmt.Errorf("must be positive, got %d", c.UserpicsSliceSize)}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ConfigError{Key: "log_level", Err: err}
	}
	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, &ConfigError{Key: "timezone", Err: err}
	}
	return loc, nil
}
