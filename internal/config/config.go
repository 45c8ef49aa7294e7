// Package config loads and saves ~/.explainmyrepo/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to environment overrides, e.g. EXPLAINMYREPO_FETCH_TIMEOUT.
const EnvPrefix = "EXPLAINMYREPO"

// ErrHomeDir is returned when the user's home directory cannot be resolved.
var ErrHomeDir = errors.New("cannot determine home directory")

type Config struct {
	OutputDir string        `yaml:"output_dir" mapstructure:"output_dir"`
	Fetch     FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Archive   ArchiveConfig `yaml:"archive" mapstructure:"archive"`
	Logging   LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

type FetchConfig struct {
	BaseURL  string   `yaml:"base_url" mapstructure:"base_url"`
	Branches []string `yaml:"branches" mapstructure:"branches"`
	Timeout  string   `yaml:"timeout" mapstructure:"timeout"`
	MaxBytes int64    `yaml:"max_bytes" mapstructure:"max_bytes"`
}

type ArchiveConfig struct {
	MaxEntryBytes int64 `yaml:"max_entry_bytes" mapstructure:"max_entry_bytes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHomeDir, err)
	}
	return home, nil
}

func DefaultConfig() (*Config, error) {
	home, err := homeDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		OutputDir: filepath.Join(home, "explainmyrepo"),
		Fetch: FetchConfig{
			BaseURL:  "https://github.com",
			Branches: []string{"main"},
			Timeout:  "60s",
			MaxBytes: 200 * 1024 * 1024,
		},
		Archive: ArchiveConfig{
			MaxEntryBytes: 64 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}, nil
}

// Dir returns ~/.explainmyrepo.
func Dir() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".explainmyrepo"), nil
}

func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LogPath is where log output goes while the TUI owns the terminal.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "explainmyrepo.log"), nil
}

// Load reads the config file over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("fetch.base_url", cfg.Fetch.BaseURL)
	v.SetDefault("fetch.branches", cfg.Fetch.Branches)
	v.SetDefault("fetch.timeout", cfg.Fetch.Timeout)
	v.SetDefault("fetch.max_bytes", cfg.Fetch.MaxBytes)
	v.SetDefault("archive.max_entry_bytes", cfg.Archive.MaxEntryBytes)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FetchTimeout parses Fetch.Timeout. An empty value means no override.
func (c *Config) FetchTimeout() (time.Duration, error) {
	if c.Fetch.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil {
		return 0, fmt.Errorf("fetch.timeout: %w", err)
	}
	return d, nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
