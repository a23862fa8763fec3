// Package config loads the datamodeler configuration file.
//
// Configuration is optional: a missing file yields defaults, so the CLI works
// out of the box with a ./products output tree and the built-in templates.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	// Products is the root of the output tree (yaml/, md/, html/ below it).
	Products string `yaml:"products"`
	// Templates optionally overrides the built-in document templates.
	Templates string `yaml:"templates"`
	// EnvFiles lists dotenv files loaded into the process environment before
	// path templates are resolved.
	EnvFiles []string `yaml:"env_files,omitempty"`

	History HistoryConfig `yaml:"history"`
	Watch   WatchConfig   `yaml:"watch"`
}

// HistoryConfig controls the generation history ledger.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// Debounce delays re-rendering after a record file change.
	Debounce Duration `yaml:"debounce,omitempty"`
	// Interval schedules periodic full re-renders; zero disables them.
	Interval Duration `yaml:"interval,omitempty"`
	// MetricsAddr exposes Prometheus metrics when non-empty, e.g. ":9090".
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Duration is a time.Duration that parses from "2s"/"30m" style YAML strings.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalYAML emits the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{
		Products: "./products",
		EnvFiles: []string{".env"},
		History:  HistoryConfig{Enabled: true},
		Watch:    WatchConfig{Debounce: Duration(2 * time.Second)},
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified file. A nonexistent file is not
// an error; defaults apply.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.loadEnvFiles()
			return cfg, nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "could not read configuration file").
			WithContext("path", configPath).
			Build()
	}

	// Expand environment variables in the YAML content before parsing.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "could not parse configuration file").
			WithContext("path", configPath).
			Build()
	}

	cfg.applyDefaults()
	cfg.loadEnvFiles()
	return &cfg, nil
}

// applyDefaults fills unset fields with working defaults.
func (c *Config) applyDefaults() {
	if c.Products == "" {
		c.Products = "./products"
	}
	if len(c.EnvFiles) == 0 {
		c.EnvFiles = []string{".env"}
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.Products, "history.db")
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(2 * time.Second)
	}
}

// loadEnvFiles loads the configured dotenv files into the process
// environment. Missing files are fine; existing variables win.
func (c *Config) loadEnvFiles() {
	for _, path := range c.EnvFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// RecordsDir returns the directory holding species record files.
func (c *Config) RecordsDir() string { return filepath.Join(c.Products, "yaml") }

// MarkdownDir returns the directory holding rendered markdown documents.
func (c *Config) MarkdownDir() string { return filepath.Join(c.Products, "md") }

// HTMLDir returns the directory holding rendered HTML documents.
func (c *Config) HTMLDir() string { return filepath.Join(c.Products, "html") }

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := `# datamodeler configuration
products: ./products
# templates: ./templates
env_files:
  - .env
history:
  enabled: true
watch:
  debounce: 2s
  # interval: 1h
  # metrics_addr: ":9090"
`
	if err := os.WriteFile(configPath, []byte(example), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "could not write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
