// Package config loads the engine configuration from YAML with .env and
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/wikistore/internal/errors"
)

// Config represents the application configuration
type Config struct {
	// ContentRoot is the directory holding all course repositories.
	ContentRoot string `yaml:"content_root"`
	// DatabasePath is the SQLite file for page records. ":memory:" is allowed.
	DatabasePath string `yaml:"database_path"`
	// AuthorEmailDomain builds commit author emails from usernames.
	AuthorEmailDomain string `yaml:"author_email_domain,omitempty"`

	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Reconcile ReconcileConfig `yaml:"reconcile,omitempty"`
	Events    EventsConfig    `yaml:"events,omitempty"`
}

// LoggingConfig controls slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text, json
}

// ReconcileConfig controls the dirty-worktree monitor.
type ReconcileConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval Duration `yaml:"interval,omitempty"`
	// Watch enables the filesystem watcher in addition to the periodic sweep.
	Watch bool `yaml:"watch,omitempty"`
	// MetricsAddr is where the reconcile daemon serves its Prometheus
	// registry. Empty disables the metrics listener.
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Duration wraps time.Duration so YAML can carry values like "15m".
type Duration time.Duration

// UnmarshalYAML accepts either a duration string ("15m") or integer nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		if parsed, err := time.ParseDuration(s); err == nil {
			*d = Duration(parsed)
			return nil
		}
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML renders the duration in its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// EventsConfig controls NATS save-event publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		ContentRoot:       "./content",
		DatabasePath:      "./wikistore.db",
		AuthorEmailDomain: "wikinotes.local",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Reconcile: ReconcileConfig{
			Enabled:     true,
			Interval:    Duration(15 * time.Minute),
			MetricsAddr: ":9090",
		},
		Events: EventsConfig{
			Subject: "wikistore.page.saved",
		},
	}
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(configPath)
	}

	// #nosec G304 - configPath comes from the CLI flag
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.ConfigInvalid("unreadable file", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigInvalid("yaml parse failed", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and value ranges.
func (c *Config) Validate() error {
	if c.ContentRoot == "" {
		return errors.ConfigInvalid("content_root is required", nil)
	}
	if c.DatabasePath == "" {
		return errors.ConfigInvalid("database_path is required", nil)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.ConfigInvalid("logging.level must be one of debug, info, warn, error", nil)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return errors.ConfigInvalid("logging.format must be text or json", nil)
	}
	if c.Reconcile.Enabled && c.Reconcile.Interval.Std() < time.Second {
		return errors.ConfigInvalid("reconcile.interval must be at least 1s", nil)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return errors.ConfigInvalid("events.url is required when events are enabled", nil)
	}
	return nil
}

// WriteStarter writes a commented starter configuration to path.
func WriteStarter(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.ConfigInvalid("configuration file already exists", nil).
				WithContext("path", path)
		}
	}
	return os.WriteFile(path, []byte(starterConfig), 0600)
}

const starterConfig = `# wikistore configuration
content_root: ./content
database_path: ./wikistore.db
author_email_domain: wikinotes.local

logging:
  level: info
  format: text

# Periodic check for course repositories left with uncommitted changes
# (a save wrote the file but the commit failed).
reconcile:
  enabled: true
  interval: 15m
  watch: false
  metrics_addr: ":9090"

# Optional NATS publishing of page-saved events.
events:
  enabled: false
  url: nats://localhost:4222
  subject: wikistore.page.saved
`
