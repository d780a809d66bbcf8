package config

import (
	"os"
	"time"
)

// Environment variables override file settings so deployments can relocate
// data without editing the config.
const (
	envContentRoot  = "WIKISTORE_CONTENT_ROOT"
	envDatabasePath = "WIKISTORE_DATABASE_PATH"
	envLogLevel     = "WIKISTORE_LOG_LEVEL"
	envLogFormat    = "WIKISTORE_LOG_FORMAT"
	envEventsURL    = "WIKISTORE_EVENTS_URL"
	envReconcileInt = "WIKISTORE_RECONCILE_INTERVAL"
)

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envContentRoot); v != "" {
		cfg.ContentRoot = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(envLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(envEventsURL); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv(envReconcileInt); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Reconcile.Interval = Duration(d)
		}
	}
}
