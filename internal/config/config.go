// Package config provides the ambient configuration of the labliste tool.
// Settings come from environment variables (optionally seeded from a .env
// file) with defaults, and are validated on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Paths    PathsConfig
	Output   OutputConfig
	Rules    RulesConfig
	Logging  LoggingConfig
	Database DatabaseConfig
}

// PathsConfig holds the directory and file names of a run.
type PathsConfig struct {
	// BaseDir contains the period directories (default: .)
	BaseDir string `env:"LABLISTE_BASE_DIR" default:"."`

	// ConfigFile is the region config inside a period directory
	ConfigFile string `env:"LABLISTE_CONFIG_FILE" default:"konfiguration.csv"`

	// TemplateConfig is copied into new period directories by "erstellen"
	TemplateConfig string `env:"LABLISTE_TEMPLATE_CONFIG" default:"konfiguration-neu.csv"`

	// TargetDir is the output subdirectory of a period directory
	TargetDir string `env:"LABLISTE_TARGET_DIR" default:"ZIEL"`
}

// OutputConfig holds settings for the generated files.
type OutputConfig struct {
	// Prefix is the file name prefix of the merged CSV and the log (default: printec)
	Prefix string `env:"LABLISTE_OUTPUT_PREFIX" default:"printec"`

	// WriteBOM prefixes the merged CSV with a UTF-8 byte-order mark (default: true)
	WriteBOM bool `env:"LABLISTE_OUTPUT_BOM" default:"true"`
}

// RulesConfig holds the switches for rule variants.
type RulesConfig struct {
	// LegacyRegions are region codes whose files are Windows-1252 encoded
	LegacyRegions []string `env:"LABLISTE_LEGACY_REGIONS" default:"NB,BW"`

	// Placeholder is read as an empty salutation or first name.
	// An empty value disables the substitution.
	Placeholder string `env:"LABLISTE_PLACEHOLDER" default:"_"`

	// CountZeroCopies counts records with copy count 0 toward the address bounds (default: true)
	CountZeroCopies bool `env:"LABLISTE_COUNT_ZERO_COPIES" default:"true"`
}

// LoggingConfig holds diagnostic logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// DatabaseConfig holds the optional run history connection.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Run history is disabled when empty.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Timeout bounds connecting and writing the history entry (default: 10s)
	Timeout time.Duration `env:"DB_TIMEOUT" default:"10s"`
}

// HistoryEnabled reports whether runs are recorded in the database.
func (c *Config) HistoryEnabled() bool {
	return c.Database.URL != ""
}
