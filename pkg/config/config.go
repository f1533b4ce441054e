// Package config provides configuration management for gnvern.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode
//   - Store: type, url, api_key, sqlite_path, table, master_list_table, timeout
//   - Resolver: languages, chunk_size, priority bounds, lookup_genera,
//     genus_on_empty_name, format_names
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNVERN_ prefix with underscores for nesting:
//
//	GNVERN_DATABASE_HOST=localhost
//	GNVERN_STORE_TYPE=sqlapi
//	GNVERN_RESOLVER_CHUNK_SIZE=2000
//	GNVERN_LOG_LEVEL=info
//	GNVERN_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete gnvern configuration.
type Config struct {
	// Database contains PostgreSQL connection settings used by the
	// postgres store and by schema management commands.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Store selects and configures the backend that provides candidate
	// vernacular name rows.
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Resolver contains settings of the resolution engine.
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of chunk requests the engine sends
	// to the store concurrently.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// StoreConfig describes the name store backend.
type StoreConfig struct {
	// Type is one of "postgres", "sqlapi", "sqlite".
	Type string `mapstructure:"type" yaml:"type"`

	// URL is the endpoint of a hosted SQL-over-HTTP service
	// (used by "sqlapi").
	URL string `mapstructure:"url" yaml:"url"`

	// APIKey is sent with every request to the SQL-over-HTTP service
	// if it is not empty.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// SQLitePath is the path to a local SQLite snapshot (used by "sqlite").
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// Table is the name of the table with vernacular names.
	Table string `mapstructure:"table" yaml:"table"`

	// MasterListTable is the name of the table that keeps families
	// of scientific names from curated datasets.
	MasterListTable string `mapstructure:"master_list_table" yaml:"master_list_table"`

	// Timeout is the deadline in seconds for a single store request.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
}

// ResolverConfig contains settings of the vernacular name resolution
// engine.
type ResolverConfig struct {
	// Languages is the ordered list of languages of interest.
	// Candidates in other languages are ignored.
	Languages []string `mapstructure:"languages" yaml:"languages"`

	// ChunkSize is the number of names sent to the store in one request.
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size"`

	// PriorityMin is the lowest valid source priority.
	PriorityMin int `mapstructure:"priority_min" yaml:"priority_min"`

	// PriorityMax is the highest valid source priority.
	PriorityMax int `mapstructure:"priority_max" yaml:"priority_max"`

	// PriorityDefault replaces missing or out-of-bounds priorities.
	PriorityDefault int `mapstructure:"priority_default" yaml:"priority_default"`

	// LookupGenera enables genus fallback for species without
	// a vernacular name in a language.
	LookupGenera bool `mapstructure:"lookup_genera" yaml:"lookup_genera"`

	// GenusOnEmptyName enables genus fallback also when species-level
	// candidates exist, but none of them has a common name.
	GenusOnEmptyName bool `mapstructure:"genus_on_empty_name" yaml:"genus_on_empty_name"`

	// FormatNames applies title-casing to resolved names by default.
	FormatNames bool `mapstructure:"format_names" yaml:"format_names"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "vernacular",
			SSLMode:  "disable",
		},
		Store: StoreConfig{
			Type:            "postgres",
			Table:           "vernacular_names",
			MasterListTable: "master_list",
			Timeout:         60,
		},
		Resolver: ResolverConfig{
			Languages:       []string{"en", "de", "es", "pt", "fr", "zh"},
			ChunkSize:       2000,
			PriorityMin:     0,
			PriorityMax:     100,
			PriorityDefault: 0,
			LookupGenera:    true,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
