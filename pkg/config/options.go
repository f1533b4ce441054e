package config

import (
	"strings"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptStoreType selects the name store backend.
// Valid values: "postgres", "sqlapi", "sqlite".
func OptStoreType(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Store.Type", s) {
			c.Store.Type = s
		}
	}
}

// OptStoreURL sets the endpoint of the SQL-over-HTTP service.
func OptStoreURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if !isValidString("Store URL", s) {
			return
		}
		if !strings.HasPrefix(s, "http://") &&
			!strings.HasPrefix(s, "https://") {
			gn.Warn("<em>Store URL</em> must start with http:// or https://, "+
				"ignoring '%s'", s)
			return
		}
		c.Store.URL = s
	}
}

// OptStoreAPIKey sets the key sent to the SQL-over-HTTP service.
func OptStoreAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Store API Key", s) {
			c.Store.APIKey = s
		}
	}
}

// OptStoreSQLitePath sets the path to a local SQLite snapshot.
func OptStoreSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Store SQLite Path", s) {
			c.Store.SQLitePath = s
		}
	}
}

// OptStoreTable sets the name of the vernacular names table.
func OptStoreTable(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidIdentifier("Store Table", s) {
			c.Store.Table = s
		}
	}
}

// OptStoreMasterListTable sets the name of the master list table.
func OptStoreMasterListTable(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidIdentifier("Store Master List Table", s) {
			c.Store.MasterListTable = s
		}
	}
}

// OptStoreTimeout sets the deadline in seconds for one store request.
func OptStoreTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Store Timeout", i) {
			c.Store.Timeout = i
		}
	}
}

// OptResolverLanguages sets the ordered list of languages of interest.
// Codes are trimmed, lower-cased and deduplicated, the order is kept.
func OptResolverLanguages(langs []string) Option {
	res := NormalizeLanguages(langs)
	return func(c *Config) {
		if len(res) == 0 {
			gn.Warn("<em>Resolver Languages</em> cannot be empty, ignoring")
			return
		}
		c.Resolver.Languages = res
	}
}

// OptResolverChunkSize sets the number of names per store request.
func OptResolverChunkSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Resolver Chunk Size", i) {
			c.Resolver.ChunkSize = i
		}
	}
}

// OptResolverPriorities sets bounds and the default of source priority.
// The values are applied together, because they are only valid
// in relation to each other: min < max and min <= def <= max.
func OptResolverPriorities(min, max, def int) Option {
	return func(c *Config) {
		if min >= max || def < min || def > max {
			gn.Warn(
				"<em>Resolver Priorities</em> need min < max and "+
					"min <= default <= max, ignoring %d, %d, %d",
				min, max, def,
			)
			return
		}
		c.Resolver.PriorityMin = min
		c.Resolver.PriorityMax = max
		c.Resolver.PriorityDefault = def
	}
}

// OptResolverLookupGenera enables or disables genus fallback.
func OptResolverLookupGenera(b bool) Option {
	return func(c *Config) {
		c.Resolver.LookupGenera = b
	}
}

// OptResolverGenusOnEmptyName enables genus fallback for species that
// only have candidates with empty common names.
func OptResolverGenusOnEmptyName(b bool) Option {
	return func(c *Config) {
		c.Resolver.GenusOnEmptyName = b
	}
}

// OptResolverFormatNames makes title-casing of names the default.
func OptResolverFormatNames(b bool) Option {
	return func(c *Config) {
		c.Resolver.FormatNames = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent store requests.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

// NormalizeLanguages trims, lower-cases and deduplicates language codes
// keeping their original order. Empty codes are dropped.
func NormalizeLanguages(langs []string) []string {
	seen := make(map[string]struct{}, len(langs))
	res := make([]string, 0, len(langs))
	for _, v := range langs {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}
