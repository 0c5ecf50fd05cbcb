// Package config loads the server configuration from environment variables
// (optionally from a .env file) and the household definition from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported ledger backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendGSheets  = "gsheets"
)

// Config represents the application configuration.
type Config struct {
	Port     int
	LogLevel string

	// Backend selects the tabular store: sqlite, postgres or gsheets.
	Backend     string
	DBPath      string
	DatabaseURL string
	Sheets      SheetsConfig

	// CacheTTL bounds how long whole-sheet reads are memoized. Zero disables
	// the cache.
	CacheTTL time.Duration

	// ProvisionSheets creates missing period and status sheets on startup.
	// Defaults to true for the database backends and false for gsheets.
	ProvisionSheets bool

	Household *Household
}

// SheetsConfig represents Google Sheets configuration.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsPath string
	Endpoint        string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	port, err := parseIntEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}

	ttl, err := parseDurationEnv("CACHE_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getEnvOrDefault("LEDGER_BACKEND", BackendSQLite))

	// Database backends start empty, so they create their sheets unless told
	// otherwise. A spreadsheet is usually prepared by hand.
	provision, err := parseBoolEnv("PROVISION_SHEETS", backend != BackendGSheets)
	if err != nil {
		return nil, err
	}

	household := DefaultHousehold()
	if path := os.Getenv("HOUSEHOLD_CONFIG"); path != "" {
		household, err = LoadHousehold(path)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Port:        port,
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		Backend:     backend,
		DBPath:      getEnvOrDefault("DB_PATH", "./data/kas.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Sheets: SheetsConfig{
			SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
			CredentialsPath: getEnvOrDefault("GOOGLE_CREDENTIALS", "credentials.json"),
			Endpoint:        os.Getenv("SHEETS_ENDPOINT"),
		},
		CacheTTL:        ttl,
		ProvisionSheets: provision,
		Household:       household,
	}

	return cfg, nil
}

// Validate checks that the selected backend has what it needs and that the
// household definition is usable.
func (c *Config) Validate() error {
	var missing []string

	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			missing = append(missing, "DB_PATH")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendGSheets:
		if c.Sheets.SpreadsheetID == "" {
			missing = append(missing, "SPREADSHEET_ID")
		}
		if c.Sheets.Endpoint == "" && c.Sheets.CredentialsPath == "" {
			missing = append(missing, "GOOGLE_CREDENTIALS")
		}
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q (want %s, %s or %s)", c.Backend, BackendSQLite, BackendPostgres, BackendGSheets)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	if c.Household == nil {
		return fmt.Errorf("household configuration is missing")
	}
	return c.Household.Validate()
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

// parseBoolEnv parses a bool ("true", "false", "1", "0") from an environment
// variable. Returns defaultValue if the environment variable is not set.
func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}
	return parsed, nil
}

// parseDurationEnv accepts Go durations ("30m") or plain seconds ("3600").
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}
	return d, nil
}
