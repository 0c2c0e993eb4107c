package config

import (
	"os"
	"time"
)

const (
	DefaultBaseURL      = "https://backend-auth-system-production.up.railway.app/api"
	DefaultDatabasePath = "quotehub.db"
)

// Config holds runtime settings for the QuoteHub CLI.
//
// Units: all intervals are time.Duration values.
type Config struct {
	APIBaseURL           string
	AuthBaseURL          string
	DatabasePath         string
	RequestTimeout       time.Duration
	SessionCheckInterval time.Duration
	CacheTTL             time.Duration
	PageSize             int
	LogLevel             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultBaseURL
	c.AuthBaseURL = DefaultBaseURL
	c.DatabasePath = DefaultDatabasePath
	c.RequestTimeout = 10 * time.Second
	c.SessionCheckInterval = time.Minute
	c.CacheTTL = 5 * time.Minute
	c.PageSize = 12
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a .env file in the working directory), a JSON file
// and command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	return cfg, nil
}
