package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

const (
	dotEnvFile = ".env"

	EnvAPIURL         = "QUOTEHUB_API_URL"
	EnvAuthURL        = "QUOTEHUB_AUTH_URL"
	EnvDatabase       = "QUOTEHUB_DB"
	EnvLogLevel       = "QUOTEHUB_LOG_LEVEL"
	EnvRequestTimeout = "QUOTEHUB_REQUEST_TIMEOUT"
)

// loadDotEnv copies variables from path into the process environment.
// Variables already set win, and a missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvAPIURL, &cfg.APIBaseURL},
		{EnvAuthURL, &cfg.AuthBaseURL},
		{EnvDatabase, &cfg.DatabasePath},
		{EnvLogLevel, &cfg.LogLevel},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
