package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/flagx"
	"github.com/dmitrijs2005/quotehub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Absent fields leave the
// runtime Config untouched.
type JsonConfig struct {
	APIBaseURL           string          `json:"api_base_url"`
	AuthBaseURL          string          `json:"auth_base_url"`
	DatabasePath         string          `json:"database_path"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	SessionCheckInterval *timex.Duration `json:"session_check_interval"`
	CacheTTL             *timex.Duration `json:"cache_ttl"`
	PageSize             int             `json:"page_size"`
	LogLevel             string          `json:"log_level"`
}

// parseJSON overlays cfg with values from the JSON file named by -c or
// -config in args. Without either flag nothing is loaded.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.AuthBaseURL, jc.AuthBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.SessionCheckInterval, jc.SessionCheckInterval)
	setDuration(&cfg.CacheTTL, jc.CacheTTL)
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
