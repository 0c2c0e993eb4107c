// Package config loads runtime configuration for the QuoteHub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, after a .env file in the working directory has
//     been loaded with godotenv: QUOTEHUB_API_URL, QUOTEHUB_AUTH_URL,
//     QUOTEHUB_DB, QUOTEHUB_LOG_LEVEL, QUOTEHUB_REQUEST_TIMEOUT.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   quote API base URL
//	-u string   auth API base URL
//	-d string   local database path
//	-t int      request timeout (seconds)
//	-i int      session check interval (seconds)
//	-v string   log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://quotes.example.com/api",
//	  "auth_base_url": "https://auth.example.com/api",
//	  "database_path": "quotehub.db",
//	  "request_timeout": "10s",
//	  "session_check_interval": "1m",
//	  "cache_ttl": "5m",
//	  "page_size": 12,
//	  "log_level": "info"
//	}
package config
