package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/flagx"
)

var ownFlags = []string{"-a", "-u", "-d", "-t", "-i", "-v"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the quote API
//	-u string   base URL of the auth API
//	-d string   path to the local database file
//	-t int      request timeout in seconds
//	-i int      session check interval in seconds
//	-v string   log level (debug, info, warn, error)
//
// args are filtered with flagx.FilterArgs first, so flags owned by other
// layers (such as -c) are ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("quotehub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "quote API base URL")
	fs.StringVar(&cfg.AuthBaseURL, "u", cfg.AuthBaseURL, "auth API base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds)")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.SessionCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
