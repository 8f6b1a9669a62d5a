package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/kaanoon/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string      backend API base URL
//	-l string      callback listener address
//	-d string      state DB path
//	-t int         request timeout in seconds (0: transport default)
//	-v string      log level
//	-open          open the browser for Google sign-in
//	-ephemeral     do not persist the credential
//
// Note: os.Args is filtered down to these flags with flagx.FilterArgs, so
// -c/-config and anything else is left to other parsers.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-d", "-t", "-v", "-open", "-ephemeral"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.CallbackAddr, "l", cfg.CallbackAddr, "address for the sign-in callback listener")
	fs.StringVar(&cfg.StateDBPath, "d", cfg.StateDBPath, "path to the local state database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.OpenBrowser, "open", cfg.OpenBrowser, "open the system browser for Google sign-in")
	fs.BoolVar(&cfg.Ephemeral, "ephemeral", cfg.Ephemeral, "keep the credential in memory only")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
