package config

import (
	"os"
	"time"
)

// EnvAPIURL overrides the backend base URL from the environment.
const EnvAPIURL = "KAANOON_API_URL"

// Config holds runtime settings for the kaanoon CLI.
//
// Fields:
//   - APIBaseURL: root URL of the backend HTTP API.
//   - CallbackAddr: host:port the Google sign-in callback listener binds.
//   - StateDBPath: SQLite file that keeps the credential between runs.
//   - RequestTimeout: per-request limit; 0 leaves it to the transport.
//   - ResendCooldown: how long "resend code" stays disabled.
//   - RedirectDelay: pause before an automatic redirect after an error.
//   - LogLevel: debug, info, warn or error.
//   - OpenBrowser: launch the system browser for Google sign-in.
//   - Ephemeral: keep the credential in memory only.
type Config struct {
	APIBaseURL     string
	CallbackAddr   string
	StateDBPath    string
	RequestTimeout time.Duration
	ResendCooldown time.Duration
	RedirectDelay  time.Duration
	LogLevel       string
	OpenBrowser    bool
	Ephemeral      bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.CallbackAddr = "127.0.0.1:8765"
	c.StateDBPath = "session.db"
	c.RequestTimeout = 0
	c.ResendCooldown = 60 * time.Second
	c.RedirectDelay = 3 * time.Second
	c.LogLevel = "info"
	c.OpenBrowser = false
	c.Ephemeral = false
}

// parseEnv applies environment overrides.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvAPIURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given), the environment and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
