package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/kaanoon/internal/flagx"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of the config file. Absent keys leave the
// current value alone.
type fileConfig struct {
	APIBaseURL     string    `json:"api_base_url" yaml:"api_base_url"`
	CallbackAddr   string    `json:"callback_addr" yaml:"callback_addr"`
	StateDBPath    string    `json:"state_db_path" yaml:"state_db_path"`
	RequestTimeout *Duration `json:"request_timeout" yaml:"request_timeout"`
	ResendCooldown *Duration `json:"resend_cooldown" yaml:"resend_cooldown"`
	RedirectDelay  *Duration `json:"redirect_delay" yaml:"redirect_delay"`
	LogLevel       string    `json:"log_level" yaml:"log_level"`
	OpenBrowser    *bool     `json:"open_browser" yaml:"open_browser"`
	Ephemeral      *bool     `json:"ephemeral" yaml:"ephemeral"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON. Read and decode
// errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.CallbackAddr != "" {
		cfg.CallbackAddr = fc.CallbackAddr
	}
	if fc.StateDBPath != "" {
		cfg.StateDBPath = fc.StateDBPath
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.ResendCooldown != nil {
		cfg.ResendCooldown = fc.ResendCooldown.Duration
	}
	if fc.RedirectDelay != nil {
		cfg.RedirectDelay = fc.RedirectDelay.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.OpenBrowser != nil {
		cfg.OpenBrowser = *fc.OpenBrowser
	}
	if fc.Ephemeral != nil {
		cfg.Ephemeral = *fc.Ephemeral
	}
}
