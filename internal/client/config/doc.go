// Package config loads runtime configuration for the kaanoon CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml/.yml are YAML, anything else is JSON.
//  3. The KAANOON_API_URL environment variable.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend API base URL
//	-l string   callback listener address (host:port)
//	-d string   state DB path
//	-t int      request timeout (seconds)
//	-v string   log level
//	-open       open the system browser for Google sign-in
//	-ephemeral  keep the credential in memory only
//
// # File schema
//
// Durations may be strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.kaanoon.example",
//	  "callback_addr": "127.0.0.1:8765",
//	  "state_db_path": "session.db",
//	  "request_timeout": "10s",
//	  "resend_cooldown": "60s",
//	  "redirect_delay": "3s",
//	  "log_level": "info",
//	  "open_browser": false
//	}
package config
