// Package cli provides the interactive kaanoon command-line client.
//
// It wires configuration, the local state DB, the backend API client, the
// session and the auth services behind a small REPL. Each screen of the
// sign-in journey (home, login, signup, verify-otp, dashboard) is a REPL
// state; transitions come back from the session and OTP flow as
// NavigationIntent values and are applied by App.navigate.
//
// Commands:
//   - login / google / signup: public entry points
//   - verify / resend / status / back: OTP verification after signup
//   - profile / logout: signed-in only
//   - help / exit
//
// Google sign-in opens (or prints) the provider URL and waits for the
// backend to redirect the browser to http://<callback_addr>/auth/callback
// with either a token or an error query parameter. The backend's frontend
// URL must point at the configured callback address for this to work.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
