// Package client talks to the kaanoon backend.
//
// # Overview
//
// The package provides:
//  1. The backend contract (see the Client interface): password login,
//     Google authorization URL, signup, OTP verify/resend and the
//     "who am I" profile call.
//  2. HTTPClient, the JSON-over-HTTP implementation. It tags each request
//     with an X-Request-ID, sends the bearer credential on /auth/me and maps
//     HTTP statuses to the sentinel errors below.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     state DB that holds the credential, using SQLite and embedded goose
//     migrations.
//
// # Error Handling
//
// Failures are *RequestError values whose Kind is one of ErrInvalidCredentials,
// ErrEmailNotVerified, ErrSessionExpired or ErrRequestFailed; transport
// failures additionally match ErrUnavailable. Match with errors.Is.
//
// All operations accept context.Context and honor cancellation.
package client
