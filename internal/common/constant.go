// Package common contains shared constants and small helpers used across
// the kaanoon client packages.
package common

const (
	// RequestIDHeaderName carries a per-request correlation id on every
	// outbound backend call.
	RequestIDHeaderName = "X-Request-ID"

	// AccessTokenKey is the state DB key holding the bearer credential.
	AccessTokenKey = "access_token"

	// AccessTokenSavedAtKey records when the credential was last written.
	AccessTokenSavedAtKey = "access_token_saved_at"

	// DefaultOrganizationType is used when the signup form leaves it empty.
	DefaultOrganizationType = "law_firm"

	// OTPLength is the number of digits in a verification code.
	OTPLength = 6
)
