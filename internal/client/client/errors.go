package client

import "errors"

var (
	// ErrInvalidCredentials is a rejected email/password pair (backend 401).
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailNotVerified is a login for an account whose email was never
	// confirmed (backend 403).
	ErrEmailNotVerified = errors.New("please verify your email before logging in")
	// ErrSessionExpired is a stored credential the backend no longer accepts.
	ErrSessionExpired = errors.New("session expired")
	// ErrRequestFailed covers every other non-2xx reply, malformed reply or
	// transport failure.
	ErrRequestFailed = errors.New("request failed")
	// ErrUnavailable marks transport-level failures (connection refused,
	// timeouts, cancelled contexts). It always travels inside a
	// RequestError.
	ErrUnavailable = errors.New("server unavailable")
)

// RequestError describes a failed backend exchange. Kind is one of the
// sentinels above; Detail is the backend's message (or a fallback) and is
// what the UI shows.
type RequestError struct {
	Op     string
	Status int
	Detail string
	Kind   error
	Cause  error
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.Error()
}

func (e *RequestError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
