package session

import "errors"

var (
	// ErrBusy is returned when the same operation is already in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrLoginFailed wraps whatever stopped a credential from becoming a
	// session.
	ErrLoginFailed = errors.New("failed to complete login")
)
