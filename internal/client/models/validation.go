package models

import "errors"

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation error")

// ValidationError is a client-side form check failure. It is raised before
// any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
