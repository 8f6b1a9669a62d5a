// Package models defines the client-side data model: the user profile
// returned by the backend, the signup draft collected before OTP
// verification, and the validation errors raised for both forms.
package models
