package sos

import "errors"

// ErrNotFound is returned when no SOS request exists for the given id.
var ErrNotFound = errors.New("sos request not found")

// ErrNotAuthenticated is returned when a write action arrives without an
// acting identity. The write is not attempted.
var ErrNotAuthenticated = errors.New("not authenticated")

// ValidationError reports a missing or malformed input field. The failed
// transition causes no state change and the caller is told which field to
// correct.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
