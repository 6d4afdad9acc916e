package authflow

import (
	"errors"
	"fmt"
)

// ValidationError is a client-side rejection (empty field, password policy,
// mismatched confirmation). It never reaches the network and is surfaced
// immediately.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

// SecurityError is raised when the OAuth callback state does not match the
// persisted one. The flow is aborted and the pending OAuth artifacts are
// destroyed without any network call.
type SecurityError struct {
	Message string
}

func (e *SecurityError) Error() string {
	return "security: " + e.Message
}

// ErrInFlight is returned when a submission of the same flow is already
// outstanding. The duplicate is dropped, not queued.
var ErrInFlight = errors.New("submission already in flight")

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
