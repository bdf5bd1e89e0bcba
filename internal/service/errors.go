package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrInvalidInviteCode indicates that the presented invite code does
	// not belong to any user. API layer should map this to HTTP 404.
	ErrInvalidInviteCode = errors.New("invite code does not exist")

	// ErrSelfReferral indicates that a user tried to accept their own
	// invite code. API layer should map this to HTTP 422.
	ErrSelfReferral = errors.New("users cannot refer themselves")

	// ErrAlreadyReferred indicates that the user already has a recorded
	// referrer. The referral link is immutable once set.
	ErrAlreadyReferred = errors.New("user already has a referrer")

	// ErrEmptyPlanUnits indicates a plan composition request with no units.
	ErrEmptyPlanUnits = errors.New("plan must contain at least one unit")
)

// ServiceError wraps unexpected errors from a service with the failed
// operation for context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "record_completion")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
