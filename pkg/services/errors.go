// Package services implements the automation facade: CRUD over flows,
// connections, folders and runs, translated onto the external engine.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest       = errors.New("invalid request")
	ErrDisplayNameRequired  = errors.New("display name is required")
	ErrFlowIDRequired       = errors.New("flow ID is required")
	ErrConnectionNameNeeded = errors.New("connection name and type are required")
	ErrFolderNameRequired   = errors.New("folder display name is required")

	// Business logic conflicts (409 Conflict).
	ErrFlowModified = errors.New("flow was modified remotely since it was read")
)

// ServiceError wraps service-level errors with operation context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrDisplayNameRequired) ||
		errors.Is(err, ErrFlowIDRequired) ||
		errors.Is(err, ErrConnectionNameNeeded) ||
		errors.Is(err, ErrFolderNameRequired)
}

// IsConflictError checks if an error should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrFlowModified)
}

// NewValidationError creates a validation error with context.
func NewValidationError(op, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}
