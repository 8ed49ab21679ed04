package service

import (
	"errors"
	"fmt"
)

// Common service errors. Callers check them with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// ErrNoFlashcards is returned when a batch create request is empty.
	ErrNoFlashcards = errors.New("at least one flashcard is required")

	// ErrGenerationNotOwned is returned when accepted cards reference a
	// generation that does not belong to the caller.
	ErrGenerationNotOwned = errors.New("generation does not belong to the user")
)

// ServiceError is a custom error type for service errors with operation context.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
