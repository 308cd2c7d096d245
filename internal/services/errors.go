package services

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeStorage    ErrorType = "STORAGE"
)

// ServiceError is returned by every service operation that fails.
type ServiceError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeNotFound, Operation: operation, Message: msg}
}

func NewStorageError(operation, msg string, cause error) *ServiceError {
	return &ServiceError{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}

// ErrorTypeOf returns the ServiceError type in err's chain, or "" if there is none.
func ErrorTypeOf(err error) ErrorType {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Type
	}
	return ""
}
