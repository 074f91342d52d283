package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDatabase     = errors.New("database error")

	// ErrConfigurationMissing aborts a run: a required property (apiKey, rootFolderIds) is absent.
	ErrConfigurationMissing = errors.New("configuration missing")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// MissingConfiguration reports an absent or empty required property.
func MissingConfiguration(key string) error {
	return NewAppError("CONFIG_MISSING", fmt.Sprintf("property %q is not set", key), ErrConfigurationMissing)
}
