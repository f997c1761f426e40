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

// Common application errors. Per-file errors never abort a batch; only
// configuration-level or output-file-level errors do.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrProviderUnavailable = errors.New("language model provider unavailable")
	ErrRunInProgress       = errors.New("a processing run is already in progress")
	ErrTemplate            = errors.New("template error")
	ErrOutput              = errors.New("output file error")
)

// NewAppError constructs an AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
