package server

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorType classifies failures across the conversion and execution pipeline.
type ErrorType string

const (
	// ErrorTypeSpec marks a malformed or unsupported API description.
	// Fatal at startup: no catalog is served past it.
	ErrorTypeSpec ErrorType = "specification"
	// ErrorTypeConfig marks a bad base URL or HTTP method on one tool.
	// The rest of the catalog keeps working.
	ErrorTypeConfig ErrorType = "configuration"
	// ErrorTypeValidation marks a malformed caller payload, e.g. an
	// undecodable file-upload value.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNetwork marks transport failures and timeouts.
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeNotFound marks an unknown tool name at call time.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeExecution marks a non-2xx upstream response or a declared-JSON
	// body that fails to parse.
	ErrorTypeExecution ErrorType = "execution"
	ErrorTypeInternal  ErrorType = "internal"
	ErrorTypeDatabase  ErrorType = "database"
)

// ServerError is a structured error carried through per-call failure paths.
// Per-call errors never abort the process; they are rendered into the tool
// result and returned to the caller as data.
type ServerError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Timestamp  int64     `json:"timestamp"`
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewError creates a ServerError.
func NewError(errType ErrorType, message string, details string) *ServerError {
	return &ServerError{
		Type:      errType,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Unix(),
	}
}

// NewHTTPError creates an execution error carrying the upstream status code.
func NewHTTPError(statusCode int, message string, details string) *ServerError {
	err := NewError(ErrorTypeExecution, message, details)
	err.StatusCode = statusCode
	return err
}

// Wrap wraps a standard error as a ServerError. Returns nil for a nil error.
func Wrap(err error, errType ErrorType, message string) *ServerError {
	if err == nil {
		return nil
	}
	// Timeouts and cancellations are network-class regardless of where they
	// were observed.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		errType = ErrorTypeNetwork
	}
	return NewError(errType, message, err.Error())
}

// IsType reports whether err is a ServerError of the given type.
func IsType(err error, errType ErrorType) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Type == errType
	}
	return false
}

// GetType returns the error type, defaulting to internal for foreign errors.
func GetType(err error) ErrorType {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Type
	}
	return ErrorTypeInternal
}
