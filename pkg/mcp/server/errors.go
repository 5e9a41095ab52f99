package server

import (
	"errors"
	"fmt"
)

var (
	// Common server errors
	ErrUnsupported  = errors.New("not supported")
	ErrToolNotFound = errors.New("tool not found")

	// Session-related errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionTerminated = errors.New("session terminated")
)

// SessionError carries the session id alongside the underlying failure so
// transports can log which client was affected.
type SessionError struct {
	SessionID string
	Cause     error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s: %v", e.SessionID, e.Cause)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}
