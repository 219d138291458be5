package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// GatewayError describes a failed gateway call. It unwraps to one of the
// sentinel errors above so callers can use errors.Is.
type GatewayError struct {
	Op        string
	Status    int
	RequestID string
	Message   string
	Err       error
}

func (e *GatewayError) Error() string {
	s := fmt.Sprintf("%s: %v", e.Op, e.Err)
	if e.Status != 0 {
		s += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// RequestIDOf returns the correlation id carried by err, if any.
func RequestIDOf(err error) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.RequestID
	}
	return ""
}
