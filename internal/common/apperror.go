package common

import (
	"errors"
	"fmt"
)

// AppError is the error returned at a service boundary. Message names the
// user action that failed and is suitable for an alert; Err keeps the cause
// for errors.Is matching and logs.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Alert returns the user-facing text for err. For an AppError that is its
// Message; anything else falls back to err.Error().
func Alert(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
