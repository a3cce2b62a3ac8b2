// Package apperr defines the sentinel error categories used across neckgen-cli.
//
// Error taxonomy
//
//	UserError    – invalid or missing user input (unknown preset, bad --set
//	               value, unsupported export format, …). The CLI prints only
//	               the message. Exit code: 1.
//
//	ErrCancelled – the user aborted an interactive flow (designer, wizard,
//	               overwrite confirmation). Exit code: 0.
//
// Geometry and calculation problems are not Go errors: they travel as
// messages inside a calculation result and are surfaced by the orchestrator.
// Everything else (I/O, decoding, transport) is a plain error wrapped with
// fmt.Errorf("context: %w", err).
package apperr

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user explicitly aborts an interactive
// operation. The CLI exits 0 when it sees this error.
var ErrCancelled = errors.New("operation cancelled")

// UserError represents an error caused by invalid or missing user input.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// User creates a UserError with the given message.
func User(msg string) error { return &UserError{Message: msg} }

// Userf creates a formatted UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// IsUser reports whether err is (or wraps) a *UserError.
func IsUser(err error) bool {
	var u *UserError
	return errors.As(err, &u)
}
