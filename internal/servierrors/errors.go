// Package servierrors defines the coded errors the core services return.
// Every error carries a Kind so the HTTP layer can map it to a user-facing
// response without parsing message strings.
package servierrors

import (
	"errors"
	"fmt"
)

// Kind classifies a service error.
type Kind string

const (
	// KindValidation covers malformed input: bad rating, empty resolution
	// narrative, unrecognized status values.
	KindValidation Kind = "validation"
	// KindAuthorization covers principals acting outside their scope.
	KindAuthorization Kind = "authorization"
	// KindInvalidTransition covers complaint state machine violations.
	KindInvalidTransition Kind = "invalid_transition"
	// KindAlreadyExists covers duplicate feedback submissions.
	KindAlreadyExists Kind = "already_exists"
	// KindConfiguration covers staff accounts with no department assigned.
	KindConfiguration Kind = "configuration"
	// KindConflict covers concurrent transitions losing a race.
	KindConflict Kind = "conflict"
	// KindNotFound covers lookups for records that do not exist.
	KindNotFound Kind = "not_found"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or the empty string for uncoded errors.
func KindOf(err error) Kind {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
