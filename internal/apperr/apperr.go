// Package apperr carries the failure kinds the API hands back to callers:
// validation, not_found, unauthorized, conflict and dependency. Handlers
// branch on the kind, the message is safe to show to a user.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindDependency   Kind = "dependency"
)

type Error struct {
	Kind    Kind
	Message string

	// Per-field messages, set for validation failures only.
	Fields map[string][]string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Validation builds a validation error from a field->messages map.
func Validation(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

// KindOf reports the kind of err, or KindDependency for anything that is
// not an *Error (store failures, unexpected errors).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDependency
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
