// Package pkg holds utilities shared across the project.
// This file defines the domain error type.
//
// Every failure that reaches a handler is (or wraps) an *Error carrying a Kind
// and a message that is safe to show to the end user. Handlers never format
// error strings themselves; they ask Message and Status.
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error. The handler layer maps kinds to HTTP status
// codes (see Status).
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindAlreadyExists
	KindUnauthorized
	KindTooManyRequests
)

// String returns the kind's name, used in log fields.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindAlreadyExists:
		return "already_exists"
	case KindUnauthorized:
		return "unauthorized"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Error is the single domain error type.
//
// Message is user-facing. Err is the underlying cause, kept for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for the kinds repositories return.
var (
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "not found"}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists, Message: "already exists"}
	ErrBadRequest    = &Error{Kind: KindBadRequest, Message: "bad request"}
)

// internalMessage is what end users see for KindInternal failures.
const internalMessage = "an unexpected error occurred"

// E builds an error of the given kind with a user-facing message.
func E(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind around a cause.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain.
// Errors that carry no *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing text for err.
// Internal errors never leak their cause.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return internalMessage
	}
	return e.Message
}
