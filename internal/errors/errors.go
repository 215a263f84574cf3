package errors

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the storefront can surface: transport
// failures against the commerce backend, missing entities, rejected input,
// and auth problems. Handlers map kinds onto HTTP statuses; callers branch
// on KindOf instead of string matching.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
)

var (
	ErrEmptyAuth    = Unauthorized("missing authorization")
	ErrTokenInvalid = Unauthorized("invalid token")
	ErrTokenExpired = Unauthorized("token expired")
)

type Error struct {
	Kind    Kind
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.wrapped.Error())
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.wrapped }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, wrapped: err}
}

func Transport(message string, err error) *Error {
	return Wrap(KindTransport, message, err)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// KindOf reports the kind carried anywhere in err's chain, defaulting to
// transport for errors that never went through this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
