package shared

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound  Kind = "NOT_FOUND"
	KindInvalid   Kind = "INVALID_REQUEST"
	KindForbidden Kind = "FORBIDDEN"
)

// Error is a business failure reported to the caller as-is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// for every not-found message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound  = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalid   = &Error{Kind: KindInvalid, Message: "invalid request"}
	ErrForbidden = &Error{Kind: KindForbidden, Message: "forbidden"}
)

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
