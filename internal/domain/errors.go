package domain

import "errors"

// ErrorKind is the stable, machine-checkable reason code carried by rejections.
type ErrorKind string

const (
	KindInvalidInput         ErrorKind = "INVALID_INPUT"
	KindInsufficientQuantity ErrorKind = "INSUFFICIENT_QUANTITY"
	KindForbidden            ErrorKind = "FORBIDDEN"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindInvalidState         ErrorKind = "INVALID_STATE"
)

// Error is a rejection with a reason code and a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrInsufficientQuantity = &Error{Kind: KindInsufficientQuantity}
	ErrForbidden            = &Error{Kind: KindForbidden}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrInvalidState         = &Error{Kind: KindInvalidState}
)

func InvalidInput(msg string) error         { return &Error{Kind: KindInvalidInput, Message: msg} }
func InsufficientQuantity(msg string) error { return &Error{Kind: KindInsufficientQuantity, Message: msg} }
func Forbidden(msg string) error            { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error             { return &Error{Kind: KindNotFound, Message: msg} }
func InvalidState(msg string) error         { return &Error{Kind: KindInvalidState, Message: msg} }

// KindOf returns the reason code of err, or "" when err is not a domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
