// Package apperr classifies failures of a user action so handlers can decide
// how to surface them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a failure.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindConfig           Kind = "config"
	KindEmpty            Kind = "empty"
	KindTransport        Kind = "transport"
	KindTimeout          Kind = "timeout"
	KindProvider         Kind = "provider"
	KindInsufficientData Kind = "insufficient_data"
)

// Error carries the kind of failure, the operation it happened in and an
// optional cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func Validation(op, message string) *Error {
	return New(KindValidation, op, message, nil)
}

func Config(op, message string) *Error {
	return New(KindConfig, op, message, nil)
}

func Empty(op, message string) *Error {
	return New(KindEmpty, op, message, nil)
}

func Transport(op string, err error) *Error {
	return New(KindTransport, op, "request failed", err)
}

func Timeout(op string, attempts int, err error) *Error {
	return New(KindTimeout, op, fmt.Sprintf("timed out after %d attempt(s)", attempts), err)
}

// Provider wraps a non-success status reported by an external provider. The
// message is the provider's own text.
func Provider(op, message string) *Error {
	return New(KindProvider, op, message, nil)
}

func InsufficientData(op, message string) *Error {
	return New(KindInsufficientData, op, message, nil)
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
