package pos

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway error. The HTTP surface maps kinds to status codes.
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidFormat
	KindInvalidPagination
	KindNotFound
	KindQueryFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidFormat:
		return "invalid_format"
	case KindInvalidPagination:
		return "invalid_pagination"
	case KindNotFound:
		return "not_found"
	case KindQueryFailure:
		return "query_failure"
	default:
		return "internal"
	}
}

// Error is the error type returned by every Service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func invalidFormat(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidFormat, Message: fmt.Sprintf(format, args...)}
}

func invalidPagination(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidPagination, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// queryFailure wraps a chain query error. An error that already is an *Error passes through.
func queryFailure(err error) error {
	if err == nil {
		return nil
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return err
	}
	return &Error{Kind: KindQueryFailure, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return KindInternal
}
