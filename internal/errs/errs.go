// Package errs defines the error kinds the pipeline surfaces to callers.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown  Kind = iota
	KindSchema        // missing/invalid required column
	KindCoercion      // unparseable value in a row
	KindFileRead      // corrupt or unsupported upload
	KindAPI           // upstream ads-API or insights failure
	KindNotFound      // unknown session
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema_violation"
	case KindCoercion:
		return "coercion_failure"
	case KindFileRead:
		return "file_read_error"
	case KindAPI:
		return "api_error"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(k Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf walks the chain and returns the first typed kind, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
