package workflow

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies workflow failures so callers can render them.
type Kind string

const (
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindIllegalTransition Kind = "ILLEGAL_TRANSITION"
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
)

// Error is the workflow error type. Every Kind aborts the operation with no
// state written.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, " "))
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so errors.Is(err, ErrUnauthorized) works.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrIllegalTransition = &Error{Kind: KindIllegalTransition, Message: "illegal transition"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
)

func Unauthorized(message string, fields map[string]string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Fields: fields}
}

func IllegalTransition(message string, fields map[string]string) *Error {
	return &Error{Kind: KindIllegalTransition, Message: message, Fields: fields}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(message string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Cause: cause}
}

// KindOf returns the Kind of a workflow error, or "" for anything else.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
