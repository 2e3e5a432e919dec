package errs

import (
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Code is the machine-friendly discriminant of an error kind.
type Code string

const (
	CodeInternalServerError    Code = "INTERNAL_SERVER_ERROR"
	CodeNotFound               Code = "NOT_FOUND"
	CodeParse                  Code = "PARSE"
	CodeInvalidCookieSignature Code = "INVALID_COOKIE_SIGNATURE"
	CodeValidation             Code = "VALIDATION"
)

// Kind is implemented by every error of the taxonomy. Code and Status are
// fixed per kind, never per instance.
type Kind interface {
	error
	Code() Code
	Status() int
}

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "age", "error": "value must be an integer" }
type FieldError struct {
	// Field is the path of the failing field, without the leading "/".
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the JSON body written for errors that reach the HTTP edge.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`

	// Errors holds field-level validation errors. Empty in production.
	Errors []FieldError `json:"errors,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Codes and statuses are
// not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

// base holds what every kind shares: the message and the stack captured
// when the error was built.
type base struct {
	message string
	stack   error
}

func newBase(message string) base {
	return base{message: message, stack: pkgerrors.New(message)}
}

func (b *base) Error() string {
	return b.message
}

// StackTrace returns the stack captured at construction. It lets zerolog's
// pkgerrors marshaler and %+v print where the error was built.
func (b *base) StackTrace() pkgerrors.StackTrace {
	if st, ok := b.stack.(interface{ StackTrace() pkgerrors.StackTrace }); ok {
		return st.StackTrace()
	}
	return nil
}

// Format prints the message for %s and %v, and the message followed by the
// construction stack for %+v.
func (b *base) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') && b.stack != nil {
			fmt.Fprintf(s, "%+v", b.stack)
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, b.message)
	case 'q':
		fmt.Fprintf(s, "%q", b.message)
	}
}

// messageOr returns message, or fallback when message is empty.
func messageOr(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
