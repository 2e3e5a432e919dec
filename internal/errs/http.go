package errs

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// InternalServerError is a 500 raised for failures on the server side.
type InternalServerError struct{ base }

// NewInternalServerError creates an InternalServerError. An empty message
// defaults to the code.
func NewInternalServerError(message string) *InternalServerError {
	return &InternalServerError{base: newBase(messageOr(message, string(CodeInternalServerError)))}
}

func (*InternalServerError) Code() Code  { return CodeInternalServerError }
func (*InternalServerError) Status() int { return http.StatusInternalServerError }

// NotFoundError is a 404 raised when no route or resource matches.
type NotFoundError struct{ base }

// NewNotFoundError creates a NotFoundError. An empty message defaults to
// the code.
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{base: newBase(messageOr(message, string(CodeNotFound)))}
}

func (*NotFoundError) Code() Code  { return CodeNotFound }
func (*NotFoundError) Status() int { return http.StatusNotFound }

// ParseError is a 400 raised when a request body cannot be decoded.
type ParseError struct{ base }

// NewParseError creates a ParseError. An empty message defaults to the code.
func NewParseError(message string) *ParseError {
	return &ParseError{base: newBase(messageOr(message, string(CodeParse)))}
}

func (*ParseError) Code() Code  { return CodeParse }
func (*ParseError) Status() int { return http.StatusBadRequest }

// InvalidCookieSignature is a 400 raised when a signed cookie fails
// verification.
type InvalidCookieSignature struct {
	base

	// Key is the name of the offending cookie.
	Key string
}

// NewInvalidCookieSignature creates an InvalidCookieSignature for the cookie
// key. An empty message defaults to `"<key>" has invalid cookie signature`.
func NewInvalidCookieSignature(key, message string) *InvalidCookieSignature {
	return &InvalidCookieSignature{
		base: newBase(messageOr(message, fmt.Sprintf(`"%s" has invalid cookie signature`, key))),
		Key:  key,
	}
}

func (*InvalidCookieSignature) Code() Code  { return CodeInvalidCookieSignature }
func (*InvalidCookieSignature) Status() int { return http.StatusBadRequest }

var (
	_ Kind = (*InternalServerError)(nil)
	_ Kind = (*NotFoundError)(nil)
	_ Kind = (*ParseError)(nil)
	_ Kind = (*InvalidCookieSignature)(nil)
	_ Kind = (*ValidationError)(nil)
)

// ToHTTPError converts err into the JSON body sent to clients.
//
// Kinds of the taxonomy keep their code, status and message; a kind that
// reports field errors (ValidationError in development) includes them.
// Anything else becomes a generic 500 that does not leak err's text.
func ToHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var kind Kind
	if errors.As(err, &kind) {
		out := &HTTPError{
			Code:    string(kind.Code()),
			Message: kind.Error(),
			Status:  kind.Status(),
		}
		if fe, ok := kind.(interface{ FieldErrors() []FieldError }); ok {
			out.Errors = fe.FieldErrors()
		}
		return out
	}

	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}
