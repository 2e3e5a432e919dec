package errs

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/deppfellow/go-errkit/internal/config"
	"github.com/deppfellow/go-errkit/internal/lib/utils"
	"github.com/deppfellow/go-errkit/internal/schema"
	"github.com/rs/zerolog"
)

// ValidationError is a 400 raised when a value fails its schema.
//
// The message is rendered once, when the error is built, and never changes
// afterwards; the accessors re-run the validator on demand instead.
type ValidationError struct {
	base

	// Type labels what was validated, e.g. "body" or "query".
	Type string

	// Validator is the schema (or precompiled checker) Value failed.
	Validator schema.Validator

	// Value is the rejected input.
	Value any

	mode   config.Mode
	logger zerolog.Logger
}

func (*ValidationError) Code() Code  { return CodeValidation }
func (*ValidationError) Status() int { return http.StatusBadRequest }

// Formatter builds ValidationErrors for a fixed Mode.
type Formatter struct {
	mode   config.Mode
	logger zerolog.Logger
}

// NewFormatter returns a formatter rendering messages for mode. logger
// receives debug entries when a diagnostic step has to fall back.
func NewFormatter(mode config.Mode, logger zerolog.Logger) *Formatter {
	return &Formatter{mode: mode, logger: logger}
}

// Mode returns the mode messages are rendered for.
func (f *Formatter) Mode() config.Mode {
	return f.mode
}

// NewValidationError builds a ValidationError for the process-wide mode
// (see config.CurrentMode).
func NewValidationError(label string, v schema.Validator, value any) *ValidationError {
	return NewFormatter(config.CurrentMode(), zerolog.Nop()).New(label, v, value)
}

// New builds the error for value failing v. label names what was validated.
//
// It is meant to be called once validation has failed: it reports the
// first failure v yields and does not re-check whether there is one.
func (f *Formatter) New(label string, v schema.Validator, value any) *ValidationError {
	e := &ValidationError{
		Type:      label,
		Validator: v,
		Value:     value,
		mode:      f.mode,
		logger:    f.logger,
	}

	first, ok := e.firstFailure()

	message, hasCustom := e.customError(first, ok)
	switch {
	case hasCustom:
	case f.mode.IsProduction():
		message = e.productionMessage(first, ok)
	default:
		message = e.developmentMessage(first, ok)
	}

	e.base = newBase(message)
	return e
}

// All returns every failure of Value against Validator, in order.
func (e *ValidationError) All() (failures []schema.Failure) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug().Interface("panic", r).Msg("validator panicked while listing failures")
			failures = nil
		}
	}()

	return schema.Collect(e.Validator.Errors(e.Value))
}

// Model returns an example of the shape Validator expects. It falls back to
// the raw schema definition when no example can be created.
func (e *ValidationError) Model() any {
	return simplifyModel(e.Validator, e.logger)
}

// SimplifyModel returns an example value for v, or v's raw definition when
// the engine cannot create one.
func SimplifyModel(v schema.Validator) any {
	return simplifyModel(v, zerolog.Nop())
}

func simplifyModel(v schema.Validator, logger zerolog.Logger) any {
	return modelOr(v, logger, v.Definition)
}

// expectedModel is Model in a form safe to encode. When no example can be
// created the engine describes the definition, breaking the cycles of
// self-referencing schemas.
func (e *ValidationError) expectedModel() any {
	return modelOr(e.Validator, e.logger, e.Validator.Describe)
}

func modelOr(v schema.Validator, logger zerolog.Logger, fallback func() any) (model any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug().Interface("panic", r).Msg("example creation panicked, using raw schema")
			model = fallback()
		}
	}()

	example, err := v.Create()
	if err != nil {
		logger.Debug().Err(err).Msg("could not create example, using raw schema")
		return fallback()
	}
	return example
}

// FieldErrors lists every failure as a FieldError. It returns nil in
// production so paths never reach clients there.
func (e *ValidationError) FieldErrors() []FieldError {
	if e.mode.IsProduction() {
		return nil
	}

	failures := e.All()
	out := make([]FieldError, 0, len(failures))
	for _, f := range failures {
		out = append(out, FieldError{Field: strings.TrimPrefix(f.Path, "/"), Error: f.Message})
	}
	return out
}

// ToResponse builds the plain-text HTTP response for the error. The status
// is always 400. headers are used as given; a text/plain Content-Type is
// only added when headers has none.
func (e *ValidationError) ToResponse(headers http.Header) *http.Response {
	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", "text/plain; charset=utf-8")
	}

	body := e.Error()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", http.StatusBadRequest, http.StatusText(http.StatusBadRequest)),
		StatusCode:    http.StatusBadRequest,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func (e *ValidationError) firstFailure() (f schema.Failure, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug().Interface("panic", r).Msg("validator panicked, formatting without a failure")
			f, ok = schema.Failure{}, false
		}
	}()

	return schema.First(e.Validator.Errors(e.Value))
}

// customError resolves the annotation of the failing node. ok is false when
// there is none, which is different from an annotation resolving to "".
func (e *ValidationError) customError(first schema.Failure, found bool) (msg string, ok bool) {
	if !found || first.Error == nil {
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			msg, ok = "", false
		}
		if !ok {
			e.logger.Debug().Str("path", first.Path).Msg("custom validation error could not be resolved")
		}
	}()

	return first.Error.Resolve(e.Type, e.Validator, e.Value)
}

// productionMessage never includes the field path, schema or value.
func (e *ValidationError) productionMessage(first schema.Failure, found bool) string {
	subject := e.Type
	if subject == "" && found {
		subject = first.Message
	}
	if subject == "" {
		subject = utils.Undefined
	}
	return "Invalid " + subject
}

// developmentMessage renders the headline, the expected shape and the value
// found.
func (e *ValidationError) developmentMessage(first schema.Failure, found bool) string {
	path, message := "", utils.Undefined
	if found {
		if len(first.Path) > 0 {
			path = first.Path[1:]
		}
		message = first.Message
	}
	if path == "" {
		path = "type"
	}

	expected, err := utils.PrettyJSON(e.expectedModel())
	if err != nil {
		e.logger.Debug().Err(err).Msg("could not render expected model")
	}

	foundValue, err := utils.PrettyJSON(e.Value)
	if err != nil {
		e.logger.Debug().Err(err).Msg("could not render rejected value")
	}

	return fmt.Sprintf("Invalid %s, '%s': %s\n\nExpected: %s\n\nFound: %s", e.Type, path, message, expected, foundValue)
}
