package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"regexp"

	"github.com/deppfellow/go-errkit/internal/errs"
	"github.com/deppfellow/go-errkit/internal/schema"
	"github.com/labstack/echo/v4"
)

// LabelBody is the label used for request bodies in validation messages.
const LabelBody = "body"

// BindAndValidate decodes the request body, validates it and fills payload.
//
// Flow:
//  1. The body is decoded as JSON into a generic value (failure -> *errs.ParseError).
//  2. The generic value is checked against v (failure -> *errs.ValidationError built by f).
//  3. The generic value is decoded into payload (failure -> *errs.ParseError).
//
// payload must be a pointer; it is left untouched when validation fails. A
// nil payload only validates.
func BindAndValidate(c echo.Context, f *errs.Formatter, label string, v schema.Validator, payload any) error {
	raw, err := decodeBody(c.Request().Body)
	if err != nil {
		return err
	}

	if verr := Validate(f, label, v, raw); verr != nil {
		return verr
	}

	if payload == nil {
		return nil
	}
	return assign(raw, payload)
}

// Validate checks value against v and returns the ValidationError for its
// first failure, or nil when value conforms.
func Validate(f *errs.Formatter, label string, v schema.Validator, value any) *errs.ValidationError {
	if _, failed := schema.First(v.Errors(value)); !failed {
		return nil
	}
	return f.New(label, v, value)
}

func decodeBody(body io.Reader) (any, error) {
	if body == nil {
		return nil, nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errs.NewParseError("could not read request body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, errs.NewParseError("request body is not valid JSON")
	}
	if dec.More() {
		return nil, errs.NewParseError("request body contains trailing data")
	}
	return raw, nil
}

func assign(raw any, payload any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return errs.NewParseError("")
	}

	if err := json.Unmarshal(data, payload); err != nil {
		var invalid *json.InvalidUnmarshalError
		if errors.As(err, &invalid) {
			return errs.NewInternalServerError("payload must be a non-nil pointer")
		}
		return errs.NewParseError("request body does not match the expected shape")
	}
	return nil
}

// uuidRegex matches standard UUID format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidUUID checks whether a string matches UUID format.
//
// Note: This validates format only. It does not validate UUID version/variant semantics.
func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(uuid)
}
