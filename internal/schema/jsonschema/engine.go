// Package jsonschema is the schema engine for OpenAPI / JSON-Schema
// documents, backed by kin-openapi.
//
// Values are normalised through encoding/json before they are visited, so Go
// structs, typed maps and plain decoded JSON are all checked the same way.
// Integers without an exact float64 (beyond 2^53) are reported as failures
// because the engine checks numbers as float64.
package jsonschema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"sort"
	"strconv"
	"strings"

	"github.com/deppfellow/go-errkit/internal/schema"
	"github.com/getkin/kin-openapi/openapi3"
)

// ErrorExtension is the schema extension carrying a custom error annotation.
// Its value may be a string, a schema.ErrorFunc or a plain function with the
// same signature.
const ErrorExtension = "x-error"

// Engine validates values against *openapi3.Schema definitions.
type Engine struct{}

// New returns the kin-openapi backed engine.
func New() *Engine {
	return &Engine{}
}

var _ schema.Engine = (*Engine)(nil)

// Errors implements schema.Engine. s must be an *openapi3.Schema or an
// *openapi3.SchemaRef.
func (e *Engine) Errors(s any, value any) iter.Seq[schema.Failure] {
	return func(yield func(schema.Failure) bool) {
		node, err := asSchema(s)
		if err != nil {
			yield(schema.Failure{Message: err.Error(), Schema: s})
			return
		}
		visit(node, value, yield)
	}
}

// Create implements schema.Engine.
func (e *Engine) Create(s any) (any, error) {
	node, err := asSchema(s)
	if err != nil {
		return nil, err
	}
	return newGenerator().create(node)
}

// Checker is a schema whose document was validated once up front.
type Checker struct {
	schema *openapi3.Schema
}

var _ schema.Checker = (*Checker)(nil)

// Compile validates the schema document itself and returns a checker that
// skips the lookup on every call.
func Compile(ctx context.Context, s *openapi3.Schema) (*Checker, error) {
	if s == nil {
		return nil, errors.New("jsonschema: nil schema")
	}
	if err := s.Validate(ctx); err != nil {
		return nil, fmt.Errorf("jsonschema: invalid schema: %w", err)
	}
	return &Checker{schema: s}, nil
}

// Errors implements schema.Checker.
func (c *Checker) Errors(value any) iter.Seq[schema.Failure] {
	return func(yield func(schema.Failure) bool) {
		visit(c.schema, value, yield)
	}
}

// Schema implements schema.Checker.
func (c *Checker) Schema() any {
	return c.schema
}

// Validator is a shorthand for schema.FromSchema(New(), s).
func Validator(s *openapi3.Schema) schema.Validator {
	return schema.FromSchema(New(), s)
}

// MustCompile compiles s for use as a precompiled validator and panics on an
// invalid document. It is meant for package-level schema declarations.
func MustCompile(s *openapi3.Schema) schema.Validator {
	c, err := Compile(context.Background(), s)
	if err != nil {
		panic(err)
	}
	return schema.Precompiled(New(), c)
}

func asSchema(s any) (*openapi3.Schema, error) {
	switch s := s.(type) {
	case *openapi3.Schema:
		if s != nil {
			return s, nil
		}
	case *openapi3.SchemaRef:
		if s != nil && s.Value != nil {
			return s.Value, nil
		}
	}
	return nil, fmt.Errorf("jsonschema: unsupported schema %T", s)
}

func visit(s *openapi3.Schema, value any, yield func(schema.Failure) bool) {
	normalized, err := normalize(value)
	if err != nil {
		var lossy *impreciseNumberError
		if errors.As(err, &lossy) {
			yield(schema.Failure{Path: pointer(lossy.path), Message: lossy.Error(), Schema: s})
			return
		}
		yield(schema.Failure{Message: err.Error(), Schema: s, Error: annotation(s)})
		return
	}

	err = s.VisitJSON(normalized, openapi3.MultiErrors())
	if err == nil {
		return
	}
	flatten(s, err, yield)
}

// flatten walks nested multi-errors in order. It returns false once yield
// asked to stop.
func flatten(root *openapi3.Schema, err error, yield func(schema.Failure) bool) bool {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			if !flatten(root, inner, yield) {
				return false
			}
		}
		return true

	case *openapi3.SchemaError:
		node := e.Schema
		if node == nil {
			node = root
		}
		return yield(schema.Failure{
			Path:    pointer(e.JSONPointer()),
			Message: e.Reason,
			Schema:  node,
			Error:   annotation(node),
		})
	}

	return yield(schema.Failure{Message: err.Error(), Schema: root, Error: annotation(root)})
}

func pointer(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return "/" + strings.Join(segments, "/")
}

// annotation reads the x-error extension of s.
func annotation(s *openapi3.Schema) schema.CustomError {
	if s == nil || s.Extensions == nil {
		return nil
	}

	switch v := s.Extensions[ErrorExtension].(type) {
	case string:
		return schema.ErrorText(v)
	case json.RawMessage:
		var text string
		if err := json.Unmarshal(v, &text); err == nil {
			return schema.ErrorText(text)
		}
	case schema.ErrorFunc:
		return v
	case func(string, schema.Validator, any) string:
		return schema.ErrorFunc(v)
	case schema.CustomError:
		return v
	}
	return nil
}

// normalize turns arbitrary Go values into the JSON shapes kin-openapi
// visits (map[string]any, []any, float64, string, bool, nil). Numbers are
// decoded exactly first; a number float64 cannot hold without rounding is
// reported instead of being checked as a different value.
func normalize(value any) (any, error) {
	switch value.(type) {
	case nil, bool, float64, string:
		return value, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON encodable: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("value is not JSON encodable: %w", err)
	}
	return exactNumbers(out, nil)
}

type impreciseNumberError struct {
	path   []string
	number json.Number
}

func (e *impreciseNumberError) Error() string {
	return fmt.Sprintf("number %s cannot be represented exactly", e.number)
}

// exactNumbers replaces json.Number leaves by float64, in key order so the
// first reported number is stable.
func exactNumbers(v any, path []string) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			item, err := exactNumbers(v[k], append(path[:len(path):len(path)], k))
			if err != nil {
				return nil, err
			}
			v[k] = item
		}
		return v, nil

	case []any:
		for i, item := range v {
			converted, err := exactNumbers(item, append(path[:len(path):len(path)], strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			v[i] = converted
		}
		return v, nil

	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, &impreciseNumberError{path: path, number: v}
		}
		// Integer literals must survive the conversion digit for digit.
		if !strings.ContainsAny(string(v), ".eE") && strconv.FormatFloat(f, 'f', -1, 64) != string(v) {
			return nil, &impreciseNumberError{path: path, number: v}
		}
		return f, nil
	}
	return v, nil
}
