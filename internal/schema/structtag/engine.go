// Package structtag is the schema engine for Go structs annotated with
// go-playground/validator tags.
//
// A schema is a prototype value of the struct type (or a pointer to it):
//
//	type CreateUser struct {
//		Name string `json:"name" validate:"required,min=3"`
//		Age  int    `json:"age" validate:"min=0" error:"Age must be numeric"`
//	}
//
//	v := structtag.Validator(CreateUser{})
//
// Field names follow the json tags, so failure paths match what a client
// sent ("/address/city", "/tags/0"). The optional `error` tag is the custom
// error annotation of a field.
package structtag

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/deppfellow/go-errkit/internal/schema"
	"github.com/go-playground/validator/v10"
)

// ErrorTag is the struct tag carrying a custom error message.
const ErrorTag = "error"

// Engine validates values against struct prototypes.
type Engine struct {
	validate *validator.Validate
}

var _ schema.Engine = (*Engine)(nil)

// New returns an engine with its own validator instance.
func New() *Engine {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report json names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &Engine{validate: validate}
}

var defaultEngine = New()

// Validator is a shorthand for schema.FromSchema with the package engine.
func Validator(prototype any) schema.Validator {
	return schema.FromSchema(defaultEngine, prototype)
}

// Errors implements schema.Engine.
func (e *Engine) Errors(s any, value any) iter.Seq[schema.Failure] {
	return func(yield func(schema.Failure) bool) {
		for _, f := range e.check(s, value) {
			if !yield(f) {
				return
			}
		}
	}
}

// Create implements schema.Engine by returning the zero value of the
// prototype's struct type.
func (e *Engine) Create(s any) (any, error) {
	t, err := structType(s)
	if err != nil {
		return nil, err
	}
	return reflect.New(t).Elem().Interface(), nil
}

func (e *Engine) check(s any, value any) []schema.Failure {
	t, err := structType(s)
	if err != nil {
		return []schema.Failure{{Message: err.Error(), Schema: s}}
	}

	target, failure := coerce(t, value)
	if failure != nil {
		return []schema.Failure{*failure}
	}

	err = e.validate.Struct(target)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []schema.Failure{{Message: err.Error(), Schema: t}}
	}

	failures := make([]schema.Failure, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field, ok := lookupField(t, fe.StructNamespace())

		f := schema.Failure{
			Path:    namespacePath(fe.Namespace()),
			Message: fieldMessage(fe),
			Schema:  t,
		}
		if ok {
			f.Schema = field
			if text, tagged := field.Tag.Lookup(ErrorTag); tagged {
				f.Error = schema.ErrorText(text)
			}
		}
		failures = append(failures, f)
	}
	return failures
}

func structType(s any) (reflect.Type, error) {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("structtag: schema must be a struct prototype, got %T", s)
	}
	return t, nil
}

// coerce returns a pointer to a value of type t built from value. Values of
// type t are used as they are; anything else goes through JSON.
func coerce(t reflect.Type, value any) (any, *schema.Failure) {
	rv := reflect.ValueOf(value)
	for rv.IsValid() && rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Type() != reflect.PointerTo(t) {
		rv = rv.Elem()
	}

	switch {
	case !rv.IsValid():
		return nil, &schema.Failure{Message: "Expected " + describe(t), Schema: t}
	case rv.Type() == reflect.PointerTo(t):
		if rv.IsNil() {
			return nil, &schema.Failure{Message: "Expected " + describe(t), Schema: t}
		}
		return rv.Interface(), nil
	case rv.Type() == t:
		ptr := reflect.New(t)
		ptr.Elem().Set(rv)
		return ptr.Interface(), nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, &schema.Failure{Message: "Expected " + describe(t), Schema: t}
	}

	ptr := reflect.New(t)
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(ptr.Interface()); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			path := ""
			if typeErr.Field != "" {
				path = "/" + strings.ReplaceAll(typeErr.Field, ".", "/")
			}
			return nil, &schema.Failure{Path: path, Message: "Expected " + describe(typeErr.Type), Schema: t}
		}
		return nil, &schema.Failure{Message: "Expected " + describe(t), Schema: t}
	}
	return ptr.Interface(), nil
}

func describe(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	}
	return t.String()
}

// namespacePath turns "CreateUser.address.tags[0]" into "/address/tags/0".
func namespacePath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) <= 1 {
		return ""
	}

	var b strings.Builder
	for _, part := range parts[1:] {
		for part != "" {
			name, rest, _ := strings.Cut(part, "[")
			if name != "" {
				b.WriteString("/" + name)
			}
			if rest == "" {
				break
			}
			idx, after, _ := strings.Cut(rest, "]")
			b.WriteString("/" + idx)
			part = after
		}
	}
	return b.String()
}

// lookupField resolves a struct namespace ("CreateUser.Address.City") to
// the struct field it names.
func lookupField(root reflect.Type, structNS string) (reflect.StructField, bool) {
	parts := strings.Split(structNS, ".")
	if len(parts) <= 1 {
		return reflect.StructField{}, false
	}

	t := root
	var field reflect.StructField
	for _, part := range parts[1:] {
		name, _, _ := strings.Cut(part, "[")
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return reflect.StructField{}, false
		}

		f, ok := t.FieldByName(name)
		if !ok {
			return reflect.StructField{}, false
		}
		field = f
		t = f.Type
	}
	return field, true
}
