// Package schema holds the engine-neutral contracts the error formatter
// talks to: what a validation failure looks like, how a schema engine is
// asked for failures and example values, and how a caller hands over either
// a raw schema or a precompiled checker.
//
// Concrete engines live in sub-packages (jsonschema, structtag).
package schema

import (
	"fmt"
	"iter"
)

// Failure is a single violation reported by an engine.
type Failure struct {
	// Path is a slash-delimited pointer into the checked value ("/age",
	// "/tags/0"). The root of the value is "".
	Path string

	// Message is the engine's human-readable description of the violated constraint.
	Message string

	// Schema is the node that produced the failure.
	Schema any

	// Error is the custom error annotation carried by Schema, nil when absent.
	Error CustomError
}

// CustomError is an annotation a schema node may carry to replace the
// generated diagnostic with a message of its own.
type CustomError interface {
	// Resolve produces the custom message. ok is false when no message could
	// be produced, which callers must treat as "no custom error" (distinct
	// from an empty message).
	Resolve(label string, v Validator, value any) (msg string, ok bool)
}

// ErrorText is a literal custom error message. An empty text counts as no
// annotation.
type ErrorText string

func (t ErrorText) Resolve(string, Validator, any) (string, bool) {
	return string(t), t != ""
}

// ErrorFunc computes a custom error message from the label of what was
// validated, the validator and the rejected value.
type ErrorFunc func(label string, v Validator, value any) string

// Resolve calls f. A panicking f resolves to no custom error.
func (f ErrorFunc) Resolve(label string, v Validator, value any) (msg string, ok bool) {
	if f == nil {
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			msg, ok = "", false
		}
	}()

	return f(label, v, value), true
}

// Engine is a schema-validation engine working on raw schemas.
type Engine interface {
	// Errors returns every failure of value against s, in engine order.
	Errors(s any, value any) iter.Seq[Failure]

	// Create builds an example value conforming to s. It may fail for
	// schemas that cannot be instantiated.
	Create(s any) (any, error)
}

// Describer is implemented by engines whose raw definitions cannot always be
// encoded as they are, such as self-referencing schemas. Describe returns a
// form of s that is safe to print.
type Describer interface {
	Describe(s any) any
}

// Checker is a schema prepared once for repeated checking.
type Checker interface {
	Errors(value any) iter.Seq[Failure]

	// Schema returns the definition the checker was built from.
	Schema() any
}

type validatorKind int

const (
	kindSchema validatorKind = iota
	kindPrecompiled
)

// Validator is either a raw schema bound to its engine or a precompiled
// checker. Build one with FromSchema or Precompiled.
type Validator struct {
	kind    validatorKind
	engine  Engine
	schema  any
	checker Checker
}

// FromSchema wraps a raw schema understood by engine.
func FromSchema(engine Engine, s any) Validator {
	return Validator{kind: kindSchema, engine: engine, schema: s}
}

// Precompiled wraps a checker. engine is still needed to build example
// values from the checker's definition.
func Precompiled(engine Engine, c Checker) Validator {
	return Validator{kind: kindPrecompiled, engine: engine, checker: c}
}

// IsPrecompiled reports whether v was built with Precompiled.
func (v Validator) IsPrecompiled() bool {
	return v.kind == kindPrecompiled
}

// Errors returns the lazy failure sequence of value. Each range over the
// result runs the check again.
func (v Validator) Errors(value any) iter.Seq[Failure] {
	switch {
	case v.kind == kindPrecompiled && v.checker != nil:
		return v.checker.Errors(value)
	case v.kind == kindSchema && v.engine != nil:
		return v.engine.Errors(v.schema, value)
	default:
		return func(func(Failure) bool) {}
	}
}

// Definition returns the raw schema behind v.
func (v Validator) Definition() any {
	if v.kind == kindPrecompiled {
		if v.checker == nil {
			return nil
		}
		return v.checker.Schema()
	}
	return v.schema
}

// Describe returns the definition in a form safe to encode, using the
// engine's Describer when it has one.
func (v Validator) Describe() any {
	if d, ok := v.engine.(Describer); ok {
		return d.Describe(v.Definition())
	}
	return v.Definition()
}

// Create asks the engine for an example value of v's definition.
func (v Validator) Create() (any, error) {
	if v.engine == nil {
		return nil, fmt.Errorf("schema: no engine to create an example value")
	}
	return v.engine.Create(v.Definition())
}

// First returns the first failure of seq, if any.
func First(seq iter.Seq[Failure]) (Failure, bool) {
	for f := range seq {
		return f, true
	}
	return Failure{}, false
}

// Collect materialises seq in order.
func Collect(seq iter.Seq[Failure]) []Failure {
	var out []Failure
	for f := range seq {
		out = append(out, f)
	}
	return out
}

// FromSlice adapts an already computed failure list to a sequence.
func FromSlice(failures []Failure) iter.Seq[Failure] {
	return func(yield func(Failure) bool) {
		for _, f := range failures {
			if !yield(f) {
				return
			}
		}
	}
}
