package jsonschema

import (
	"errors"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateObject(t *testing.T) {
	v, err := New().Create(ageSchema())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"age": int64(0)}, v)
}

func TestCreateHonoursDefaultsAndConstraints(t *testing.T) {
	min := 18.0
	s := &openapi3.Schema{
		Type:     openapi3.TypeObject,
		Required: []string{"age", "email", "role", "tags", "nickname"},
		Properties: openapi3.Schemas{
			"age":      &openapi3.SchemaRef{Value: &openapi3.Schema{Type: openapi3.TypeInteger, Min: &min}},
			"email":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: openapi3.TypeString, Format: "email"}},
			"role":     &openapi3.SchemaRef{Value: &openapi3.Schema{Type: openapi3.TypeString, Enum: []interface{}{"admin", "user"}}},
			"tags":     &openapi3.SchemaRef{Value: &openapi3.Schema{Type: openapi3.TypeArray, MinItems: 2, Items: &openapi3.SchemaRef{Value: openapi3.NewBoolSchema()}}},
			"nickname": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: openapi3.TypeString, Default: "anon"}},
			"optional": &openapi3.SchemaRef{Value: openapi3.NewStringSchema()},
		},
	}

	v, err := New().Create(s)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"age":      int64(18),
		"email":    "user@example.com",
		"role":     "admin",
		"tags":     []any{false, false},
		"nickname": "anon",
	}, v)
}

func TestCreateScalars(t *testing.T) {
	engine := New()

	v, err := engine.Create(&openapi3.Schema{Type: openapi3.TypeString, MinLength: 3})
	require.NoError(t, err)
	assert.Equal(t, "   ", v)

	v, err = engine.Create(openapi3.NewFloat64Schema())
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = engine.Create(&openapi3.Schema{OneOf: openapi3.SchemaRefs{{Value: openapi3.NewBoolSchema()}}})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestCreateAllOfMergesObjects(t *testing.T) {
	left := &openapi3.Schema{Type: openapi3.TypeObject, Required: []string{"a"}, Properties: openapi3.Schemas{"a": {Value: openapi3.NewBoolSchema()}}}
	right := &openapi3.Schema{Type: openapi3.TypeObject, Required: []string{"b"}, Properties: openapi3.Schemas{"b": {Value: openapi3.NewStringSchema()}}}

	v, err := New().Create(&openapi3.Schema{AllOf: openapi3.SchemaRefs{{Value: left}, {Value: right}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": false, "b": ""}, v)
}

func TestCreateFailures(t *testing.T) {
	engine := New()

	_, err := engine.Create(&openapi3.Schema{Not: &openapi3.SchemaRef{Value: openapi3.NewStringSchema()}})
	assert.True(t, errors.Is(err, ErrUnsatisfiable))

	_, err = engine.Create(&openapi3.Schema{Type: "tuple"})
	assert.True(t, errors.Is(err, ErrUnsatisfiable))

	self := &openapi3.Schema{Type: openapi3.TypeObject, Required: []string{"next"}}
	self.Properties = openapi3.Schemas{"next": &openapi3.SchemaRef{Value: self}}
	_, err = engine.Create(self)
	assert.True(t, errors.Is(err, ErrRecursive))

	_, err = engine.Create(42)
	assert.Error(t, err)
}
