package structtag

import (
	"reflect"
	"testing"

	"github.com/deppfellow/go-errkit/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city" validate:"required"`
}

type createUser struct {
	Name    string   `json:"name" validate:"required,min=3"`
	Age     int      `json:"age" validate:"min=0,max=150" error:"Age must be numeric"`
	Email   string   `json:"email,omitempty" validate:"omitempty,email"`
	Role    string   `json:"role" validate:"omitempty,oneof=admin user"`
	Tags    []string `json:"tags" validate:"dive,min=2"`
	Address *address `json:"address"`
}

func TestDecodedValueTypeMismatch(t *testing.T) {
	v := Validator(createUser{})

	first, ok := schema.First(v.Errors(map[string]any{"name": "bob", "age": "old"}))
	require.True(t, ok)
	assert.Equal(t, "/age", first.Path)
	assert.Equal(t, "Expected integer", first.Message)
}

func TestTagFailuresUseJSONNames(t *testing.T) {
	v := Validator(createUser{})

	failures := schema.Collect(v.Errors(createUser{Name: "al", Age: 200, Email: "nope", Role: "root"}))
	require.Len(t, failures, 4)

	assert.Equal(t, "/name", failures[0].Path)
	assert.Equal(t, "must be at least 3 characters", failures[0].Message)
	assert.Nil(t, failures[0].Error)

	assert.Equal(t, "/age", failures[1].Path)
	assert.Equal(t, "must not exceed 150", failures[1].Message)
	require.NotNil(t, failures[1].Error)
	msg, resolved := failures[1].Error.Resolve("body", v, nil)
	assert.True(t, resolved)
	assert.Equal(t, "Age must be numeric", msg)

	field, isField := failures[1].Schema.(reflect.StructField)
	require.True(t, isField)
	assert.Equal(t, "Age", field.Name)

	assert.Equal(t, "/email", failures[2].Path)
	assert.Equal(t, "must be a valid email address", failures[2].Message)

	assert.Equal(t, "/role", failures[3].Path)
	assert.Equal(t, "must be one of: admin user", failures[3].Message)
}

func TestNestedPaths(t *testing.T) {
	v := Validator(&createUser{})

	failures := schema.Collect(v.Errors(&createUser{
		Name:    "alice",
		Tags:    []string{"ok", "x"},
		Address: &address{},
	}))
	require.Len(t, failures, 2)

	assert.Equal(t, "/tags/1", failures[0].Path)
	assert.Equal(t, "/address/city", failures[1].Path)
	assert.Equal(t, "is required", failures[1].Message)
}

func TestValidValue(t *testing.T) {
	v := Validator(createUser{})

	_, ok := schema.First(v.Errors(map[string]any{"name": "alice", "age": 30}))
	assert.False(t, ok)
}

func TestNilAndInvalidSchemas(t *testing.T) {
	v := Validator(createUser{})

	first, ok := schema.First(v.Errors(nil))
	require.True(t, ok)
	assert.Equal(t, "", first.Path)
	assert.Equal(t, "Expected object", first.Message)

	first, ok = schema.First(Validator(42).Errors(map[string]any{}))
	require.True(t, ok)
	assert.Contains(t, first.Message, "struct prototype")
}

func TestCreate(t *testing.T) {
	example, err := New().Create(&createUser{})
	require.NoError(t, err)
	assert.Equal(t, createUser{}, example)

	_, err = New().Create("nope")
	assert.Error(t, err)
}

func TestNamespacePath(t *testing.T) {
	assert.Equal(t, "", namespacePath("createUser"))
	assert.Equal(t, "/age", namespacePath("createUser.age"))
	assert.Equal(t, "/tags/0", namespacePath("createUser.tags[0]"))
	assert.Equal(t, "/matrix/1/2", namespacePath("createUser.matrix[1][2]"))
	assert.Equal(t, "/address/city", namespacePath("createUser.address.city"))
}
