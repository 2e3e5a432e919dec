package handler

import (
	"net/http"

	"github.com/deppfellow/go-errkit/internal/middleware"
	"github.com/deppfellow/go-errkit/internal/schema"
	"github.com/deppfellow/go-errkit/internal/schema/jsonschema"
	"github.com/deppfellow/go-errkit/internal/schema/structtag"
	"github.com/deppfellow/go-errkit/internal/server"
	"github.com/deppfellow/go-errkit/internal/validation"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

// CreatePersonRequest is validated by struct tags.
type CreatePersonRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email" error:"Email must be a valid address"`
	Age   int    `json:"age" validate:"min=0,max=150"`
}

// Person is returned by CreatePerson.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// AgeRequest is validated by a JSON schema.
type AgeRequest struct {
	Age int64 `json:"age"`
}

// AgeResponse is returned by RecordAge.
type AgeResponse struct {
	Age   int64 `json:"age"`
	Adult bool  `json:"adult"`
}

// AgeSchema requires an object with an integer "age".
func AgeSchema() *openapi3.Schema {
	return &openapi3.Schema{
		Type:     openapi3.TypeObject,
		Required: []string{"age"},
		Properties: openapi3.Schemas{
			"age": &openapi3.SchemaRef{Value: openapi3.NewIntegerSchema()},
		},
	}
}

// PeopleHandler serves endpoints whose bodies are validated by the two
// schema engines.
type PeopleHandler struct {
	Handler

	person schema.Validator
	age    schema.Validator
}

// NewPeopleHandler constructs a PeopleHandler.
func NewPeopleHandler(s *server.Server) *PeopleHandler {
	return &PeopleHandler{
		Handler: NewHandler(s),
		person:  structtag.Validator(CreatePersonRequest{}),
		age:     jsonschema.MustCompile(AgeSchema()),
	}
}

// CreatePerson handles POST /people.
func (h *PeopleHandler) CreatePerson() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req CreatePersonRequest) (Person, error) {
		middleware.GetLogger(c).Debug().Str("name", req.Name).Msg("person accepted")
		return Person(req), nil
	}, http.StatusCreated, Route{Label: validation.LabelBody, Validator: h.person})
}

// RecordAge handles POST /ages.
func (h *PeopleHandler) RecordAge() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req AgeRequest) (AgeResponse, error) {
		return AgeResponse{Age: req.Age, Adult: req.Age >= 18}, nil
	}, http.StatusOK, Route{Label: validation.LabelBody, Validator: h.age})
}
