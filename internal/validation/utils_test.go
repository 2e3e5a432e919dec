package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/go-errkit/internal/config"
	"github.com/deppfellow/go-errkit/internal/errs"
	"github.com/deppfellow/go-errkit/internal/schema/structtag"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"min=18"`
}

var formatter = errs.NewFormatter(config.ModeProduction, zerolog.Nop())

func contextWithBody(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateFillsPayload(t *testing.T) {
	var out signup
	err := BindAndValidate(contextWithBody(`{"email":"a@b.co","age":30}`), formatter, LabelBody, structtag.Validator(signup{}), &out)

	require.NoError(t, err)
	assert.Equal(t, signup{Email: "a@b.co", Age: 30}, out)
}

func TestBindAndValidateLeavesPayloadOnFailure(t *testing.T) {
	out := signup{Email: "keep@me.co"}
	err := BindAndValidate(contextWithBody(`{"email":"a@b.co","age":3}`), formatter, LabelBody, structtag.Validator(signup{}), &out)

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid body", verr.Error())
	assert.Equal(t, map[string]any{"email": "a@b.co", "age": float64(3)}, verr.Value)
	assert.Equal(t, "keep@me.co", out.Email)
}

func TestBindAndValidateParseErrors(t *testing.T) {
	cases := map[string]string{
		`{"email":`:  "request body is not valid JSON",
		`{} {}`:      "request body contains trailing data",
		`{"age":"x"`: "request body is not valid JSON",
	}

	for body, message := range cases {
		t.Run(body, func(t *testing.T) {
			err := BindAndValidate(contextWithBody(body), formatter, LabelBody, structtag.Validator(signup{}), nil)

			var perr *errs.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, message, perr.Error())
		})
	}
}

func TestBindAndValidateNilPayloadOnlyValidates(t *testing.T) {
	err := BindAndValidate(contextWithBody(`{"email":"a@b.co","age":18}`), formatter, LabelBody, structtag.Validator(signup{}), nil)
	assert.NoError(t, err)
}

func TestValidateReturnsNilForConformingValue(t *testing.T) {
	assert.Nil(t, Validate(formatter, LabelBody, structtag.Validator(signup{}), signup{Email: "a@b.co", Age: 20}))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("123e4567-e89b-12d3-a456-426614174000"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("123e4567e89b12d3a456426614174000"))
}
