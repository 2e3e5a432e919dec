package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/go-errkit/internal/config"
	"github.com/deppfellow/go-errkit/internal/errs"
	"github.com/deppfellow/go-errkit/internal/handler"
	"github.com/deppfellow/go-errkit/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, mode config.Mode) *echo.Echo {
	t.Helper()

	s, err := server.New(&config.Config{
		Primary:       config.Primary{Env: "test"},
		Server:        config.ServerConfig{Port: "0", ReadTimeout: 1, WriteTimeout: 1, IdleTimeout: 1},
		Observability: config.DefaultObservabilityConfig(),
	}, nil)
	require.NoError(t, err)
	s.Validation = errs.NewFormatter(mode, zerolog.Nop())

	return New(s, handler.NewHandlers(s))
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStatusRoute(t *testing.T) {
	e := newRouter(t, config.ModeDevelopment)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, "development", body.ValidationMode)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAgeValidationDevelopment(t *testing.T) {
	e := newRouter(t, config.ModeDevelopment)

	rec := post(e, "/ages", `{"age":"old"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get(echo.HeaderContentType))

	msg := rec.Body.String()
	assert.True(t, strings.HasPrefix(msg, "Invalid body, 'age': value must be"), msg)
	assert.Contains(t, msg, "\n\nExpected: {\n  \"age\": 0\n}")
	assert.True(t, strings.HasSuffix(msg, "\n\nFound: {\n  \"age\": \"old\"\n}"), msg)
}

func TestAgeValidationProduction(t *testing.T) {
	e := newRouter(t, config.ModeProduction)

	rec := post(e, "/ages", `{"age":"old"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid body", rec.Body.String())
}

func TestAgeAccepted(t *testing.T) {
	e := newRouter(t, config.ModeProduction)

	rec := post(e, "/ages", `{"age":21}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.AgeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, handler.AgeResponse{Age: 21, Adult: true}, body)
}

func TestCreatePerson(t *testing.T) {
	e := newRouter(t, config.ModeDevelopment)

	rec := post(e, "/people", `{"name":"Ada","email":"ada@example.com","age":36}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body handler.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, handler.Person{Name: "Ada", Email: "ada@example.com", Age: 36}, body)
}

func TestCustomErrorWinsInBothModes(t *testing.T) {
	for _, mode := range []config.Mode{config.ModeDevelopment, config.ModeProduction} {
		t.Run(mode.String(), func(t *testing.T) {
			e := newRouter(t, mode)

			rec := post(e, "/people", `{"name":"Ada","email":"nope","age":36}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Email must be a valid address", rec.Body.String())
		})
	}
}

func TestMalformedBodyIsParseError(t *testing.T) {
	e := newRouter(t, config.ModeDevelopment)

	rec := post(e, "/people", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(errs.CodeParse), body.Code)
	assert.Equal(t, "request body is not valid JSON", body.Message)
}

func TestUnknownRoute(t *testing.T) {
	e := newRouter(t, config.ModeDevelopment)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}
