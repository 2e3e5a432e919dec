package handler

import (
	"time"

	"github.com/deppfellow/go-errkit/internal/middleware"
	"github.com/deppfellow/go-errkit/internal/schema"
	"github.com/deppfellow/go-errkit/internal/server"
	"github.com/deppfellow/go-errkit/internal/validation"
	"github.com/labstack/echo/v4"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc represents a typed endpoint function that receives a
// validated request payload and returns a response or an error.
type HandlerFunc[Req any, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint function for routes that return no response body.
type HandlerFuncNoContent[Req any] func(c echo.Context, req Req) error

// ResponseHandler defines how a successful handler result is written.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result any) error

	// GetOperation returns an operation name used for structured logging.
	GetOperation() string
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

// NoContentResponseHandler writes responses with no body (typically 204).
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

// Route describes how a request body is validated: the label used in
// messages and the validator run against the decoded body.
type Route struct {
	Label     string
	Validator schema.Validator
}

// handleRequest is the shared execution pipeline for all handlers:
// binding and validation, structured logging with timings, handler
// execution and response writing. Errors are returned untouched so the
// global error handler can format them.
func handleRequest[Req any](
	h Handler,
	c echo.Context,
	route Route,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("route", c.Path()).
		Str("label", route.Label).
		Logger()

	logger.Info().Msg("handling request")

	validationStart := time.Now()

	var req Req
	if err := validation.BindAndValidate(c, h.server.Validation, route.Label, route.Validator, &req); err != nil {
		logger.Error().
			Err(err).
			Dur("validation_duration", time.Since(validationStart)).
			Msg("request validation failed")

		return err
	}

	validationDuration := time.Since(validationStart)
	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")
		return err
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler with validation, error handling and logging.
//
//	e.POST("/people", handler.Handle(h, createPerson, http.StatusCreated,
//		handler.Route{Label: "body", Validator: personValidator}))
func Handle[Req any, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	route Route,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(h, c, route, func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent is Handle for endpoints that don't return content.
func HandleNoContent[Req any](
	h Handler,
	handler HandlerFuncNoContent[Req],
	status int,
	route Route,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(h, c, route, func(c echo.Context, req Req) (any, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}
