package middleware

import (
	"io"
	"net/http"

	"github.com/deppfellow/go-errkit/internal/errs"
	"github.com/deppfellow/go-errkit/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups "global" middleware and the global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// responder is implemented by errors that know how to answer for themselves
// (errs.ValidationError).
type responder interface {
	ToResponse(headers http.Header) *http.Response
}

// statusOf derives the final status of an error before the global error
// handler has written it.
func statusOf(err error, fallback int) int {
	var kind errs.Kind
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &kind):
		return kind.Status()
	case errors.As(err, &echoErr):
		return echoErr.Code
	}
	return fallback
}

// CORS returns echo's CORS middleware allowing the configured origins. An
// empty list keeps echo's default of any origin.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger returns echo's request logger middleware writing one
// structured "API" line per request through the request-scoped logger.
//
// When a handler returns an error echo has not written the final status yet,
// so the status is derived from the error instead.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status
			if v.Error != nil {
				statusCode = statusOf(v.Error, http.StatusInternalServerError)
			}

			logger := GetLogger(c)

			// 5xx = server fault, 4xx = client fault
			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns echo's panic recovery middleware.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error returned by a handler ends up here:
//   - echo's route 404 becomes an errs.NotFoundError;
//   - errors that build their own response (errs.ValidationError) are
//     written as they are, always with status 400;
//   - other kinds of the taxonomy are written as errs.HTTPError JSON;
//   - anything else becomes a generic 500 that hides the original text.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	// Logs keep the real underlying error, the client may get a sanitised one.
	originalErr := err

	var kind errs.Kind
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	if !errors.As(err, &kind) && !errors.As(err, &httpErr) && errors.As(err, &echoErr) {
		switch echoErr.Code {
		case http.StatusNotFound:
			err = errs.NewNotFoundError("Route not found")
		default:
			message, ok := echoErr.Message.(string)
			if !ok {
				message = http.StatusText(echoErr.Code)
			}
			err = &errs.HTTPError{
				Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
				Message: message,
				Status:  echoErr.Code,
			}
		}
	}

	body := errs.ToHTTPError(err)

	logger := GetLogger(c)
	logger.Error().Stack().
		Err(originalErr).
		Int("status", body.Status).
		Str("error_code", body.Code).
		Msg(body.Message)

	if c.Response().Committed {
		return
	}

	var r responder
	if errors.As(err, &r) {
		if writeErr := writeResponse(c, r.ToResponse(nil)); writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
		return
	}

	if writeErr := c.JSON(body.Status, body); writeErr != nil {
		logger.Error().Err(writeErr).Msg("failed to write error response")
	}
}

// writeResponse copies res onto the echo response.
func writeResponse(c echo.Context, res *http.Response) error {
	defer res.Body.Close()

	header := c.Response().Header()
	for key, values := range res.Header {
		for _, value := range values {
			header.Add(key, value)
		}
	}

	c.Response().WriteHeader(res.StatusCode)
	_, err := io.Copy(c.Response(), res.Body)
	return err
}
