// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and the global error handler, and maps
// paths to their handlers.
package router

import (
	"github.com/deppfellow/go-errkit/internal/handler"
	"github.com/deppfellow/go-errkit/internal/middleware"
	"github.com/deppfellow/go-errkit/internal/server"
	"github.com/labstack/echo/v4"
)

// New builds the echo instance serving h.
//
// Middleware order matters: the request ID must exist before the
// context enhancer builds the request logger, and the request logger
// must wrap Recover so recovered panics are logged with their status.
func New(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middleware.RequestID(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
	)

	registerSystemRoutes(router, h)
	registerPeopleRoutes(router, h)

	return router
}
