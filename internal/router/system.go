package router

import (
	"github.com/deppfellow/go-errkit/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the API proper.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
}

func registerPeopleRoutes(r *echo.Echo, h *handler.Handlers) {
	r.POST("/people", h.People.CreatePerson())
	r.POST("/ages", h.People.RecordAge())
}
