package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/go-errkit/internal/middleware"
	"github.com/deppfellow/go-errkit/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler exposes the "system" endpoint monitors use to verify the
// service is alive.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Environment    string    `json:"environment"`
	ValidationMode string    `json:"validation_mode"`
}

// CheckHealth reports that the process is serving and which validation
// mode its error messages are rendered in.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		Environment:    h.server.Config.Primary.Env,
		ValidationMode: h.server.Validation.Mode().String(),
	}

	logger.Debug().Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}
