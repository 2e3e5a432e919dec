package handler

import (
	"github.com/deppfellow/go-errkit/internal/server"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Health *HealthHandler // Health serves the liveness endpoint.
	People *PeopleHandler // People serves the validated body endpoints.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(s),
		People: NewPeopleHandler(s),
	}
}
