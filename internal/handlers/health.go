package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the unauthenticated liveness endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Register mounts /ping and /health on the Echo instance.
func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.GET("/health", h.Ping)
}

// Ping godoc
// @Summary Liveness probe
// @Tags health
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *HealthHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
