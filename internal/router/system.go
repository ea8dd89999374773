package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contact-relay/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the contact
// flow: health status, the docs UI and its static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// openapi.json and openapi.html
	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
