package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contact-relay/internal/handler"
	"github.com/deppfellow/contact-relay/internal/middleware"
)

// registerContactRoutes mounts the contact form endpoint with its own,
// stricter rate limit on top of the global one.
func registerContactRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	api.POST("/contact", h.Contact.Submit, m.RateLimit.Contact())
}
