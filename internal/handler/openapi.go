package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contact-relay/internal/server"
)

// OpenAPIHandler serves the API docs UI. The page loads Scalar from a CDN
// and reads /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	uiPath string
}

// NewOpenAPIHandler constructs an OpenAPIHandler that reads static/openapi.html.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		uiPath:  "static/openapi.html",
	}
}

// ServeOpenAPIUI serves the docs page with caching disabled, so edits show up
// on the next reload.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(h.uiPath)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
