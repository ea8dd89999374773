// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contact-relay/internal/handler"
	"github.com/deppfellow/contact-relay/internal/middleware"
	"github.com/deppfellow/contact-relay/internal/server"
)

// NewRouter builds the Echo instance with every middleware and route.
//
// Middleware order matters:
//   - request id first, so every later layer can log it
//   - tracing before the context enhancer, which reads the transaction
//   - the request logger wraps recover so panics are logged as 500s
//   - the global rate limit runs last, after the request is fully enriched
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	router.IPExtractor = clientIPExtractor(s.Config.Server.TrustedProxies)

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.BodyLimit(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Global(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerContactRoutes(api, h, middlewares)

	return router
}
