package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/contact-relay/internal/middleware"
	"github.com/deppfellow/contact-relay/internal/server"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// endpointFunc does the work of one endpoint and returns the JSON body to
// write on success.
type endpointFunc func(c echo.Context) (any, error)

// handleRequest is the shared execution pipeline for JSON endpoints.
//
// It centralizes:
//   - structured logging (with request context)
//   - New Relic handler attributes (errors are noticed by EnhanceTracing)
//   - timing (handler duration)
//   - response writing
//
// Errors are returned untouched so the global error handler formats them.
func handleRequest(c echo.Context, operation string, fn endpointFunc, status int) error {
	start := time.Now()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
		txn.AddAttribute("handler.operation", operation)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", operation).
		Logger()

	logger.Debug().Msg("handling request")

	result, err := fn(c)
	duration := time.Since(start)

	if err != nil {
		logger.Debug().
			Err(err).
			Dur("handler_duration", duration).
			Msg("handler returned error")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", duration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", duration.Milliseconds())
	}

	logger.Debug().
		Dur("handler_duration", duration).
		Msg("request completed successfully")

	return c.JSON(status, result)
}
