package handler

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/deppfellow/contact-relay/internal/middleware"
	"github.com/deppfellow/contact-relay/internal/server"
)

// HealthHandler exposes a "system" endpoint that uptime monitors and load
// balancers use to verify the service is alive and its relay is reachable.
type HealthHandler struct {
	Handler
	smtp *cachedCheck
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		smtp:    newCachedCheck(s.Config.Observability.HealthChecks.SMTPCacheTTL),
	}
}

// cachedCheck reuses a check result for ttl, so a public /status cannot
// make the relay dial and authenticate on every request.
type cachedCheck struct {
	mu     sync.Mutex
	every  *rate.Sometimes
	result CheckResult
}

func newCachedCheck(ttl time.Duration) *cachedCheck {
	c := &cachedCheck{}
	if ttl > 0 {
		c.every = &rate.Sometimes{Interval: ttl}
	}
	return c
}

func (c *cachedCheck) get(run func() CheckResult) CheckResult {
	if c.every == nil {
		return run()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.every.Do(func() { c.result = run() })
	return c.result
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckResult reports one dependency check.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// CheckHealth returns system health status and dependency checks.
//
// It returns:
//   - 200 OK if all checks pass
//   - 503 Service Unavailable if the SMTP relay check fails
//
// A failing Redis check is reported but does not flip the overall status,
// because the rate limiter keeps serving (fail open) without it.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	checks := h.server.Config.Observability.HealthChecks
	isHealthy := true

	if checks.Has("smtp") {
		result := h.smtp.get(func() CheckResult {
			return h.runCheck(c.Request().Context(), logger, "smtp", h.server.Email.Ping)
		})
		response.Checks["smtp"] = result
		if result.Status != "healthy" {
			isHealthy = false
		}
	}

	if checks.Has("redis") && h.server.Redis != nil {
		response.Checks["redis"] = h.runCheck(c.Request().Context(), logger, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	if !isHealthy {
		response.Status = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// runCheck runs one dependency check bounded by the configured timeout.
func (h *HealthHandler) runCheck(parent context.Context, logger zerolog.Logger, name string, check func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	checkStart := time.Now()
	err := check(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return CheckResult{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	logger.Debug().
		Str("check", name).
		Dur("response_time", elapsed).
		Msg("health check passed")

	return CheckResult{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}

func (h *HealthHandler) recordHealthCheckError(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
