package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/deppfellow/contact-relay/internal/errs"
	"github.com/deppfellow/contact-relay/internal/lib/ratelimit"
	"github.com/deppfellow/contact-relay/internal/server"
)

// RateLimitExceededMessage is returned with every 429.
const RateLimitExceededMessage = "Too many requests. Please try again later."

// RateLimitMiddleware enforces the per-client-IP request caps.
//
// Stores are built once so counters are shared by every request. With Redis
// configured they are also shared by every replica.
type RateLimitMiddleware struct {
	server       *server.Server
	globalStore  middleware.RateLimiterStore
	contactStore middleware.RateLimiterStore
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	cfg := s.Config.RateLimit

	// A nil *redis.Client must not reach NewStore as a non-nil interface.
	store := func(p ratelimit.Policy) middleware.RateLimiterStore {
		if s.Redis != nil {
			return ratelimit.NewStore(p, s.Redis, s.Logger)
		}
		return ratelimit.NewStore(p, nil, s.Logger)
	}

	return &RateLimitMiddleware{
		server: s,
		globalStore: store(ratelimit.Policy{
			Name:   "global",
			Limit:  cfg.GlobalLimit,
			Window: cfg.GlobalWindow,
		}),
		contactStore: store(ratelimit.Policy{
			Name:   "contact",
			Limit:  cfg.ContactLimit,
			Window: cfg.ContactWindow,
		}),
	}
}

// Global caps every /api route. System routes and CORS preflights are exempt.
func (r *RateLimitMiddleware) Global() echo.MiddlewareFunc {
	return r.limiter("global", r.globalStore, func(c echo.Context) bool {
		return c.Request().Method == http.MethodOptions ||
			!strings.HasPrefix(c.Request().URL.Path, "/api/")
	})
}

// Contact is the stricter cap for POST /api/contact.
func (r *RateLimitMiddleware) Contact() echo.MiddlewareFunc {
	return r.limiter("contact", r.contactStore, func(c echo.Context) bool {
		return c.Request().Method == http.MethodOptions
	})
}

func (r *RateLimitMiddleware) limiter(policy string, store middleware.RateLimiterStore, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: skipper,
		Store:   store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewInternalServerError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			GetLogger(c).Warn().
				Str("policy", policy).
				Str("identifier", identifier).
				Msg("rate limit exceeded")

			r.RecordRateLimitHit(c.Path(), policy)

			return errs.NewTooManyRequestsError(RateLimitExceededMessage)
		},
	})
}

// RecordRateLimitHit records a New Relic custom event when APM is enabled.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint, policy string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
			"policy":   policy,
		})
	}
}
