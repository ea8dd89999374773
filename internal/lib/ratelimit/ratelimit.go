// Package ratelimit provides the counter stores behind the per-client
// request caps.
//
// Both stores count in fixed windows and satisfy echo's
// middleware.RateLimiterStore, so the HTTP layer can swap them without
// caring where counters live.
package ratelimit

import (
	"time"

	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Policy caps a client at Limit requests per Window.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// NewStore returns a Redis-backed store when client is non-nil and an
// in-memory store otherwise.
func NewStore(p Policy, client redis.UniversalClient, logger *zerolog.Logger) middleware.RateLimiterStore {
	if client != nil {
		return NewRedisStore(client, p, logger)
	}
	return NewMemoryStore(p)
}
