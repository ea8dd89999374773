package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisTimeout = 500 * time.Millisecond

// RedisStore counts requests in fixed windows shared by every replica.
//
// Each client gets one key per window, e.g.
// ratelimit:contact:203.0.113.9:28937461, incremented with INCR and expired
// together with its window.
type RedisStore struct {
	client redis.UniversalClient
	policy Policy
	logger *zerolog.Logger
	now    func() time.Time
}

// NewRedisStore creates a fixed-window store for p.
func NewRedisStore(client redis.UniversalClient, p Policy, logger *zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		policy: p,
		logger: logger,
		now:    time.Now,
	}
}

// Allow implements middleware.RateLimiterStore.
//
// Redis failures fail open: the request is allowed and a warning logged.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	count, err := s.increment(ctx, identifier)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("policy", s.policy.Name).
			Str("identifier", identifier).
			Msg("rate limit store unavailable, allowing request")
		return true, nil
	}

	return count <= int64(s.policy.Limit), nil
}

func (s *RedisStore) increment(ctx context.Context, identifier string) (int64, error) {
	window := s.now().UnixNano() / int64(s.policy.Window)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", s.policy.Name, identifier, window)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, s.policy.Window)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return incr.Val(), nil
}
