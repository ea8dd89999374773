//go:build integration

package ratelimit

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testRedisURL = "redis://localhost:6379/0"

func newTestRedisClient(t *testing.T) redis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err(), "failed to connect to Redis")

	t.Cleanup(func() {
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return client
}

func TestRedisStore_Allow(t *testing.T) {
	client := newTestRedisClient(t)
	logger := zerolog.Nop()

	store := NewRedisStore(client, Policy{Name: "test-allow", Limit: 2, Window: time.Minute}, &logger)
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	for i := 0; i < 2; i++ {
		allowed, err := store.Allow("203.0.113.9")
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, err := store.Allow("203.0.113.9")
	require.NoError(t, err)
	require.False(t, allowed)

	t.Run("next window resets the count", func(t *testing.T) {
		store.now = func() time.Time { return fixed.Add(time.Minute) }

		allowed, err := store.Allow("203.0.113.9")
		require.NoError(t, err)
		require.True(t, allowed)
	})

	t.Run("key expires with its window", func(t *testing.T) {
		window := fixed.UnixNano() / int64(time.Minute)
		ttl, err := client.TTL(context.Background(), "ratelimit:test-allow:203.0.113.9:"+strconv.FormatInt(window, 10)).Result()
		require.NoError(t, err)
		require.Greater(t, ttl, time.Duration(0))
		require.LessOrEqual(t, ttl, time.Minute)
	})
}
