package ratelimit

import (
	"sync"
	"time"
)

// MemoryStore counts requests in fixed windows held in process memory.
//
// Windows are aligned the same way as RedisStore's keys, so a single
// instance behaves exactly like the Redis-backed deployment.
type MemoryStore struct {
	policy Policy
	now    func() time.Time

	mu       sync.Mutex
	counters map[string]*windowCounter
	swept    int64
}

type windowCounter struct {
	window int64
	count  int
}

// NewMemoryStore creates a fixed-window store for p.
func NewMemoryStore(p Policy) *MemoryStore {
	return &MemoryStore{
		policy:   p,
		now:      time.Now,
		counters: make(map[string]*windowCounter),
	}
}

// Allow implements middleware.RateLimiterStore.
func (s *MemoryStore) Allow(identifier string) (bool, error) {
	window := s.now().UnixNano() / int64(s.policy.Window)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(window)

	counter, ok := s.counters[identifier]
	if !ok || counter.window != window {
		counter = &windowCounter{window: window}
		s.counters[identifier] = counter
	}
	counter.count++

	return counter.count <= s.policy.Limit, nil
}

// sweep drops counters of past windows, at most once per window.
func (s *MemoryStore) sweep(window int64) {
	if window == s.swept {
		return
	}
	for id, counter := range s.counters {
		if counter.window < window {
			delete(s.counters, id)
		}
	}
	s.swept = window
}
