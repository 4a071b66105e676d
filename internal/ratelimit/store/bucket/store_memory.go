package bucket

import (
	"context"
	"math"
	"sync"
	"time"

	"studytrail/internal/ratelimit/models"
)

// InMemoryBucketStore implements BucketStore using an in-memory sliding window.
// It is per-process; use RedisBucketStore when several instances share limits.
type InMemoryBucketStore struct {
	mu         sync.Mutex
	buckets    map[string]*slidingWindow
	clock      func() time.Time
	sweepEvery time.Duration
	lastSweep  time.Time
}

const defaultSweepInterval = time.Minute

// slidingWindow tracks request timestamps. A sliding window avoids the
// burst a fixed window allows at its boundary.
type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

type MemoryOption func(*InMemoryBucketStore)

func WithClock(clock func() time.Time) MemoryOption {
	return func(s *InMemoryBucketStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSweepInterval sets how often expired buckets are dropped.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(s *InMemoryBucketStore) {
		if d > 0 {
			s.sweepEvery = d
		}
	}
}

func NewInMemory(opts ...MemoryOption) *InMemoryBucketStore {
	s := &InMemoryBucketStore{
		buckets:    make(map[string]*slidingWindow),
		clock:      time.Now,
		sweepEvery: defaultSweepInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.clock()
	return s
}

// Allow checks if a request is allowed and counts it when it is.
func (s *InMemoryBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN is Allow with a request cost. A cost of zero or less consumes
// nothing and reports the current state.
func (s *InMemoryBucketStore) AllowN(_ context.Context, key string, cost int, limit int, window time.Duration) (*models.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.sweep(now)
	if cost <= 0 {
		return s.peek(key, limit, window, now), nil
	}
	sw := s.getOrCreateBucket(key, window)
	sw.cleanup(now)

	if len(sw.timestamps)+cost <= limit {
		for range cost {
			sw.timestamps = append(sw.timestamps, now)
		}
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - len(sw.timestamps),
			ResetAt:   sw.timestamps[0].Add(window),
		}, nil
	}

	resetAt := now.Add(window)
	if len(sw.timestamps) > 0 {
		resetAt = sw.timestamps[0].Add(window)
	}
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfter(resetAt.Sub(now)),
	}, nil
}

// Reset clears the counter for a key.
func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// GetCurrentCount returns the number of requests inside the window.
func (s *InMemoryBucketStore) GetCurrentCount(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw := s.buckets[key]
	if sw == nil {
		return 0, nil
	}
	sw.cleanup(s.clock())
	if len(sw.timestamps) == 0 {
		delete(s.buckets, key)
	}
	return len(sw.timestamps), nil
}

// peek must be called while holding s.mu.
func (s *InMemoryBucketStore) peek(key string, limit int, window time.Duration, now time.Time) *models.RateLimitResult {
	result := &models.RateLimitResult{Allowed: true, Limit: limit, Remaining: limit, ResetAt: now.Add(window)}
	sw := s.buckets[key]
	if sw == nil {
		return result
	}
	sw.cleanup(now)
	result.Remaining = max(0, limit-len(sw.timestamps))
	if len(sw.timestamps) > 0 {
		result.ResetAt = sw.timestamps[0].Add(sw.window)
	}
	return result
}

// sweep drops buckets with no requests left in their window. Must be called
// while holding s.mu.
func (s *InMemoryBucketStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.sweepEvery {
		return
	}
	s.lastSweep = now
	for key, sw := range s.buckets {
		sw.cleanup(now)
		if len(sw.timestamps) == 0 {
			delete(s.buckets, key)
		}
	}
}

// Len reports how many keys currently hold a bucket.
func (s *InMemoryBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func (sw *slidingWindow) cleanup(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// getOrCreateBucket must be called while holding s.mu.
func (s *InMemoryBucketStore) getOrCreateBucket(key string, window time.Duration) *slidingWindow {
	if sw := s.buckets[key]; sw != nil {
		return sw
	}
	sw := &slidingWindow{window: window}
	s.buckets[key] = sw
	return sw
}

// retryAfter rounds d up to whole seconds, never below one.
func retryAfter(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}
