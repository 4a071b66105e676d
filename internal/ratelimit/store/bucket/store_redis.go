package bucket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"studytrail/internal/ratelimit/models"
)

// RedisBucketStore implements BucketStore as a fixed window counter in Redis,
// shared by every instance pointing at the same server.
type RedisBucketStore struct {
	client redis.Cmdable
	clock  func() time.Time
}

func NewRedis(client redis.Cmdable) *RedisBucketStore {
	return &RedisBucketStore{client: client, clock: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN increments the window counter by cost. Denied requests still count
// toward the window.
func (s *RedisBucketStore) AllowN(ctx context.Context, key string, cost int, limit int, window time.Duration) (*models.RateLimitResult, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.IncrBy(ctx, key, int64(cost))
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis allow %s: %w", key, err)
	}

	count := int(incr.Val())
	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = window
	}
	resetAt := s.clock().Add(remaining)

	if count <= limit {
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - count,
			ResetAt:   resetAt,
		}, nil
	}
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfter(remaining),
	}, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis reset %s: %w", key, err)
	}
	return nil
}

func (s *RedisBucketStore) GetCurrentCount(ctx context.Context, key string) (int, error) {
	n, err := s.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis count %s: %w", key, err)
	}
	return n, nil
}
