// Package redis builds the shared go-redis client used by the rate limiter
// and the readiness check.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"studytrail/internal/platform/config"
	"studytrail/internal/platform/logger"
)

const defaultHealthTimeout = time.Second

// Client is a go-redis client that can report its own readiness.
type Client struct {
	*redis.Client
	logger        *slog.Logger
	healthTimeout time.Duration
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHealthTimeout bounds a single readiness ping.
func WithHealthTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.healthTimeout = d
		}
	}
}

// New connects and pings Redis. It returns nil, nil when no URL is set.
func New(ctx context.Context, cfg config.RedisConfig, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	redisOpts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		redisOpts.PoolSize = cfg.PoolSize
	}
	redisOpts.MinIdleConns = cfg.MinIdleConns
	redisOpts.DialTimeout = cfg.DialTimeout
	redisOpts.ReadTimeout = cfg.ReadTimeout
	redisOpts.WriteTimeout = cfg.WriteTimeout

	c := &Client{
		Client:        redis.NewClient(redisOpts),
		logger:        logger.Discard(),
		healthTimeout: defaultHealthTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	c.logger.InfoContext(ctx, "redis connected",
		"addr", redisOpts.Addr,
		"db", redisOpts.DB,
		"pool_size", redisOpts.PoolSize,
	)
	return c, nil
}

// Health pings Redis within the health timeout. On failure it logs the pool
// state, which usually tells an exhausted pool from an unreachable server.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		stats := c.PoolStats()
		c.logger.WarnContext(ctx, "redis health check failed",
			"error", err,
			"total_conns", stats.TotalConns,
			"idle_conns", stats.IdleConns,
			"timeouts", stats.Timeouts,
		)
		return fmt.Errorf("redis unavailable: %w", err)
	}
	return nil
}
