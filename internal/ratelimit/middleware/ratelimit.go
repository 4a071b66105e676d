package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"studytrail/internal/ratelimit/metrics"
	"studytrail/internal/ratelimit/models"
	"studytrail/pkg/platform/circuit"
	"studytrail/pkg/platform/httputil"
	"studytrail/pkg/requestcontext"
)

// BucketStore counts requests per key inside a window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

const (
	outcomeAllowed    = "allowed"
	outcomeDenied     = "denied"
	outcomeFailedOpen = "failed_open"
)

// Middleware enforces per-IP limits.
//
// Limiter errors never block a request. After repeated primary failures the
// circuit opens and checks run against the fallback store, with
// X-RateLimit-Status: degraded on the response. Without a fallback the
// request passes unchecked.
type Middleware struct {
	primary  BucketStore
	fallback BucketStore
	breaker  *circuit.Breaker
	policies map[models.EndpointClass]models.Policy
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback sets the store used while the primary store's circuit is open.
func WithFallback(store BucketStore) Option {
	return func(m *Middleware) {
		m.fallback = store
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.breaker = b
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// WithPolicy sets the budget for an endpoint class.
func WithPolicy(class models.EndpointClass, policy models.Policy) Option {
	return func(m *Middleware) {
		m.policies[class] = policy
	}
}

func New(primary BucketStore, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		primary:  primary,
		breaker:  circuit.New("ratelimit", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(3)),
		policies: make(map[models.EndpointClass]models.Policy),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit limits requests per client IP for class. A class with no policy
// is not limited.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy, ok := m.policies[class]
			if m.disabled || !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			key := models.NewIPRateLimitKey(ip, class)

			result, degraded, err := m.check(ctx, key, policy)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check IP rate limit",
					"error", err,
					"class", string(class),
					"request_id", requestcontext.RequestID(ctx),
				)
				m.count(class, outcomeFailedOpen)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if degraded {
				w.Header().Set("X-RateLimit-Status", "degraded")
			}

			if !result.Allowed {
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"class", string(class),
					"request_id", requestcontext.RequestID(ctx),
				)
				m.count(class, outcomeDenied)
				writeRateLimitExceeded(w, result)
				return
			}

			m.count(class, outcomeAllowed)
			next.ServeHTTP(w, r)
		})
	}
}

// check consults the primary store and routes to the fallback while the
// circuit is open. The primary is still called so the circuit can close.
func (m *Middleware) check(ctx context.Context, key string, policy models.Policy) (*models.RateLimitResult, bool, error) {
	result, err := m.primary.Allow(ctx, key, policy.Limit, policy.Window)
	if err != nil {
		if m.metrics != nil {
			m.metrics.IncrementLimiterErrors()
		}
		useFallback, change := m.breaker.RecordFailure()
		m.reportChange(ctx, change)
		if !useFallback || m.fallback == nil {
			return nil, false, err
		}
		return m.checkFallback(ctx, key, policy)
	}

	usePrimary, change := m.breaker.RecordSuccess()
	m.reportChange(ctx, change)
	if usePrimary || m.fallback == nil {
		return result, false, nil
	}
	return m.checkFallback(ctx, key, policy)
}

func (m *Middleware) checkFallback(ctx context.Context, key string, policy models.Policy) (*models.RateLimitResult, bool, error) {
	result, err := m.fallback.Allow(ctx, key, policy.Limit, policy.Window)
	if err != nil {
		return nil, true, err
	}
	return result, true, nil
}

func (m *Middleware) reportChange(ctx context.Context, change circuit.Change) {
	switch {
	case change.Opened:
		m.logger.WarnContext(ctx, "rate limit store circuit opened, using fallback", "breaker", m.breaker.Name())
	case change.Closed:
		m.logger.InfoContext(ctx, "rate limit store circuit closed", "breaker", m.breaker.Name())
	default:
		return
	}
	if m.metrics != nil {
		m.metrics.SetDegraded(change.Opened)
	}
}

func (m *Middleware) count(class models.EndpointClass, outcome string) {
	if m.metrics != nil {
		m.metrics.IncrementCheck(string(class), outcome)
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests from this IP address. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
