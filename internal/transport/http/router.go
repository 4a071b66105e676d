package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	accounthandler "studytrail/internal/account/handler"
	activityhandler "studytrail/internal/activity/handler"
	ratelimitmw "studytrail/internal/ratelimit/middleware"
	ratelimitmodels "studytrail/internal/ratelimit/models"
	"studytrail/pkg/platform/httputil"
	"studytrail/pkg/platform/middleware/metadata"
	"studytrail/pkg/platform/middleware/requesttime"
	"studytrail/pkg/requestcontext"
)

// HealthCheck is one dependency probed by /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Dependencies are the handlers and middleware the router mounts.
// RateLimit, Metrics and Health are optional.
type Dependencies struct {
	Accounts    *accounthandler.Handler
	Activity    *activityhandler.Handler
	RequireAuth func(http.Handler) http.Handler
	RateLimit   *ratelimitmw.Middleware
	Metrics     http.Handler
	Health      []HealthCheck
	Logger      *slog.Logger
}

// NewRouter wires all public endpoints. Handlers stay thin and delegate to
// the account and activity services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestIDToContext)
	r.Use(chimw.Recoverer)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(accessLog(deps.Logger))

	r.Get("/healthz", healthHandler(deps.Health))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.RateLimit(ratelimitmodels.ClassAccountCreate))
		}
		deps.Accounts.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(deps.RequireAuth)
		deps.Activity.Register(r)
	})

	return r
}

// requestIDToContext copies chi's request id into requestcontext so services
// can log it without importing chi.
func requestIDToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithRequestID(r.Context(), chimw.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			ctx := r.Context()
			device := metadata.ParseDevice(requestcontext.UserAgent(ctx))
			logger.InfoContext(ctx, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"browser", device.Browser,
				"os", device.OS,
				"bot", device.Bot,
				"request_id", requestcontext.RequestID(ctx),
			)
		})
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				resp.Checks[c.Name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
