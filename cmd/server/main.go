package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	accounthandler "studytrail/internal/account/handler"
	"studytrail/internal/account/identity"
	accountmetrics "studytrail/internal/account/metrics"
	accountservice "studytrail/internal/account/service"
	"studytrail/internal/account/store/preferences"
	"studytrail/internal/account/store/profile"
	"studytrail/internal/activity/facade"
	activityhandler "studytrail/internal/activity/handler"
	activitymetrics "studytrail/internal/activity/metrics"
	"studytrail/internal/activity/mirror"
	activityservice "studytrail/internal/activity/service"
	"studytrail/internal/activity/store/history"
	jwttoken "studytrail/internal/jwt_token"
	"studytrail/internal/platform/config"
	"studytrail/internal/platform/httpserver"
	"studytrail/internal/platform/kafka"
	"studytrail/internal/platform/logger"
	"studytrail/internal/platform/postgres"
	"studytrail/internal/platform/redis"
	ratelimitmetrics "studytrail/internal/ratelimit/metrics"
	ratelimitmw "studytrail/internal/ratelimit/middleware"
	ratelimitmodels "studytrail/internal/ratelimit/models"
	"studytrail/internal/ratelimit/store/bucket"
	httptransport "studytrail/internal/transport/http"
	"studytrail/pkg/platform/middleware/auth"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("postgres connected, schema migrated")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := redis.New(ctx, cfg.Redis, redis.WithLogger(log))
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	kafkaClient, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		log.Warn("kafka unavailable, activity mirror disabled", "error", err)
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
		if err := kafka.EnsureTopic(ctx, kafkaClient, cfg.Kafka, log); err != nil {
			log.Warn("could not ensure activity topic", "topic", cfg.Kafka.ActivityTopic, "error", err)
		}
	}

	activityMetrics := activitymetrics.New(reg)
	recorder := newRecorder(db, kafkaClient, cfg.Kafka, activityMetrics, log)
	provisioner := newProvisioner(db, recorder, reg, log)
	tracker := facade.New(recorder, facade.WithLogger(log), facade.WithMetrics(activityMetrics))

	jwtValidator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience))

	router := httptransport.NewRouter(httptransport.Dependencies{
		Accounts:    accounthandler.New(provisioner, log),
		Activity:    activityhandler.New(tracker, recorder, log),
		RequireAuth: auth.RequireAuth(jwtValidator, log),
		RateLimit:   newRateLimiter(redisClient, cfg.RateLimit, reg, log),
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Health:      healthChecks(db, redisClient, kafkaClient),
		Logger:      log,
	})

	srv := httpserver.New(cfg.Addr, router, cfg.HTTP)
	log.Info("starting studytrail", "addr", cfg.Addr)
	return httpserver.Serve(ctx, srv, cfg.HTTP, log)
}

func newRecorder(db *sql.DB, kafkaClient *kgo.Client, cfg config.KafkaConfig, m *activitymetrics.Metrics, log *slog.Logger) *activityservice.Recorder {
	opts := []activityservice.Option{
		activityservice.WithLogger(log),
		activityservice.WithMetrics(m),
	}
	if kafkaClient != nil {
		opts = append(opts, activityservice.WithMirror(mirror.NewKafka(kafkaClient, cfg.ActivityTopic,
			mirror.WithLogger(log),
			mirror.WithMetrics(m),
		)))
	}

	var store activityservice.HistoryStore = history.NewInMemory()
	if db != nil {
		store = history.NewPostgres(db)
	}
	return activityservice.New(store, opts...)
}

func newProvisioner(db *sql.DB, recorder *activityservice.Recorder, reg *prometheus.Registry, log *slog.Logger) *accountservice.Provisioner {
	var (
		provider accountservice.IdentityProvider = identity.NewInMemory()
		profiles accountservice.ProfileStore     = profile.NewInMemory()
		prefs    accountservice.PreferencesStore = preferences.NewInMemory()
	)
	if db != nil {
		provider = identity.NewPostgres(db)
		profiles = profile.NewPostgres(db)
		prefs = preferences.NewPostgres(db)
	}
	return accountservice.New(provider, profiles, prefs, recorder,
		accountservice.WithLogger(log),
		accountservice.WithMetrics(accountmetrics.New(reg)),
	)
}

// newRateLimiter counts in Redis when configured and falls back to process
// memory while Redis is failing.
func newRateLimiter(redisClient *redis.Client, cfg config.RateLimitConfig, reg *prometheus.Registry, log *slog.Logger) *ratelimitmw.Middleware {
	opts := []ratelimitmw.Option{
		ratelimitmw.WithPolicy(ratelimitmodels.ClassAccountCreate, ratelimitmodels.Policy{
			Limit:  cfg.AccountCreateLimit,
			Window: cfg.AccountCreateWindow,
		}),
		ratelimitmw.WithMetrics(ratelimitmetrics.New(reg)),
	}
	if redisClient == nil {
		return ratelimitmw.New(bucket.NewInMemory(), log, opts...)
	}
	opts = append(opts, ratelimitmw.WithFallback(bucket.NewInMemory()))
	return ratelimitmw.New(bucket.NewRedis(redisClient), log, opts...)
}

func healthChecks(db *sql.DB, redisClient *redis.Client, kafkaClient *kgo.Client) []httptransport.HealthCheck {
	var checks []httptransport.HealthCheck
	if db != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "postgres", Check: db.PingContext})
	}
	if redisClient != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
	}
	if kafkaClient != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "kafka", Check: kafkaClient.Ping})
	}
	return checks
}
