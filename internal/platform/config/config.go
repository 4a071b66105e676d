package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	HTTP          HTTPConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	RateLimit     RateLimitConfig
}

// HTTPConfig bounds the public listener and its graceful shutdown.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// DatabaseConfig configures the Postgres pool. An empty URL selects the
// in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the activity mirror. No brokers disables it.
type KafkaConfig struct {
	Brokers       []string
	ActivityTopic string
	Partitions    int32
	Replication   int16
}

// RateLimitConfig bounds account creation per client IP.
type RateLimitConfig struct {
	AccountCreateLimit  int
	AccountCreateWindow time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          envString("STUDYTRAIL_ADDR", ":8080"),
		LogLevel:      envString("LOG_LEVEL", "info"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envString("JWT_ISSUER", "studytrail"),
		JWTAudience:   envString("JWT_AUDIENCE", "studytrail-api"),
		HTTP: HTTPConfig{
			ReadHeaderTimeout: envDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       envDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      envDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout:   envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       envList("KAFKA_BROKERS"),
			ActivityTopic: envString("KAFKA_ACTIVITY_TOPIC", "user-activity"),
			Partitions:    int32(envInt("KAFKA_ACTIVITY_PARTITIONS", 3)),
			Replication:   int16(envInt("KAFKA_ACTIVITY_REPLICATION", 1)),
		},
		RateLimit: RateLimitConfig{
			AccountCreateLimit:  envInt("RATELIMIT_ACCOUNT_CREATE_LIMIT", 5),
			AccountCreateWindow: envDuration("RATELIMIT_ACCOUNT_CREATE_WINDOW", time.Hour),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
