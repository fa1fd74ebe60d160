package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	Port       int
	DBURL      string
	DBMaxConns int

	// "postgres" or "memory"
	Storage string

	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	JWTTTLMinutes int

	// "sha256" keeps the stored digest format; "bcrypt" opts into salted hashing.
	PasswordHasher string

	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ReportCacheTTLSeconds int

	TracingEnabled bool
	OTELEndpoint   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	WorkerPollMillis  int
	WorkerConcurrency int
	WorkerHealthPort  int
	WorkerLockTTLSecs int
	WorkerMaxAttempts int
}

func Load() Config {
	// a missing .env is fine, real deployments use the environment
	_ = godotenv.Load()

	return Config{
		Env:     getEnv("APP_ENV", "dev"),
		Port:    getEnvInt("PORT", 8080),
		DBURL:   buildDBURL(),
		Storage: getEnv("STORAGE", "postgres"),

		DBMaxConns: getEnvInt("DB_MAX_CONNS", 5),

		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:     getEnv("JWT_ISSUER", "hradmin"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "hradmin-portal"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),

		PasswordHasher: strings.ToLower(getEnv("PASSWORD_HASHER", "sha256")),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5175"}),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		ReportCacheTTLSeconds: getEnvInt("REPORT_CACHE_TTL_SECONDS", 30),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTELEndpoint:   getEnv("OTEL_ENDPOINT", "localhost:4317"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "reports@hradmin.local"),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		WorkerPollMillis:  getEnvInt("WORKER_POLL_MS", 500),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 2),
		WorkerHealthPort:  getEnvInt("WORKER_HEALTH_PORT", 8081),
		WorkerLockTTLSecs: getEnvInt("WORKER_LOCK_TTL_SECONDS", 120),
		WorkerMaxAttempts: getEnvInt("WORKER_MAX_ATTEMPTS", 5),
	}
}

func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func (c Config) ReportCacheTTL() time.Duration {
	return time.Duration(c.ReportCacheTTLSeconds) * time.Second
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "hradmin")
	pass := getEnv("DB_PASSWORD", "hradmin")
	name := getEnv("DB_NAME", "hradmin")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer env var, using fallback", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
