package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	DatabaseURL string
	RedisAddr   string

	JWTIssuer           string
	JWTSecret           string
	JWTTTL              time.Duration
	BootstrapAdminEmail string

	PaginationAllowedSizes []int
	PaginationDefaultSize  int

	PermissionCacheTTL time.Duration
	APIRateLimitPerMin int

	OTELTracingEnabled       bool
	OTELMetricsEnabled       bool
	OTELExporterOTLPEndpoint string
	OTELExporterOTLPInsecure bool
	OTELServiceName          string
	OTELEnvironment          string
	OTELTraceSamplingRatio   float64
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPPort:                 getEnv("HTTP_PORT", "8080"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		JWTIssuer:                getEnv("JWT_ISSUER", "todo-admin-service"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		BootstrapAdminEmail:      strings.TrimSpace(strings.ToLower(os.Getenv("BOOTSTRAP_ADMIN_EMAIL"))),
		PaginationAllowedSizes:   splitCSVInts(getEnv("PAGINATION_ALLOWED_SIZES", "10,20,50,100,500")),
		PaginationDefaultSize:    getEnvInt("PAGINATION_DEFAULT_SIZE", 10),
		APIRateLimitPerMin:       getEnvInt("API_RATE_LIMIT_PER_MIN", 120),
		OTELTracingEnabled:       getEnvBool("OTEL_TRACING_ENABLED", false),
		OTELMetricsEnabled:       getEnvBool("OTEL_METRICS_ENABLED", false),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELExporterOTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "todo-admin-service"),
		OTELEnvironment:          getEnv("OTEL_ENVIRONMENT", "development"),
		OTELTraceSamplingRatio:   getEnvFloat("OTEL_TRACE_SAMPLING_RATIO", 1.0),
	}

	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("parse JWT_TTL: %w", err)
	}
	cfg.JWTTTL = jwtTTL

	cacheTTL, err := time.ParseDuration(getEnv("PERMISSION_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("parse PERMISSION_CACHE_TTL: %w", err)
	}
	cfg.PermissionCacheTTL = cacheTTL

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 chars")
	}
	if c.JWTTTL <= 0 || c.JWTTTL > 24*time.Hour {
		errs = append(errs, "JWT_TTL must be between 1s and 24h")
	}
	if len(c.PaginationAllowedSizes) == 0 {
		errs = append(errs, "PAGINATION_ALLOWED_SIZES must list at least one size")
	}
	if !containsInt(c.PaginationAllowedSizes, c.PaginationDefaultSize) {
		errs = append(errs, "PAGINATION_DEFAULT_SIZE must be one of PAGINATION_ALLOWED_SIZES")
	}
	if c.PermissionCacheTTL <= 0 {
		errs = append(errs, "PERMISSION_CACHE_TTL must be > 0")
	}
	if c.APIRateLimitPerMin <= 0 {
		errs = append(errs, "API_RATE_LIMIT_PER_MIN must be > 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func splitCSVInts(v string) []int {
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim == "" {
			continue
		}
		n, err := strconv.Atoi(trim)
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}
