// Package config loads service configuration from environment variables
// with the STOCKADE_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stockade-io/stockade/pkg/auth"
	"github.com/stockade-io/stockade/pkg/middleware"
	"github.com/stockade-io/stockade/pkg/observability"
	"github.com/stockade-io/stockade/pkg/storage"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	Storage       storage.Config
	Auth          AuthConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes)
	HealthPort string
}

// AuthConfig holds access-control configuration. The key pair is
// provisioned externally; rotating it invalidates every previously issued,
// unexpired token.
type AuthConfig struct {
	// SigningKey and VerifyKey are inline PEM or file paths.
	SigningKey string
	VerifyKey  string
	Issuer     string

	Lifetimes auth.LifetimePolicy

	// SchemePrefixes is the ordered Authorization prefix table.
	SchemePrefixes []string
	TenantHeader   string

	BcryptCost int

	// StoreTimeout bounds credential-store lookups; CacheTimeout bounds
	// blacklist reads and writes.
	StoreTimeout time.Duration
	CacheTimeout time.Duration
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Auth:          loadAuthConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("STOCKADE_HOST", "0.0.0.0"),
		Port:            getEnv("STOCKADE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("STOCKADE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("STOCKADE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("STOCKADE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("STOCKADE_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("STOCKADE_HEALTH_PORT", "9090"),
	}
}

func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if pgURL := getEnv("STOCKADE_POSTGRES_URL", ""); pgURL != "" {
		cfg.PostgresURL = pgURL
	}
	if timeout := getEnvDuration("STOCKADE_POSTGRES_TIMEOUT", 0); timeout > 0 {
		cfg.PostgresTimeout = timeout
	}

	if redisURL := getEnv("STOCKADE_REDIS_URL", ""); redisURL != "" {
		cfg.RedisURL = redisURL
	}
	if redisPassword := getEnv("STOCKADE_REDIS_PASSWORD", ""); redisPassword != "" {
		cfg.RedisPassword = redisPassword
	}
	if redisDB := getEnvInt("STOCKADE_REDIS_DB", -1); redisDB >= 0 {
		cfg.RedisDB = redisDB
	}
	if redisMaxRetries := getEnvInt("STOCKADE_REDIS_MAX_RETRIES", 0); redisMaxRetries > 0 {
		cfg.RedisMaxRetries = redisMaxRetries
	}
	if redisPoolSize := getEnvInt("STOCKADE_REDIS_POOL_SIZE", 0); redisPoolSize > 0 {
		cfg.RedisPoolSize = redisPoolSize
	}
	if ttl := getEnvDuration("STOCKADE_BLACKLIST_TTL", 0); ttl > 0 {
		cfg.BlacklistTTL = ttl
	}

	return cfg
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		SigningKey: getEnv("STOCKADE_SIGNING_KEY", ""),
		VerifyKey:  getEnv("STOCKADE_VERIFY_KEY", ""),
		Issuer:     getEnv("STOCKADE_TOKEN_ISSUER", "stockade"),
		Lifetimes: auth.LifetimePolicy{
			Short:    getEnvDuration("STOCKADE_TOKEN_LIFETIME_SHORT", auth.DefaultLifetimePolicy.Short),
			Extended: getEnvDuration("STOCKADE_TOKEN_LIFETIME_EXTENDED", auth.DefaultLifetimePolicy.Extended),
			Service:  getEnvDuration("STOCKADE_TOKEN_LIFETIME_SERVICE", auth.DefaultLifetimePolicy.Service),
		},
		SchemePrefixes: getEnvList("STOCKADE_AUTH_PREFIXES", auth.DefaultSchemePrefixes),
		TenantHeader:   getEnv("STOCKADE_TENANT_HEADER", middleware.DefaultTenantHeader),
		BcryptCost:     getEnvInt("STOCKADE_BCRYPT_COST", 12),
		StoreTimeout:   getEnvDuration("STOCKADE_STORE_TIMEOUT", 3*time.Second),
		CacheTimeout:   getEnvDuration("STOCKADE_CACHE_TIMEOUT", 2*time.Second),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLogLevel(getEnv("STOCKADE_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("STOCKADE_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Storage.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}
	if c.Storage.RedisURL == "" {
		return fmt.Errorf("redis URL is required")
	}

	if c.Auth.SigningKey == "" {
		return fmt.Errorf("signing key is required")
	}
	if c.Auth.VerifyKey == "" {
		return fmt.Errorf("verify key is required")
	}
	if err := c.Auth.Lifetimes.Validate(); err != nil {
		return fmt.Errorf("token lifetimes: %w", err)
	}
	if len(c.Auth.SchemePrefixes) == 0 {
		return fmt.Errorf("at least one authorization scheme prefix is required")
	}

	// A revoked token must never outlive its blacklist entry.
	if c.Storage.BlacklistTTL < c.Auth.Lifetimes.Longest() {
		return fmt.Errorf("blacklist TTL %s is shorter than the longest token lifetime %s",
			c.Storage.BlacklistTTL, c.Auth.Lifetimes.Longest())
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
