// Package storage holds the configuration and constructors for Stockade's
// external stores: the postgres catalog (users, role grants, inventory)
// and the redis blacklist cache.
package storage

import "time"

// Config holds connection settings for postgres and redis.
type Config struct {
	// PostgresURL is the DSN for the catalog database.
	PostgresURL string
	// PostgresTimeout bounds individual queries issued by the stores.
	PostgresTimeout time.Duration

	RedisURL        string
	RedisPassword   string
	RedisDB         int
	RedisMaxRetries int
	RedisPoolSize   int

	// BlacklistTTL is the fallback TTL for revocation entries whose token
	// expiry cannot be recovered. It must be at least the longest token
	// lifetime class or a revoked token could become valid again after
	// the entry expires.
	BlacklistTTL time.Duration
}

// DefaultConfig returns the settings used when no environment overrides
// are present.
func DefaultConfig() Config {
	return Config{
		PostgresURL:     "postgres://localhost:5432/stockade?sslmode=disable",
		PostgresTimeout: 5 * time.Second,
		RedisURL:        "redis://localhost:6379",
		RedisDB:         0,
		RedisMaxRetries: 3,
		RedisPoolSize:   10,
		BlacklistTTL:    181 * 24 * time.Hour,
	}
}
