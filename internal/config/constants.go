package config

import "time"

// Session policy. Expiry is enforced lazily at access time; the durable layer
// additionally sets a TTL of MaxSessionDuration as a backstop.
const (
	MaxSessionDuration   = 30 * 24 * time.Hour
	SessionRefreshWindow = 30 * time.Second
)

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Auth provider client timeout
const AuthClientTimeout = 10 * time.Second

// Maximum accepted request body for the JSON API
const MaxBodyBytes = 64 * 1024
