package config

import "time"

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

// Request body cap; scorecards are small JSON documents
const MaxRequestBodySize = 1 << 20

// Background job intervals
const CleanupJobInterval = 5 * time.Minute

// Window for the per-IP login throttle in front of the account lockout
const LoginThrottleWindow = time.Minute
