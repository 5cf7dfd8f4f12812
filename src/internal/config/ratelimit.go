// FILE: src/internal/config/ratelimit.go
package config

import "fmt"

// RateLimitConfig limits ingest requests per client IP
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	BurstSize         int64   `toml:"burst_size"`

	// HTTP status returned when limited
	ResponseCode int64 `toml:"response_code"`

	// Idle per-IP limiters are evicted after this many seconds
	CleanupIntervalSec int64 `toml:"cleanup_interval_sec"`
}

func validateRateLimit(cfg *RateLimitConfig) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive: %v", cfg.RequestsPerSecond)
	}

	if cfg.BurstSize < 1 {
		return fmt.Errorf("rate limit burst_size must be at least 1: %d", cfg.BurstSize)
	}

	if cfg.ResponseCode != 0 && (cfg.ResponseCode < 400 || cfg.ResponseCode > 599) {
		return fmt.Errorf("rate limit response_code must be 4xx or 5xx: %d", cfg.ResponseCode)
	}

	return nil
}
