// FILE: src/internal/config/validation.go
package config

import (
	"fmt"
	"net/url"
	"strings"

	"instaroid/src/internal/core"
)

// validateConfig is the centralized validator for the entire configuration
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateLogConfig(cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := validateServer(cfg.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := ValidateClient(cfg.Client); err != nil {
		return fmt.Errorf("client config: %w", err)
	}

	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	if !strings.HasPrefix(cfg.IngestPath, "/") {
		return fmt.Errorf("ingest path must start with /: %s", cfg.IngestPath)
	}

	if cfg.MetricsPath != "" {
		if !strings.HasPrefix(cfg.MetricsPath, "/") {
			return fmt.Errorf("metrics path must start with /: %s", cfg.MetricsPath)
		}
		if cfg.MetricsPath == cfg.IngestPath {
			return fmt.Errorf("metrics path conflicts with ingest path: %s", cfg.MetricsPath)
		}
	}

	if cfg.ReadTimeoutMS < 0 || cfg.WriteTimeoutMS < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	if cfg.MaxRequestBodyKB < 0 {
		return fmt.Errorf("max_request_body_kb cannot be negative: %d", cfg.MaxRequestBodyKB)
	}

	if cfg.Sink != nil && cfg.Sink.Capacity < 1 {
		return fmt.Errorf("sink capacity must be positive: %d", cfg.Sink.Capacity)
	}

	if cfg.Sink != nil {
		switch cfg.Sink.Format {
		case "", "readable", "json":
		default:
			return fmt.Errorf("invalid sink format: %s", cfg.Sink.Format)
		}
	}

	if err := validateRateLimit(cfg.RateLimit); err != nil {
		return err
	}

	for i := range cfg.Filters {
		if err := validateFilter(i, &cfg.Filters[i]); err != nil {
			return err
		}
	}

	if err := validateTLS(cfg.TLS); err != nil {
		return err
	}

	return validateAuth(cfg.Auth)
}

// ValidateClient checks a client buffer configuration
func ValidateClient(cfg *ClientConfig) error {
	if cfg == nil {
		return fmt.Errorf("client config is nil")
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must be http or https: %s", cfg.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint has no host: %s", cfg.Endpoint)
	}

	if _, err := core.ParseLevel(cfg.Level); err != nil {
		return err
	}

	if cfg.FlushIntervalMS < 10 {
		return fmt.Errorf("flush interval too small: %d ms (min: 10ms)", cfg.FlushIntervalMS)
	}

	if cfg.MaxBufferSize < 1 {
		return fmt.Errorf("max_buffer_size must be positive: %d", cfg.MaxBufferSize)
	}

	if cfg.MaxPending != 0 && cfg.MaxPending < cfg.MaxBufferSize {
		return fmt.Errorf("max_pending (%d) must be 0 or at least max_buffer_size (%d)",
			cfg.MaxPending, cfg.MaxBufferSize)
	}

	if cfg.TimeoutMS < 1 {
		return fmt.Errorf("timeout_ms must be positive: %d", cfg.TimeoutMS)
	}

	return nil
}
