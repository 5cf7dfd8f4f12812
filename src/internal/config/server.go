// FILE: src/internal/config/server.go
package config

// ServerConfig configures the HTTP ingress endpoint and everything behind it
type ServerConfig struct {
	Host string `toml:"host"`
	Port int64  `toml:"port"`

	// Path receiving POSTed batches; the inspection API lives on the same path
	IngestPath string `toml:"ingest_path"`

	// Path for Prometheus metrics, empty disables the endpoint
	MetricsPath string `toml:"metrics_path"`

	ReadTimeoutMS    int64 `toml:"read_timeout_ms"`
	WriteTimeoutMS   int64 `toml:"write_timeout_ms"`
	MaxRequestBodyKB int64 `toml:"max_request_body_kb"`

	Sink      *SinkConfig      `toml:"sink"`
	RateLimit *RateLimitConfig `toml:"rate_limit"`
	Filters   []FilterConfig   `toml:"filters"`
	Auth      *AuthConfig      `toml:"auth"`
	TLS       *TLSConfig       `toml:"tls"`
}

// SinkConfig configures the in-memory retained window and its console echo
type SinkConfig struct {
	// Retained entries before the oldest is dropped
	Capacity int64 `toml:"capacity"`

	// Write one readable line per entry to stdout
	Console bool `toml:"console"`

	// Colorize console lines by level
	Color bool `toml:"color"`

	// Console line format: "readable" or "json"
	Format string `toml:"format"`

	// Go time layout for the readable line, rendered in local time
	TimestampFormat string `toml:"timestamp_format"`
}

// DefaultServerConfig returns the server defaults
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:             "",
		Port:             3000,
		IngestPath:       "/api/logs",
		MetricsPath:      "/metrics",
		ReadTimeoutMS:    10000,
		WriteTimeoutMS:   10000,
		MaxRequestBodyKB: 1024,
		Sink: &SinkConfig{
			Capacity:        1000,
			Console:         true,
			Color:           true,
			Format:          "readable",
			TimestampFormat: "2006-01-02 15:04:05",
		},
		RateLimit: &RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 20,
			BurstSize:         40,
			ResponseCode:      429,
		},
		Auth: &AuthConfig{
			Type: "none",
		},
		TLS: &TLSConfig{
			Enabled:    false,
			MinVersion: "TLS1.2",
		},
	}
}
