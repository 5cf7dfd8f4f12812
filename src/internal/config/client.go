// FILE: src/internal/config/client.go
package config

// ClientConfig configures the client-side log buffer
type ClientConfig struct {
	// Ingress URL receiving {"logs": [...]} batches
	Endpoint string `toml:"endpoint"`

	// Visibility threshold: "error", "warn", "info", "debug"
	Level string `toml:"level"`

	// Periodic flush interval
	FlushIntervalMS int64 `toml:"flush_interval_ms"`

	// Queue length that triggers an immediate flush
	MaxBufferSize int64 `toml:"max_buffer_size"`

	// Hard cap on queued entries while delivery keeps failing, 0 = unbounded
	MaxPending int64 `toml:"max_pending"`

	// Per-request timeout for a flush attempt
	TimeoutMS int64 `toml:"timeout_ms"`

	// Echo each accepted entry to the console
	Console bool `toml:"console"`

	// ANSI colors on the console echo
	Color bool `toml:"color"`
}

// DefaultClientConfig returns the client buffer defaults
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Endpoint:        "http://localhost:3000/api/logs",
		Level:           "info",
		FlushIntervalMS: 10000,
		MaxBufferSize:   50,
		MaxPending:      500,
		TimeoutMS:       5000,
		Console:         true,
		Color:           true,
	}
}
