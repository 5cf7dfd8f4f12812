// FILE: src/internal/config/config.go
package config

// Config is the root configuration for the instaroid telemetry service
type Config struct {
	// Disable all process logging and informational output
	Quiet bool `toml:"quiet"`

	// Process logging
	Logging *LogConfig `toml:"logging"`

	// Ingress endpoint, sink and inspection API
	Server *ServerConfig `toml:"server"`

	// Client log buffer used by producers (logsend)
	Client *ClientConfig `toml:"client"`

	// Runtime only
	ConfigFile string `toml:"-"`
}

func defaults() *Config {
	return &Config{
		Quiet:   false,
		Logging: DefaultLogConfig(),
		Server:  DefaultServerConfig(),
		Client:  DefaultClientConfig(),
	}
}

// Defaults returns a fully populated default configuration
func Defaults() *Config {
	return defaults()
}
