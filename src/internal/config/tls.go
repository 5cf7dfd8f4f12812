// FILE: src/internal/config/tls.go
package config

import "fmt"

// TLSConfig enables HTTPS on the ingress listener
type TLSConfig struct {
	Enabled  bool   `toml:"enabled"`
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`

	// "TLS1.2" or "TLS1.3"
	MinVersion string `toml:"min_version"`

	// Require client certificates signed by this CA
	ClientAuth   bool   `toml:"client_auth"`
	ClientCAFile string `toml:"client_ca_file"`
}

func validateTLS(cfg *TLSConfig) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	if cfg.CertFile == "" || cfg.KeyFile == "" {
		return fmt.Errorf("tls requires both cert_file and key_file")
	}

	switch cfg.MinVersion {
	case "", "TLS1.2", "TLS1.3":
	default:
		return fmt.Errorf("invalid tls min_version: %s (valid: TLS1.2, TLS1.3)", cfg.MinVersion)
	}

	if cfg.ClientAuth && cfg.ClientCAFile == "" {
		return fmt.Errorf("tls client_auth requires client_ca_file")
	}

	return nil
}
