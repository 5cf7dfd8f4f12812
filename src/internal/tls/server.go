// FILE: src/internal/tls/server.go
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"strings"

	"instaroid/src/internal/config"

	"github.com/lixenwraith/log"
)

// minVersions maps accepted min_version values, anything else falls back to TLS 1.2
var minVersions = map[string]uint16{
	"TLS1.2": tls.VersionTLS12,
	"TLS1.3": tls.VersionTLS13,
}

// ServerManager holds the TLS configuration for the ingress listener
type ServerManager struct {
	config    *config.TLSConfig
	tlsConfig *tls.Config
	logger    *log.Logger
}

// NewServerManager returns nil when TLS is not enabled
func NewServerManager(cfg *config.TLSConfig, logger *log.Logger) (*ServerManager, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server cert/key: %w", err)
	}

	minVersion, ok := minVersions[strings.ToUpper(cfg.MinVersion)]
	if !ok {
		minVersion = tls.VersionTLS12
	}

	m := &ServerManager{
		config: cfg,
		logger: logger,
		tlsConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   minVersion,
			NextProtos:   []string{"http/1.1"},
		},
	}

	if cfg.ClientAuth {
		pool, err := loadCertPool(cfg.ClientCAFile)
		if err != nil {
			return nil, err
		}
		m.tlsConfig.ClientCAs = pool
		m.tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}

	logger.Info("msg", "TLS enabled for ingress",
		"component", "tls",
		"min_version", tls.VersionName(m.tlsConfig.MinVersion),
		"client_auth", cfg.ClientAuth)
	return m, nil
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse client CA certificate: %s", path)
	}
	return pool, nil
}

// Config returns a copy of the server TLS configuration
func (m *ServerManager) Config() *tls.Config {
	if m == nil {
		return nil
	}
	return m.tlsConfig.Clone()
}

// Listener wraps ln with TLS, or returns ln unchanged when m is nil
func (m *ServerManager) Listener(ln net.Listener) net.Listener {
	if m == nil {
		return ln
	}
	return tls.NewListener(ln, m.Config())
}

func (m *ServerManager) GetStats() map[string]any {
	if m == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled":     true,
		"min_version": tls.VersionName(m.tlsConfig.MinVersion),
		"client_auth": m.config.ClientAuth,
	}
}
