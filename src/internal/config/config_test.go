// FILE: src/internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, validateConfig(cfg))

	assert.Equal(t, int64(3000), cfg.Server.Port)
	assert.Equal(t, "/api/logs", cfg.Server.IngestPath)
	assert.Equal(t, int64(1000), cfg.Server.Sink.Capacity)
	assert.Equal(t, int64(50), cfg.Client.MaxBufferSize)
	assert.Equal(t, int64(10000), cfg.Client.FlushIntervalMS)
	assert.Equal(t, "info", cfg.Client.Level)
	assert.True(t, cfg.Client.Color)
}

func TestValidateServer(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *ServerConfig)
		wantErr string
	}{
		{"BadPort", func(c *ServerConfig) { c.Port = 70000 }, "invalid port"},
		{"RelativeIngestPath", func(c *ServerConfig) { c.IngestPath = "api/logs" }, "must start with /"},
		{"MetricsConflict", func(c *ServerConfig) { c.MetricsPath = "/api/logs" }, "conflicts"},
		{"ZeroCapacity", func(c *ServerConfig) { c.Sink.Capacity = 0 }, "capacity"},
		{"RateLimitNoRate", func(c *ServerConfig) {
			c.RateLimit.Enabled = true
			c.RateLimit.RequestsPerSecond = 0
		}, "requests_per_second"},
		{"BadFilterRegex", func(c *ServerConfig) {
			c.Filters = []FilterConfig{{Patterns: []string{"["}}}
		}, "invalid regex"},
		{"BadFilterType", func(c *ServerConfig) {
			c.Filters = []FilterConfig{{Type: "keep"}}
		}, "invalid type"},
		{"BasicWithoutUsers", func(c *ServerConfig) {
			c.Auth = &AuthConfig{Type: "basic"}
		}, "no users"},
		{"BearerWithoutTokens", func(c *ServerConfig) {
			c.Auth = &AuthConfig{Type: "bearer", BearerAuth: &BearerAuthConfig{}}
		}, "static tokens or a JWT"},
		{"BadSinkFormat", func(c *ServerConfig) { c.Sink.Format = "xml" }, "invalid sink format"},
		{"TLSWithoutKey", func(c *ServerConfig) {
			c.TLS = &TLSConfig{Enabled: true, CertFile: "cert.pem"}
		}, "cert_file and key_file"},
		{"TLSOldVersion", func(c *ServerConfig) {
			c.TLS = &TLSConfig{Enabled: true, CertFile: "c", KeyFile: "k", MinVersion: "TLS1.0"}
		}, "min_version"},
		{"TLSClientAuthNoCA", func(c *ServerConfig) {
			c.TLS = &TLSConfig{Enabled: true, CertFile: "c", KeyFile: "k", ClientAuth: true}
		}, "client_ca_file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tc.mutate(cfg)
			err := validateServer(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateClient(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, ValidateClient(DefaultClientConfig()))
	})

	t.Run("BadScheme", func(t *testing.T) {
		cfg := DefaultClientConfig()
		cfg.Endpoint = "ftp://example.com/api/logs"
		assert.Error(t, ValidateClient(cfg))
	})

	t.Run("BadLevel", func(t *testing.T) {
		cfg := DefaultClientConfig()
		cfg.Level = "verbose"
		assert.Error(t, ValidateClient(cfg))
	})

	t.Run("PendingBelowBuffer", func(t *testing.T) {
		cfg := DefaultClientConfig()
		cfg.MaxPending = 10
		err := ValidateClient(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_pending")
	})

	t.Run("UnboundedPending", func(t *testing.T) {
		cfg := DefaultClientConfig()
		cfg.MaxPending = 0
		assert.NoError(t, ValidateClient(cfg))
	})
}

func TestValidateLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()
	cfg.Output = "syslog"
	assert.Error(t, validateLogConfig(cfg))

	cfg = DefaultLogConfig()
	cfg.Level = "trace"
	assert.Error(t, validateLogConfig(cfg))

	cfg = DefaultLogConfig()
	cfg.Output = "file"
	cfg.File = nil
	assert.Error(t, validateLogConfig(cfg))
}

func TestCustomEnvTransform(t *testing.T) {
	assert.Equal(t, "INSTAROID_SERVER_SINK_CAPACITY", customEnvTransform("server.sink.capacity"))
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("INSTAROID_CONFIG_FILE", "custom.toml")
	t.Setenv("INSTAROID_CONFIG_DIR", "/etc/instaroid")
	assert.Equal(t, "/etc/instaroid/custom.toml", GetConfigPath())

	t.Setenv("INSTAROID_CONFIG_FILE", "/abs/instaroid.toml")
	assert.Equal(t, "/abs/instaroid.toml", GetConfigPath())
}

func TestSaveToFile_Rejects(t *testing.T) {
	assert.Error(t, Defaults().SaveToFile(""))

	cfg := Defaults()
	cfg.Server.Port = 0
	err := cfg.SaveToFile(t.TempDir() + "/instaroid.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad_FileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INSTAROID_CONFIG_FILE", "")
	t.Setenv("INSTAROID_CONFIG_DIR", "")

	path := filepath.Join(dir, "instaroid.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 4100\n"), 0600))

	cfg, err := Load([]string{"--server.sink.capacity=20"}, path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, int64(4100), cfg.Server.Port)
	assert.Equal(t, int64(20), cfg.Server.Sink.Capacity)
	assert.Equal(t, "/api/logs", cfg.Server.IngestPath, "unset keys keep defaults")

	_, err = Load(nil, filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
