// FILE: src/internal/tls/server_test.go
package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"instaroid/src/internal/config"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSelfSigned(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600))
	return certFile, keyFile
}

func TestNewServerManager_Disabled(t *testing.T) {
	m, err := NewServerManager(nil, log.NewLogger())
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = NewServerManager(&config.TLSConfig{Enabled: false}, log.NewLogger())
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, false, m.GetStats()["enabled"])

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	assert.Same(t, ln, m.Listener(ln))
}

func TestNewServerManager_Errors(t *testing.T) {
	_, err := NewServerManager(&config.TLSConfig{Enabled: true, CertFile: "missing.pem", KeyFile: "missing.key"}, log.NewLogger())
	assert.Error(t, err)

	certFile, keyFile := writeSelfSigned(t, t.TempDir())
	_, err = NewServerManager(&config.TLSConfig{
		Enabled:      true,
		CertFile:     certFile,
		KeyFile:      keyFile,
		ClientAuth:   true,
		ClientCAFile: keyFile,
	}, log.NewLogger())
	assert.Error(t, err, "a key is not a CA certificate")
}

func TestServerManager_Handshake(t *testing.T) {
	certFile, keyFile := writeSelfSigned(t, t.TempDir())

	m, err := NewServerManager(&config.TLSConfig{
		Enabled:    true,
		CertFile:   certFile,
		KeyFile:    keyFile,
		MinVersion: "TLS1.3",
	}, log.NewLogger())
	require.NoError(t, err)
	require.NotNil(t, m)

	stats := m.GetStats()
	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, "TLS 1.3", stats["min_version"])

	raw, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ln := m.Listener(raw)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("ok"))
	}()

	conn, err := tls.Dial("tcp", raw.Addr().String(), &tls.Config{InsecureSkipVerify: true})
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 2)
	_, err = conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(buf))
	assert.Equal(t, uint16(tls.VersionTLS13), conn.ConnectionState().Version)
}

func TestNewServerManager_MinVersion(t *testing.T) {
	certFile, keyFile := writeSelfSigned(t, t.TempDir())

	testCases := []struct {
		configured string
		want       uint16
	}{
		{"", tls.VersionTLS12},
		{"TLS1.2", tls.VersionTLS12},
		{"tls1.3", tls.VersionTLS13},
		{"TLS1.0", tls.VersionTLS12},
	}

	for _, tc := range testCases {
		m, err := NewServerManager(&config.TLSConfig{
			Enabled:    true,
			CertFile:   certFile,
			KeyFile:    keyFile,
			MinVersion: tc.configured,
		}, log.NewLogger())
		require.NoError(t, err)
		assert.Equal(t, tc.want, m.Config().MinVersion, tc.configured)
		assert.Equal(t, tls.VersionName(tc.want), m.GetStats()["min_version"])
	}
}
