// FILE: src/internal/auth/auth_test.go
package auth

import (
	"bytes"
	"encoding/base64"
	"errors"
	"regexp"
	"testing"
	"time"

	"instaroid/src/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func basicHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func newTestAuthenticator(t *testing.T, cfg *config.AuthConfig) *Authenticator {
	t.Helper()
	a, err := New(cfg, newTestLogger())
	require.NoError(t, err)
	require.NotNil(t, a)
	a.failureDelay = 0
	return a
}

func TestNew(t *testing.T) {
	logger := newTestLogger()

	t.Run("NoneReturnsNil", func(t *testing.T) {
		a, err := New(&config.AuthConfig{Type: "none"}, logger)
		assert.NoError(t, err)
		assert.Nil(t, a)

		p, err := a.AuthenticateHTTP("", "1.2.3.4:5")
		require.NoError(t, err)
		assert.Equal(t, "none", p.Method)
		assert.Equal(t, false, a.GetStats()["enabled"])
	})

	t.Run("InvalidHash", func(t *testing.T) {
		_, err := New(&config.AuthConfig{
			Type:      "basic",
			BasicAuth: &config.BasicAuthConfig{Users: []config.BasicAuthUser{{Username: "u", PasswordHash: "plain"}}},
		}, logger)
		assert.Error(t, err)
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		_, err := New(&config.AuthConfig{Type: "mtls"}, logger)
		assert.Error(t, err)
	})
}

func TestBasicAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	a := newTestAuthenticator(t, &config.AuthConfig{
		Type: "basic",
		BasicAuth: &config.BasicAuthConfig{
			Users: []config.BasicAuthUser{{Username: "admin", PasswordHash: string(hash)}},
			Realm: "logs",
		},
	})
	a.attemptBurst = 100

	testCases := []struct {
		name   string
		header string
		err    error
	}{
		{"Valid", basicHeader("admin", "s3cret"), nil},
		{"WrongPassword", basicHeader("admin", "nope"), ErrInvalidCredentials},
		{"UnknownUser", basicHeader("root", "s3cret"), ErrInvalidCredentials},
		{"Missing", "", ErrMissingCredentials},
		{"WrongScheme", "Bearer abc", ErrInvalidCredentials},
		{"BadBase64", "Basic !!!", ErrInvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := a.AuthenticateHTTP(tc.header, "10.0.0.1:4000")
			if tc.err == nil {
				require.NoError(t, err)
				assert.Equal(t, "admin", p.Username)
				assert.Equal(t, "basic", p.Method)
				return
			}
			assert.True(t, errors.Is(err, tc.err), "got %v", err)
		})
	}

	assert.Equal(t, `Basic realm="logs"`, a.Challenge())
}

func TestBearerAuth(t *testing.T) {
	key := "test-signing-key"
	a := newTestAuthenticator(t, &config.AuthConfig{
		Type: "bearer",
		BearerAuth: &config.BearerAuthConfig{
			Tokens: []string{"static-token"},
			JWT:    &config.JWTConfig{SigningKey: key, Issuer: "instaroid"},
		},
	})
	a.attemptBurst = 100

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return "Bearer " + s
	}

	t.Run("StaticToken", func(t *testing.T) {
		p, err := a.AuthenticateHTTP("Bearer static-token", "10.0.0.2:1")
		require.NoError(t, err)
		assert.Equal(t, "bearer", p.Method)
	})

	t.Run("ValidJWT", func(t *testing.T) {
		p, err := a.AuthenticateHTTP(sign(jwt.MapClaims{
			"sub": "dashboard",
			"iss": "instaroid",
			"exp": time.Now().Add(time.Hour).Unix(),
		}), "10.0.0.2:1")
		require.NoError(t, err)
		assert.Equal(t, "jwt", p.Method)
		assert.Equal(t, "dashboard", p.Username)
	})

	t.Run("ExpiredJWT", func(t *testing.T) {
		_, err := a.AuthenticateHTTP(sign(jwt.MapClaims{
			"iss": "instaroid",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}), "10.0.0.2:1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("MissingExp", func(t *testing.T) {
		_, err := a.AuthenticateHTTP(sign(jwt.MapClaims{"iss": "instaroid"}), "10.0.0.2:1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		_, err := a.AuthenticateHTTP(sign(jwt.MapClaims{
			"iss": "someone-else",
			"exp": time.Now().Add(time.Hour).Unix(),
		}), "10.0.0.2:1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		_, err := a.AuthenticateHTTP("Bearer nope", "10.0.0.2:1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	assert.Equal(t, "Bearer", a.Challenge())
}

func TestRateLimit(t *testing.T) {
	a := newTestAuthenticator(t, &config.AuthConfig{
		Type:       "bearer",
		BearerAuth: &config.BearerAuthConfig{Tokens: []string{"ok"}},
	})

	for i := 0; i < 3; i++ {
		_, err := a.AuthenticateHTTP("Bearer bad", "192.0.2.1:999")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := a.AuthenticateHTTP("Bearer ok", "192.0.2.1:999")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// Other addresses are unaffected
	_, err = a.AuthenticateHTTP("Bearer ok", "192.0.2.2:999")
	assert.NoError(t, err)

	stats := a.GetStats()
	assert.Equal(t, uint64(1), stats["total_blocked"])
	assert.Equal(t, 2, stats["tracked_ips"])
}

func TestGeneratorCommand(t *testing.T) {
	newGen := func(passwords ...string) (*GeneratorCommand, *bytes.Buffer) {
		var out bytes.Buffer
		i := 0
		return &GeneratorCommand{
			output: &out,
			errOut: &bytes.Buffer{},
			readPassword: func() ([]byte, error) {
				p := passwords[i]
				i++
				return []byte(p), nil
			},
		}, &out
	}

	t.Run("HashFromPrompt", func(t *testing.T) {
		g, out := newGen("pw", "pw")
		require.NoError(t, g.Execute([]string{"-u", "admin", "-c", "4"}))

		m := regexp.MustCompile(`password_hash = "([^"]+)"`).FindStringSubmatch(out.String())
		require.Len(t, m, 2)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(m[1]), []byte("pw")))
		assert.Contains(t, out.String(), `username = "admin"`)
	})

	t.Run("PromptMismatch", func(t *testing.T) {
		g, _ := newGen("a", "b")
		assert.Error(t, g.Execute([]string{"-u", "admin"}))
	})

	t.Run("MissingUsername", func(t *testing.T) {
		g, _ := newGen()
		assert.Error(t, g.Execute(nil))
	})

	t.Run("Token", func(t *testing.T) {
		g, out := newGen()
		require.NoError(t, g.Execute([]string{"-t", "-l", "24"}))
		assert.Contains(t, out.String(), "tokens = [")
	})

	t.Run("TokenTooLong", func(t *testing.T) {
		g, _ := newGen()
		assert.Error(t, g.Execute([]string{"-t", "-l", "1024"}))
	})
}
