// FILE: src/internal/auth/authenticator.go
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"instaroid/src/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lixenwraith/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// Prevent unbounded map growth
const maxAuthTrackedIPs = 10000

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrTooManyAttempts    = errors.New("too many authentication attempts")
)

// Authenticator guards the inspection endpoints
type Authenticator struct {
	config       *config.AuthConfig
	logger       *log.Logger
	basicUsers   map[string]string // username -> bcrypt hash
	bearerTokens map[string]bool
	jwtParser    *jwt.Parser
	jwtKey       []byte

	// Brute-force protection
	ipAuthAttempts map[string]*ipAuthState
	authMu         sync.Mutex
	attemptRate    rate.Limit
	attemptBurst   int
	failureDelay   time.Duration

	// Statistics
	totalSuccess atomic.Uint64
	totalFailure atomic.Uint64
	totalBlocked atomic.Uint64
}

// Per-IP auth attempt tracking
type ipAuthState struct {
	limiter     *rate.Limiter
	failCount   int
	lastAttempt time.Time
}

// Principal identifies who passed authentication
type Principal struct {
	Username string
	Method   string // basic, bearer, jwt
}

// New creates an authenticator. A nil config or type "none" returns nil, which allows everything.
func New(cfg *config.AuthConfig, logger *log.Logger) (*Authenticator, error) {
	if cfg == nil || cfg.Type == "" || cfg.Type == "none" {
		return nil, nil
	}

	a := &Authenticator{
		config:         cfg,
		logger:         logger,
		basicUsers:     make(map[string]string),
		bearerTokens:   make(map[string]bool),
		ipAuthAttempts: make(map[string]*ipAuthState),
		// 5 attempts per minute, burst of 3
		attemptRate:  rate.Every(12 * time.Second),
		attemptBurst: 3,
		failureDelay: 500 * time.Millisecond,
	}

	switch cfg.Type {
	case "basic":
		if cfg.BasicAuth == nil {
			return nil, fmt.Errorf("basic auth config missing")
		}
		for _, user := range cfg.BasicAuth.Users {
			if _, err := bcrypt.Cost([]byte(user.PasswordHash)); err != nil {
				return nil, fmt.Errorf("user %q: invalid bcrypt hash: %w", user.Username, err)
			}
			a.basicUsers[user.Username] = user.PasswordHash
		}

	case "bearer":
		if cfg.BearerAuth == nil {
			return nil, fmt.Errorf("bearer auth config missing")
		}
		for _, token := range cfg.BearerAuth.Tokens {
			a.bearerTokens[token] = true
		}

		if jc := cfg.BearerAuth.JWT; jc != nil && jc.SigningKey != "" {
			opts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
				jwt.WithLeeway(5 * time.Second),
				jwt.WithExpirationRequired(),
			}
			if jc.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(jc.Issuer))
			}
			if jc.Audience != "" {
				opts = append(opts, jwt.WithAudience(jc.Audience))
			}
			a.jwtParser = jwt.NewParser(opts...)
			a.jwtKey = []byte(jc.SigningKey)
		}

	default:
		return nil, fmt.Errorf("unsupported auth type: %s", cfg.Type)
	}

	logger.Info("msg", "Authenticator initialized",
		"component", "auth",
		"type", cfg.Type,
		"basic_users", len(a.basicUsers),
		"static_tokens", len(a.bearerTokens),
		"jwt", a.jwtParser != nil)

	return a, nil
}

// AuthenticateHTTP validates an Authorization header value for the given remote address
func (a *Authenticator) AuthenticateHTTP(authHeader, remoteAddr string) (*Principal, error) {
	if a == nil {
		return &Principal{Method: "none"}, nil
	}

	ip := hostOf(remoteAddr)
	if err := a.checkRateLimit(ip); err != nil {
		a.totalBlocked.Add(1)
		return nil, err
	}

	var principal *Principal
	var err error

	switch a.config.Type {
	case "basic":
		principal, err = a.authenticateBasic(authHeader)
	case "bearer":
		principal, err = a.authenticateBearer(authHeader)
	default:
		err = fmt.Errorf("unsupported auth type: %s", a.config.Type)
	}

	if err != nil {
		a.totalFailure.Add(1)
		a.recordFailure(ip)
		a.logger.Warn("msg", "Authentication failed",
			"component", "auth",
			"ip", ip,
			"error", err)
		if a.failureDelay > 0 {
			time.Sleep(a.failureDelay)
		}
		return nil, err
	}

	a.totalSuccess.Add(1)
	a.recordSuccess(ip)
	return principal, nil
}

// Challenge returns the WWW-Authenticate header value for 401 responses
func (a *Authenticator) Challenge() string {
	if a == nil {
		return ""
	}
	if a.config.Type == "basic" {
		realm := "instaroid"
		if a.config.BasicAuth != nil && a.config.BasicAuth.Realm != "" {
			realm = a.config.BasicAuth.Realm
		}
		return fmt.Sprintf("Basic realm=%q", realm)
	}
	return "Bearer"
}

// Check and enforce the per-IP attempt rate
func (a *Authenticator) checkRateLimit(ip string) error {
	a.authMu.Lock()
	defer a.authMu.Unlock()

	now := time.Now()
	state, exists := a.ipAuthAttempts[ip]
	if !exists {
		if len(a.ipAuthAttempts) >= maxAuthTrackedIPs {
			a.evictOldestLocked(now)
		}
		state = &ipAuthState{
			limiter: rate.NewLimiter(a.attemptRate, a.attemptBurst),
		}
		a.ipAuthAttempts[ip] = state
	}
	state.lastAttempt = now

	if !state.limiter.Allow() {
		a.logger.Warn("msg", "Auth rate limit exceeded",
			"component", "auth",
			"ip", ip,
			"fail_count", state.failCount)
		return ErrTooManyAttempts
	}
	return nil
}

// Sample 20 entries and evict the oldest
func (a *Authenticator) evictOldestLocked(now time.Time) {
	const sampleSize = 20
	var oldestIP string
	oldestTime := now

	sampled := 0
	for ip, state := range a.ipAuthAttempts {
		if state.lastAttempt.Before(oldestTime) {
			oldestIP = ip
			oldestTime = state.lastAttempt
		}
		sampled++
		if sampled >= sampleSize {
			break
		}
	}

	if oldestIP != "" {
		delete(a.ipAuthAttempts, oldestIP)
	}
}

func (a *Authenticator) recordFailure(ip string) {
	a.authMu.Lock()
	defer a.authMu.Unlock()
	if state, exists := a.ipAuthAttempts[ip]; exists {
		state.failCount++
	}
}

// Reset failure count and refill the limiter on success
func (a *Authenticator) recordSuccess(ip string) {
	a.authMu.Lock()
	defer a.authMu.Unlock()
	if state, exists := a.ipAuthAttempts[ip]; exists {
		state.failCount = 0
		state.limiter = rate.NewLimiter(a.attemptRate, a.attemptBurst)
	}
}

func (a *Authenticator) authenticateBasic(authHeader string) (*Principal, error) {
	if authHeader == "" {
		return nil, ErrMissingCredentials
	}
	if !strings.HasPrefix(authHeader, "Basic ") {
		return nil, fmt.Errorf("invalid basic auth header: %w", ErrInvalidCredentials)
	}

	payload, err := base64.StdEncoding.DecodeString(authHeader[6:])
	if err != nil {
		return nil, fmt.Errorf("invalid base64 encoding: %w", ErrInvalidCredentials)
	}

	username, password, ok := strings.Cut(string(payload), ":")
	if !ok {
		return nil, fmt.Errorf("invalid credentials format: %w", ErrInvalidCredentials)
	}

	expectedHash, exists := a.basicUsers[username]
	if !exists {
		// Perform bcrypt anyway to prevent timing attacks
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$dummy.hash.to.prevent.timing.attacks"), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(expectedHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Principal{Username: username, Method: "basic"}, nil
}

func (a *Authenticator) authenticateBearer(authHeader string) (*Principal, error) {
	if authHeader == "" {
		return nil, ErrMissingCredentials
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, fmt.Errorf("invalid bearer auth header: %w", ErrInvalidCredentials)
	}
	token := strings.TrimSpace(authHeader[7:])

	if a.bearerTokens[token] {
		return &Principal{Method: "bearer"}, nil
	}

	if a.jwtParser == nil {
		return nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{}
	parsed, err := a.jwtParser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.jwtKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("JWT validation failed: %w: %w", ErrInvalidCredentials, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidCredentials
	}

	subject, _ := claims.GetSubject()
	return &Principal{Username: subject, Method: "jwt"}, nil
}

// GetStats returns authentication statistics
func (a *Authenticator) GetStats() map[string]any {
	if a == nil {
		return map[string]any{"enabled": false}
	}

	a.authMu.Lock()
	tracked := len(a.ipAuthAttempts)
	a.authMu.Unlock()

	return map[string]any{
		"enabled":       true,
		"type":          a.config.Type,
		"basic_users":   len(a.basicUsers),
		"static_tokens": len(a.bearerTokens),
		"jwt":           a.jwtParser != nil,
		"tracked_ips":   tracked,
		"total_success": a.totalSuccess.Load(),
		"total_failure": a.totalFailure.Load(),
		"total_blocked": a.totalBlocked.Load(),
	}
}

func hostOf(remoteAddr string) string {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return ip
}
