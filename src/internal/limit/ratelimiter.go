// FILE: src/internal/limit/ratelimiter.go
package limit

import (
	"sync"
	"sync/atomic"
	"time"

	"instaroid/src/internal/config"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

const defaultCleanupInterval = 60 * time.Second

// RateLimiter provides per-client token bucket rate limiting
type RateLimiter struct {
	clients         sync.Map // map[string]*clientLimiter
	requestsPerSec  float64
	burstSize       int
	responseCode    int
	cleanupInterval time.Duration
	logger          *log.Logger
	done            chan struct{}
	stopOnce        sync.Once

	// Statistics
	totalAllowed atomic.Uint64
	totalBlocked atomic.Uint64
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// New creates a rate limiter and starts its idle-client eviction loop.
// A nil or disabled config returns nil, which allows everything.
func New(cfg *config.RateLimitConfig, logger *log.Logger) *RateLimiter {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	interval := time.Duration(cfg.CleanupIntervalSec) * time.Second
	if interval <= 0 {
		interval = defaultCleanupInterval
	}

	code := int(cfg.ResponseCode)
	if code == 0 {
		code = 429
	}

	rl := &RateLimiter{
		requestsPerSec:  cfg.RequestsPerSecond,
		burstSize:       int(cfg.BurstSize),
		responseCode:    code,
		cleanupInterval: interval,
		logger:          logger,
		done:            make(chan struct{}),
	}

	go rl.cleanup()

	logger.Info("msg", "Rate limiter enabled",
		"component", "rate_limit",
		"requests_per_second", cfg.RequestsPerSecond,
		"burst_size", cfg.BurstSize)

	return rl
}

// Allow reports whether a request from ip may proceed
func (rl *RateLimiter) Allow(ip string) bool {
	if rl == nil {
		return true
	}

	if rl.getLimiter(ip).Allow() {
		rl.totalAllowed.Add(1)
		return true
	}

	rl.totalBlocked.Add(1)
	rl.logger.Debug("msg", "Request rate limited",
		"component", "rate_limit",
		"ip", ip)
	return false
}

// ResponseCode is the status returned to limited clients
func (rl *RateLimiter) ResponseCode() int {
	if rl == nil {
		return 429
	}
	return rl.responseCode
}

// getLimiter returns the rate limiter for a client
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now().UnixNano()

	if val, ok := rl.clients.Load(ip); ok {
		client := val.(*clientLimiter)
		client.lastSeen.Store(now)
		return client.limiter
	}

	client := &clientLimiter{
		limiter: rate.NewLimiter(rate.Limit(rl.requestsPerSec), rl.burstSize),
	}
	client.lastSeen.Store(now)

	actual, _ := rl.clients.LoadOrStore(ip, client)
	return actual.(*clientLimiter).limiter
}

// cleanup removes old client limiters
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.removeOldClients(time.Now())
		}
	}
}

// removeOldClients removes limiters idle for more than twice the cleanup interval
func (rl *RateLimiter) removeOldClients(now time.Time) int {
	threshold := now.Add(-rl.cleanupInterval * 2).UnixNano()
	removed := 0

	rl.clients.Range(func(key, value any) bool {
		client := value.(*clientLimiter)
		if client.lastSeen.Load() < threshold {
			rl.clients.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		rl.logger.Debug("msg", "Evicted idle rate limit clients",
			"component", "rate_limit",
			"removed", removed)
	}
	return removed
}

// Stop gracefully shuts down the rate limiter
func (rl *RateLimiter) Stop() {
	if rl == nil {
		return
	}
	rl.stopOnce.Do(func() { close(rl.done) })
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]any {
	if rl == nil {
		return map[string]any{"enabled": false}
	}

	count := 0
	rl.clients.Range(func(_, _ any) bool {
		count++
		return true
	})

	return map[string]any{
		"enabled":             true,
		"active_clients":      count,
		"requests_per_second": rl.requestsPerSec,
		"burst_size":          rl.burstSize,
		"total_allowed":       rl.totalAllowed.Load(),
		"total_blocked":       rl.totalBlocked.Load(),
	}
}
