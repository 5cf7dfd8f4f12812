// FILE: src/internal/limit/ratelimiter_test.go
package limit

import (
	"testing"
	"time"

	"instaroid/src/internal/config"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestNew(t *testing.T) {
	assert.Nil(t, New(nil, newTestLogger()))
	assert.Nil(t, New(&config.RateLimitConfig{Enabled: false}, newTestLogger()))

	var rl *RateLimiter
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.Equal(t, 429, rl.ResponseCode())
	assert.Equal(t, false, rl.GetStats()["enabled"])
	rl.Stop()
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := New(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		ResponseCode:      503,
	}, newTestLogger())
	require.NotNil(t, rl)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")
	assert.Equal(t, 503, rl.ResponseCode())

	stats := rl.GetStats()
	assert.Equal(t, 2, stats["active_clients"])
	assert.Equal(t, uint64(3), stats["total_allowed"])
	assert.Equal(t, uint64(1), stats["total_blocked"])
}

func TestRateLimiter_RemoveOldClients(t *testing.T) {
	rl := New(&config.RateLimitConfig{
		Enabled:            true,
		RequestsPerSecond:  10,
		BurstSize:          1,
		CleanupIntervalSec: 1,
	}, newTestLogger())
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	assert.Equal(t, 0, rl.removeOldClients(time.Now()))
	assert.Equal(t, 1, rl.removeOldClients(time.Now().Add(3*time.Second)))
	assert.Equal(t, 0, rl.GetStats()["active_clients"])

	rl.Stop()
	rl.Stop()
}
