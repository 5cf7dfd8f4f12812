// FILE: src/cmd/logsend/main_test.go
package main

import (
	"context"
	"testing"

	"instaroid/src/internal/client"
	"instaroid/src/internal/config"
	"instaroid/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopTransport struct{}

func (nopTransport) Send(context.Context, []core.LogEntry) error { return nil }

func newTestBuffer(t *testing.T, level string) *client.Buffer {
	t.Helper()
	cfg := config.DefaultClientConfig()
	cfg.Console = false
	cfg.Level = level

	buf, err := client.NewBuffer(cfg, nopTransport{},
		client.NewIdentity(client.NewMemoryStorage(), client.NewMemoryStorage()), log.NewLogger())
	require.NoError(t, err)
	return buf
}

func TestSendOne_VerboseLevelDelivered(t *testing.T) {
	buf := newTestBuffer(t, "info")

	require.NoError(t, sendOne(buf, "cache warmed", "debug", `{"keys":12}`, "logsend"))
	assert.Equal(t, 1, buf.Pending())
	assert.Equal(t, core.LevelDebug, buf.Level())
}

func TestSendOne_KeepsVerboseThreshold(t *testing.T) {
	buf := newTestBuffer(t, "debug")

	require.NoError(t, sendOne(buf, "deploy failed", "error", "", "logsend"))
	assert.Equal(t, 1, buf.Pending())
	assert.Equal(t, core.LevelDebug, buf.Level())
}

func TestSendOne_Errors(t *testing.T) {
	buf := newTestBuffer(t, "info")

	assert.Error(t, sendOne(buf, "m", "verbose", "", "logsend"))
	assert.Error(t, sendOne(buf, "m", "info", `[1,2]`, "logsend"))
	assert.Equal(t, 0, buf.Pending())
}

func TestSplitArgs(t *testing.T) {
	flags, overrides := splitArgs([]string{"-m", "hi", "--client.level=debug", "--verbose", "-level", "warn"})
	assert.Equal(t, []string{"-m", "hi", "--verbose", "-level", "warn"}, flags)
	assert.Equal(t, []string{"--client.level=debug"}, overrides)
}

func TestNewLogger(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		logger, err := newLogger(verbose)
		require.NoError(t, err)
		assert.NoError(t, logger.Shutdown())
	}
}
