// FILE: src/internal/source/lines_test.go
package source

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"instaroid/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	entries []core.LogEntry
}

func (r *recorder) Log(level core.Level, message string, data core.Data, component string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, core.LogEntry{Level: level.String(), Message: message, Component: component})
}

func TestDetectLevel(t *testing.T) {
	testCases := []struct {
		line string
		want core.Level
	}{
		{"2024-01-01 [ERROR] disk full", core.LevelError},
		{"fatal: bad config", core.LevelError},
		{"WARNING: slow query", core.LevelWarn},
		{"[DBG] cache miss", core.LevelDebug},
		{"trace: enter handler", core.LevelDebug},
		{"plain text", core.LevelInfo},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectLevel(tc.line))
		})
	}
}

func TestLineSource_Run(t *testing.T) {
	rec := &recorder{}
	src := NewLineSource(strings.NewReader("first\n\n  \n[WARN] second\n"), rec, "stdin", log.NewLogger())

	require.NoError(t, src.Run(context.Background()))

	require.Len(t, rec.entries, 2)
	assert.Equal(t, "first", rec.entries[0].Message)
	assert.Equal(t, "INFO", rec.entries[0].Level)
	assert.Equal(t, "WARN", rec.entries[1].Level)
	assert.Equal(t, "stdin", rec.entries[1].Component)

	stats := src.GetStats()
	assert.Equal(t, uint64(2), stats["total_lines"])
	assert.Equal(t, uint64(2), stats["skipped_lines"])
}

func TestLineSource_Cancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	src := NewLineSource(pr, &recorder{}, "", log.NewLogger())

	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
