// FILE: src/internal/client/buffer.go
package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"instaroid/src/internal/config"
	"instaroid/src/internal/core"
	"instaroid/src/internal/format"
	"instaroid/src/internal/metrics"

	"github.com/lixenwraith/log"
)

// Buffer collects entries locally and ships them in batches, either on a
// fixed interval or as soon as the queue reaches its size threshold.
// Failed batches are put back at the front of the queue for the next attempt.
type Buffer struct {
	// Configuration
	flushInterval time.Duration
	maxBuffer     int
	timeout       time.Duration

	// Application
	queue     *Queue
	transport Transport
	identity  *Identity
	console   io.Writer
	formatter format.Formatter
	logger    *log.Logger
	level     atomic.Int32
	now       func() time.Time

	// Runtime
	done     chan struct{}
	loopWg   sync.WaitGroup
	sendWg   sync.WaitGroup
	started  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once

	// Statistics
	totalLogged   atomic.Uint64
	totalFlushes  atomic.Uint64
	failedFlushes atomic.Uint64
	totalSent     atomic.Uint64
	totalRequeued atomic.Uint64
	totalDropped  atomic.Uint64
	inFlight      atomic.Int64
	lastFlush     atomic.Value // time.Time
	lastError     atomic.Value // string
}

// Option customizes a Buffer
type Option func(*Buffer)

// WithConsole sets the echo writer, nil disables echo
func WithConsole(w io.Writer) Option {
	return func(b *Buffer) {
		b.console = w
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(b *Buffer) {
		b.now = now
	}
}

// NewBuffer creates a client log buffer. It does not flush on a timer until Start is called.
func NewBuffer(cfg *config.ClientConfig, transport Transport, identity *Identity, logger *log.Logger, opts ...Option) (*Buffer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("client config cannot be nil")
	}
	if transport == nil {
		return nil, fmt.Errorf("client transport cannot be nil")
	}
	if err := config.ValidateClient(cfg); err != nil {
		return nil, err
	}

	threshold, err := core.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	b := &Buffer{
		flushInterval: time.Duration(cfg.FlushIntervalMS) * time.Millisecond,
		maxBuffer:     int(cfg.MaxBufferSize),
		timeout:       time.Duration(cfg.TimeoutMS) * time.Millisecond,
		queue:         NewQueue(int(cfg.MaxPending)),
		transport:     transport,
		identity:      identity,
		formatter:     format.NewConsoleFormatter(&format.Options{Color: cfg.Color}, logger),
		logger:        logger,
		now:           time.Now,
		done:          make(chan struct{}),
	}
	b.level.Store(int32(threshold))
	b.lastFlush.Store(time.Time{})
	b.lastError.Store("")

	if cfg.Console {
		b.console = os.Stdout
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Start begins the periodic flush loop
func (b *Buffer) Start(ctx context.Context) {
	if !b.started.CompareAndSwap(false, true) {
		return
	}

	b.loopWg.Add(1)
	go b.flushTimer(ctx)

	b.logger.Info("msg", "Client log buffer started",
		"component", "client_buffer",
		"level", b.Level().String(),
		"flush_interval_ms", b.flushInterval.Milliseconds(),
		"max_buffer_size", b.maxBuffer)
}

// Stop halts the timer, makes a final bounded flush and waits for in-flight sends.
// Entries logged after Stop are discarded. Safe to call more than once.
func (b *Buffer) Stop() {
	b.stopOnce.Do(func() {
		b.stopped.Store(true)
		close(b.done)
		b.loopWg.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		if err := b.Flush(ctx); err != nil {
			b.logger.Warn("msg", "Final flush failed",
				"component", "client_buffer",
				"pending", b.queue.Len(),
				"error", err)
		}

		b.sendWg.Wait()

		b.logger.Info("msg", "Client log buffer stopped",
			"component", "client_buffer",
			"total_logged", b.totalLogged.Load(),
			"total_flushes", b.totalFlushes.Load(),
			"failed_flushes", b.failedFlushes.Load(),
			"pending", b.queue.Len())
	})
}

// SetLevel changes the visibility threshold for subsequent calls
func (b *Buffer) SetLevel(level core.Level) {
	if !level.Valid() {
		return
	}
	b.level.Store(int32(level))
}

// Level returns the current visibility threshold
func (b *Buffer) Level() core.Level {
	return core.Level(b.level.Load())
}

// Log records an entry when level is at or above the threshold's severity.
// Invalid levels and calls after Stop are ignored.
func (b *Buffer) Log(level core.Level, message string, data core.Data, component string) {
	if b.stopped.Load() || !level.Valid() || !level.Enabled(b.Level()) {
		return
	}

	entry := core.LogEntry{
		Timestamp: core.Timestamp(b.now()),
		Level:     level.String(),
		Message:   message,
		Data:      data,
		Component: component,
		UserID:    b.identity.UserID(),
		SessionID: b.identity.SessionID(),
	}

	b.echo(entry)
	b.totalLogged.Add(1)

	n, dropped := b.queue.Push(entry)
	b.recordDropped(dropped)

	if n >= b.maxBuffer {
		if batch := b.queue.Drain(); len(batch) > 0 {
			b.sendAsync(batch)
		}
	}
}

// Error logs at ERROR
func (b *Buffer) Error(message string, data core.Data, component string) {
	b.Log(core.LevelError, message, data, component)
}

// Warn logs at WARN
func (b *Buffer) Warn(message string, data core.Data, component string) {
	b.Log(core.LevelWarn, message, data, component)
}

// Info logs at INFO
func (b *Buffer) Info(message string, data core.Data, component string) {
	b.Log(core.LevelInfo, message, data, component)
}

// Debug logs at DEBUG
func (b *Buffer) Debug(message string, data core.Data, component string) {
	b.Log(core.LevelDebug, message, data, component)
}

// Flush drains the queue and delivers it synchronously. An empty queue is a no-op.
func (b *Buffer) Flush(ctx context.Context) error {
	batch := b.queue.Drain()
	if len(batch) == 0 {
		return nil
	}
	return b.deliver(ctx, batch)
}

// Pending returns the number of queued entries
func (b *Buffer) Pending() int {
	return b.queue.Len()
}

// GetStats returns buffer statistics
func (b *Buffer) GetStats() map[string]any {
	lastFlush, _ := b.lastFlush.Load().(time.Time)
	lastError, _ := b.lastError.Load().(string)

	return map[string]any{
		"level":          b.Level().String(),
		"pending":        b.queue.Len(),
		"in_flight":      b.inFlight.Load(),
		"total_logged":   b.totalLogged.Load(),
		"total_flushes":  b.totalFlushes.Load(),
		"failed_flushes": b.failedFlushes.Load(),
		"total_sent":     b.totalSent.Load(),
		"total_requeued": b.totalRequeued.Load(),
		"total_dropped":  b.totalDropped.Load(),
		"last_flush":     lastFlush,
		"last_error":     lastError,
	}
}

// flushTimer periodically ships whatever is queued
func (b *Buffer) flushTimer(ctx context.Context) {
	defer b.loopWg.Done()

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if batch := b.queue.Drain(); len(batch) > 0 {
				b.sendAsync(batch)
			}

		case <-ctx.Done():
			return
		case <-b.done:
			return
		}
	}
}

func (b *Buffer) sendAsync(batch []core.LogEntry) {
	b.sendWg.Add(1)
	go func() {
		defer b.sendWg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		_ = b.deliver(ctx, batch)
	}()
}

// deliver sends one captured batch and requeues it on failure
func (b *Buffer) deliver(ctx context.Context, batch []core.LogEntry) error {
	b.inFlight.Add(1)
	defer b.inFlight.Add(-1)

	b.totalFlushes.Add(1)
	b.lastFlush.Store(time.Now())

	err := b.transport.Send(ctx, batch)
	metrics.ClientFlush(err == nil)

	if err != nil {
		b.failedFlushes.Add(1)
		b.lastError.Store(err.Error())

		dropped := b.queue.Requeue(batch)
		b.totalRequeued.Add(uint64(len(batch)))
		b.recordDropped(dropped)

		b.logger.Warn("msg", "Failed to send logs to server",
			"component", "client_buffer",
			"batch_size", len(batch),
			"dropped", dropped,
			"pending", b.queue.Len(),
			"error", err)
		return err
	}

	b.totalSent.Add(uint64(len(batch)))
	b.logger.Debug("msg", "Batch sent successfully",
		"component", "client_buffer",
		"batch_size", len(batch))
	return nil
}

func (b *Buffer) recordDropped(n int) {
	if n <= 0 {
		return
	}
	b.totalDropped.Add(uint64(n))
	metrics.ClientDropped(n)
	b.logger.Warn("msg", "Pending queue full, oldest entries dropped",
		"component", "client_buffer",
		"dropped", n)
}

// echo writes the console line, failures are not the producer's concern
func (b *Buffer) echo(entry core.LogEntry) {
	if b.console == nil {
		return
	}
	line, err := b.formatter.Format(entry)
	if err != nil {
		return
	}
	_, _ = b.console.Write(line)
}
