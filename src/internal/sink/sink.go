// FILE: src/internal/sink/sink.go
package sink

import (
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

// RequestInfo describes the HTTP request that carried an entry.
// Empty fields serialize as null.
type RequestInfo struct {
	Method    string
	URL       string
	UserAgent string
	IP        string
	Referer   string
}

// Map renders the request as the requestInfo data object
func (r *RequestInfo) Map() map[string]any {
	return map[string]any{
		"method":    orNil(r.Method),
		"url":       orNil(r.URL),
		"userAgent": orNil(r.UserAgent),
		"ip":        orNil(r.IP),
		"referer":   orNil(r.Referer),
	}
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Sink retains the most recent entries in memory and echoes each one to the console
type Sink struct {
	ring      *Ring
	formatter format.Formatter
	logger    *log.Logger
	now       func() time.Time
	startTime time.Time

	consoleMu sync.Mutex
	console   io.Writer

	// Statistics
	totalReceived atomic.Uint64
	totalCleared  atomic.Uint64
	lastReceived  atomic.Value // time.Time
	levelCounts   [4]atomic.Uint64
}

// Option customizes a Sink
type Option func(*Sink)

// WithWriter sets the console writer, nil disables echo
func WithWriter(w io.Writer) Option {
	return func(s *Sink) {
		s.console = w
	}
}

// WithClock overrides the server timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		s.now = now
	}
}

// New creates a sink. A nil config uses the server defaults.
func New(cfg *config.SinkConfig, logger *log.Logger, opts ...Option) *Sink {
	if cfg == nil {
		cfg = config.DefaultServerConfig().Sink
	}

	formatter, err := format.NewFormatter(cfg.Format, &format.Options{
		TimestampFormat: cfg.TimestampFormat,
		Color:           cfg.Color,
	}, logger)
	if err != nil {
		logger.Warn("msg", "Unknown sink format, using readable",
			"component", "sink",
			"format", cfg.Format)
		formatter = format.NewReadableFormatter(&format.Options{
			TimestampFormat: cfg.TimestampFormat,
			Color:           cfg.Color,
		}, logger)
	}

	s := &Sink{
		ring:      NewRing(int(cfg.Capacity)),
		formatter: formatter,
		logger:    logger,
		now:       time.Now,
		startTime: time.Now(),
	}
	s.lastReceived.Store(time.Time{})

	if cfg.Console {
		s.console = os.Stdout
	}

	for _, opt := range opts {
		opt(s)
	}

	logger.Debug("msg", "Sink created",
		"component", "sink",
		"capacity", s.ring.Cap(),
		"format", formatter.Name())
	return s
}

// LogEntry stamps entry with the server clock, attaches the request, retains it
// and writes the console line. Nothing is returned; retention cannot fail.
func (s *Sink) LogEntry(entry core.LogEntry, req *RequestInfo) {
	level := core.NormalizeLevel(entry.Level)
	entry.Level = level.String()
	entry.Timestamp = core.Timestamp(s.now())

	data := entry.Data.Clone()
	if req != nil {
		if data == nil {
			data = make(core.Data, 1)
		}
		data["requestInfo"] = req.Map()
	}
	entry.Data = data

	s.ring.Append(entry)

	s.totalReceived.Add(1)
	s.levelCounts[level].Add(1)
	s.lastReceived.Store(time.Now())
	metrics.SetRetained(s.ring.Len())

	s.write(entry)
}

func (s *Sink) Error(message string, data core.Data, component string, req *RequestInfo) {
	s.log(core.LevelError, message, data, component, req)
}

func (s *Sink) Warn(message string, data core.Data, component string, req *RequestInfo) {
	s.log(core.LevelWarn, message, data, component, req)
}

func (s *Sink) Info(message string, data core.Data, component string, req *RequestInfo) {
	s.log(core.LevelInfo, message, data, component, req)
}

func (s *Sink) Debug(message string, data core.Data, component string, req *RequestInfo) {
	s.log(core.LevelDebug, message, data, component, req)
}

func (s *Sink) log(level core.Level, message string, data core.Data, component string, req *RequestInfo) {
	s.LogEntry(core.LogEntry{
		Level:     level.String(),
		Message:   message,
		Data:      data,
		Component: component,
	}, req)
}

// Logs returns a copy of the retained entries, oldest first
func (s *Sink) Logs() []core.LogEntry {
	return s.ring.Snapshot()
}

// Clear discards every retained entry and returns the count removed
func (s *Sink) Clear() int {
	n := s.ring.Clear()
	s.totalCleared.Add(uint64(n))
	metrics.SetRetained(0)

	s.logger.Info("msg", "Retained logs cleared",
		"component", "sink",
		"cleared", n)
	return n
}

// Len returns the number of retained entries
func (s *Sink) Len() int {
	return s.ring.Len()
}

// GetStats returns sink statistics
func (s *Sink) GetStats() map[string]any {
	lastReceived, _ := s.lastReceived.Load().(time.Time)

	levels := make(map[string]uint64, len(s.levelCounts))
	for i := range s.levelCounts {
		levels[core.Level(i).String()] = s.levelCounts[i].Load()
	}

	return map[string]any{
		"capacity":       s.ring.Cap(),
		"retained":       s.ring.Len(),
		"evicted":        s.ring.Evicted(),
		"total_received": s.totalReceived.Load(),
		"total_cleared":  s.totalCleared.Load(),
		"levels":         levels,
		"start_time":     s.startTime,
		"last_received":  lastReceived,
	}
}

func (s *Sink) write(entry core.LogEntry) {
	s.consoleMu.Lock()
	defer s.consoleMu.Unlock()

	if s.console == nil {
		return
	}

	line, err := s.formatter.Format(entry)
	if err != nil {
		s.logger.Error("msg", "Failed to format log entry for console",
			"component", "sink",
			"error", err)
		return
	}
	if _, err := s.console.Write(line); err != nil {
		s.logger.Debug("msg", "Console write failed",
			"component", "sink",
			"error", err)
	}
}
