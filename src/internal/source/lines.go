// FILE: src/internal/source/lines.go
package source

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"instaroid/src/internal/core"

	"github.com/lixenwraith/log"
)

// Logger receives one call per accepted line. client.Buffer satisfies it.
type Logger interface {
	Log(level core.Level, message string, data core.Data, component string)
}

// LineSource reads newline-delimited text and forwards each non-empty line
type LineSource struct {
	reader    io.Reader
	out       Logger
	component string
	logger    *log.Logger

	totalLines   atomic.Uint64
	skippedLines atomic.Uint64
	startTime    time.Time
	lastLineTime atomic.Value // time.Time
}

func NewLineSource(r io.Reader, out Logger, component string, logger *log.Logger) *LineSource {
	s := &LineSource{
		reader:    r,
		out:       out,
		component: component,
		logger:    logger,
		startTime: time.Now(),
	}
	s.lastLineTime.Store(time.Time{})
	return s
}

// Run blocks until the reader is exhausted or ctx is done.
// A cancelled ctx returns ctx.Err(), reaching EOF returns the scanner error if any.
func (s *LineSource) Run(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.reader)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	s.logger.Debug("msg", "Line source started", "component", "line_source")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					s.logger.Error("msg", "Scanner error reading input",
						"component", "line_source",
						"error", err)
					return err
				}
				return nil
			}
			s.publish(line)
		}
	}
}

func (s *LineSource) publish(line string) {
	if strings.TrimSpace(line) == "" {
		s.skippedLines.Add(1)
		return
	}
	s.totalLines.Add(1)
	s.lastLineTime.Store(time.Now())
	s.out.Log(DetectLevel(line), line, nil, s.component)
}

func (s *LineSource) GetStats() map[string]any {
	lastLine, _ := s.lastLineTime.Load().(time.Time)
	return map[string]any{
		"total_lines":   s.totalLines.Load(),
		"skipped_lines": s.skippedLines.Load(),
		"start_time":    s.startTime,
		"last_line":     lastLine,
	}
}

var levelMarkers = []struct {
	markers []string
	level   core.Level
}{
	{[]string{"[ERROR]", "ERROR:", " ERROR ", "ERR:", "[ERR]", "FATAL:", "[FATAL]"}, core.LevelError},
	{[]string{"[WARN]", "WARN:", " WARN ", "WARNING:", "[WARNING]"}, core.LevelWarn},
	{[]string{"[INFO]", "INFO:", " INFO ", "[INF]", "INF:"}, core.LevelInfo},
	{[]string{"[DEBUG]", "DEBUG:", " DEBUG ", "[DBG]", "DBG:", "[TRACE]", "TRACE:"}, core.LevelDebug},
}

// DetectLevel guesses a line's severity from common level markers, INFO otherwise
func DetectLevel(line string) core.Level {
	upper := strings.ToUpper(line)
	for _, group := range levelMarkers {
		for _, marker := range group.markers {
			if strings.Contains(upper, marker) {
				return group.level
			}
		}
	}
	return core.LevelInfo
}
