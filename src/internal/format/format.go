// FILE: src/internal/format/format.go
package format

import (
	"fmt"

	"instaroid/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for transforming a LogEntry into a byte slice.
type Formatter interface {
	// Format takes a LogEntry and returns the formatted log as a byte slice.
	Format(entry core.LogEntry) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// Options shared by the line formatters
type Options struct {
	// Go time layout, applied in local time
	TimestampFormat string

	// Colorize by level
	Color bool
}

// NewFormatter creates a Formatter by name. An empty name selects "readable".
func NewFormatter(name string, opts *Options, logger *log.Logger) (Formatter, error) {
	if opts == nil {
		opts = &Options{}
	}

	switch name {
	case "", "readable":
		return NewReadableFormatter(opts, logger), nil
	case "json":
		return NewJSONFormatter(false, logger), nil
	case "console":
		return NewConsoleFormatter(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}
