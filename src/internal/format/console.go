// FILE: src/internal/format/console.go
package format

import (
	"encoding/json"
	"fmt"

	"instaroid/src/internal/core"

	"github.com/lixenwraith/log"
)

// ConsoleFormatter renders the client echo line: [timestamp] LEVEL message {data}
type ConsoleFormatter struct {
	palette *Palette
	logger  *log.Logger
}

func NewConsoleFormatter(opts *Options, logger *log.Logger) *ConsoleFormatter {
	return &ConsoleFormatter{
		palette: NewPalette(opts.Color, true),
		logger:  logger,
	}
}

func (f *ConsoleFormatter) Format(entry core.LogEntry) ([]byte, error) {
	header := f.palette.Paint(entry.Level, fmt.Sprintf("[%s] %s", entry.Timestamp, entry.Level))
	line := header + " " + entry.Message

	if len(entry.Data) > 0 {
		data, err := json.Marshal(entry.Data)
		if err != nil {
			data = []byte(fmt.Sprint(map[string]any(entry.Data)))
		}
		line += " " + string(data)
	}

	return []byte(line + "\n"), nil
}

func (f *ConsoleFormatter) Name() string {
	return "console"
}
