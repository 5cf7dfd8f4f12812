// FILE: src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"instaroid/src/internal/core"

	"github.com/lixenwraith/log"
)

// Batch is the wire envelope POSTed by the client buffer
type Batch struct {
	Logs []core.LogEntry `json:"logs"`
}

// JSONFormatter produces one JSON object per entry and the batch envelope.
type JSONFormatter struct {
	pretty bool
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(pretty bool, logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{
		pretty: pretty,
		logger: logger,
	}
}

// Format transforms a single LogEntry into a newline-terminated JSON object.
func (f *JSONFormatter) Format(entry core.LogEntry) ([]byte, error) {
	var result []byte
	var err error
	if f.pretty {
		result, err = json.MarshalIndent(entry, "", "  ")
	} else {
		result, err = json.Marshal(entry)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// FormatBatch encodes entries as {"logs": [...]}. An entry whose data cannot be
// marshaled is sent with its data dropped rather than failing the whole batch.
func (f *JSONFormatter) FormatBatch(entries []core.LogEntry) ([]byte, error) {
	logs := make([]json.RawMessage, 0, len(entries))

	for _, entry := range entries {
		raw, err := json.Marshal(entry)
		if err != nil {
			if f.logger != nil {
				f.logger.Warn("msg", "Dropping unserializable data from entry in batch",
					"component", "json_formatter",
					"message", entry.Message,
					"error", err)
			}
			entry.Data = nil
			if raw, err = json.Marshal(entry); err != nil {
				continue
			}
		}
		logs = append(logs, raw)
	}

	return json.Marshal(struct {
		Logs []json.RawMessage `json:"logs"`
	}{Logs: logs})
}
