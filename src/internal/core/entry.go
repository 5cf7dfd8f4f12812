// FILE: src/internal/core/entry.go
package core

import (
	"time"
)

// TimeFormat is the ISO-8601 layout used for every timestamp on the wire
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Data is a free-form bag of contextual fields attached to an entry.
// Consumers must treat absent keys as unknown.
type Data map[string]any

// Clone returns a shallow copy, nil stays nil
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// LogEntry represents a single telemetry event flowing from client to sink
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Data      Data   `json:"data,omitempty"`
	Component string `json:"component,omitempty"`
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// Timestamp formats t in UTC with millisecond precision
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Time parses the entry timestamp, returning the zero time when unparseable
func (e LogEntry) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
