// FILE: src/internal/format/readable.go
package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"instaroid/src/internal/core"

	"github.com/lixenwraith/log"
)

const defaultReadableTimeFormat = "2006-01-02 15:04:05"

// Enrichment keys added by the ingress and sink, skipped by the generic fallback
var enrichmentKeys = map[string]bool{
	"clientInfo":  true,
	"requestInfo": true,
}

// ReadableFormatter renders the human-readable console line of the server sink:
//
//	[time] LEVEL [component] message | parts
type ReadableFormatter struct {
	timestampFormat string
	palette         *Palette
	logger          *log.Logger
}

// Creates a readable formatter
func NewReadableFormatter(opts *Options, logger *log.Logger) *ReadableFormatter {
	tf := opts.TimestampFormat
	if tf == "" {
		tf = defaultReadableTimeFormat
	}
	return &ReadableFormatter{
		timestampFormat: tf,
		palette:         NewPalette(opts.Color, false),
		logger:          logger,
	}
}

// Format renders the entry as a single newline-terminated line
func (f *ReadableFormatter) Format(entry core.LogEntry) ([]byte, error) {
	line := f.Line(entry)
	return []byte(f.palette.Paint(entry.Level, line) + "\n"), nil
}

// Line renders the entry without color or trailing newline
func (f *ReadableFormatter) Line(entry core.LogEntry) string {
	var b strings.Builder

	ts := entry.Timestamp
	if t := entry.Time(); !t.IsZero() {
		ts = t.Local().Format(f.timestampFormat)
	}
	fmt.Fprintf(&b, "[%s] %-5s ", ts, entry.Level)

	if entry.Component != "" {
		fmt.Fprintf(&b, "[%s] ", entry.Component)
	}

	b.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		if parts := ReadableData(entry.Data); parts != "" {
			b.WriteString(" | ")
			b.WriteString(parts)
		}
	}

	return b.String()
}

// Returns the formatter name
func (f *ReadableFormatter) Name() string {
	return "readable"
}

// ReadableData projects recognized optional fields of data into a short summary.
// Shapes with no recognized field fall back to compact JSON without enrichment keys.
func ReadableData(data core.Data) string {
	if len(data) == 0 {
		return ""
	}

	var parts []string

	from, hasFrom := data["from"]
	to, hasTo := data["to"]
	if hasFrom && hasTo {
		parts = append(parts, fmt.Sprintf("%s → %s", text(from), text(to)))
	}

	if v, ok := data["themeName"]; ok && truthy(v) {
		parts = append(parts, "theme: "+text(v))
	}

	if v, ok := data["themeIndex"]; ok {
		parts = append(parts, "index: "+text(v))
	}

	if v, ok := data["buttonName"]; ok && truthy(v) {
		parts = append(parts, "button: "+text(v))
	}

	if v, ok := data["formType"]; ok && truthy(v) {
		parts = append(parts, "form: "+text(v))
	}

	clientInfoSeen := false
	if ci, ok := AsMap(data["clientInfo"]); ok {
		clientInfoSeen = true
		if sid, ok := ci["sessionId"].(string); ok && sid != "" {
			parts = append(parts, "session: "+prefix(sid, 8)+"...")
		}
		if ip, ok := ci["ip"].(string); ok && ip != "" && ip != "::1" {
			parts = append(parts, "ip: "+ip)
		}
	}

	if v, ok := data["error"]; ok && truthy(v) {
		parts = append(parts, "error: "+text(v))
	}

	if v, ok := data["duration"]; ok && truthy(v) {
		parts = append(parts, "duration: "+text(v)+"ms")
	}

	if len(parts) > 0 || clientInfoSeen {
		return strings.Join(parts, ", ")
	}

	return fallbackJSON(data)
}

func fallbackJSON(data core.Data) string {
	rest := make(map[string]any, len(data))
	for k, v := range data {
		if !enrichmentKeys[k] {
			rest[k] = v
		}
	}
	if len(rest) == 0 {
		return ""
	}
	out, err := json.Marshal(rest)
	if err != nil {
		return fmt.Sprint(rest)
	}
	return string(out)
}

// text renders a JSON-ish value the way a template literal would
func text(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// AsMap accepts both decoded JSON objects and core.Data values
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case core.Data:
		return m, true
	default:
		return nil, false
	}
}

// truthy treats empty strings, zero numbers, false and nil as absent
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case float32:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return true
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
