// FILE: src/internal/filter/query.go
package filter

import (
	"strconv"
	"strings"

	"instaroid/src/internal/core"
)

// Query selects entries from the retained window for inspection
type Query struct {
	// Exact level name, empty or "all" matches every level
	Level string

	// Case-insensitive substring of message or component
	Text string

	// Exact component name
	Component string

	// Keep only the newest Limit matches, 0 = no limit
	Limit int
}

// ParseQuery builds a Query from URL query arguments
func ParseQuery(get func(key string) string) Query {
	q := Query{
		Level:     strings.ToUpper(strings.TrimSpace(get("level"))),
		Text:      get("q"),
		Component: get("component"),
	}
	if limit, err := strconv.Atoi(get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	if q.Level == "ALL" {
		q.Level = ""
	}
	return q
}

// Match reports whether entry satisfies every set criterion
func (q Query) Match(entry core.LogEntry) bool {
	if q.Level != "" && entry.Level != q.Level {
		return false
	}

	if q.Component != "" && entry.Component != q.Component {
		return false
	}

	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(entry.Message), needle) &&
			!strings.Contains(strings.ToLower(entry.Component), needle) {
			return false
		}
	}

	return true
}

// Apply returns the matching entries in their original order
func (q Query) Apply(entries []core.LogEntry) []core.LogEntry {
	matched := make([]core.LogEntry, 0, len(entries))
	for _, e := range entries {
		if q.Match(e) {
			matched = append(matched, e)
		}
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[len(matched)-q.Limit:]
	}
	return matched
}
