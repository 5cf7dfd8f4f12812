// FILE: src/internal/filter/stats.go
package filter

import (
	"sort"

	"instaroid/src/internal/core"
)

// Summary aggregates a set of entries for the stats endpoint
type Summary struct {
	Total      int            `json:"total"`
	Levels     map[string]int `json:"levels"`
	Components []string       `json:"components"`
	Sessions   int            `json:"sessions"`
}

// Summarize counts levels, distinct components and distinct sessions
func Summarize(entries []core.LogEntry) Summary {
	s := Summary{
		Total: len(entries),
		Levels: map[string]int{
			core.LevelError.String(): 0,
			core.LevelWarn.String():  0,
			core.LevelInfo.String():  0,
			core.LevelDebug.String(): 0,
		},
		Components: []string{},
	}

	components := make(map[string]struct{})
	sessions := make(map[string]struct{})

	for _, e := range entries {
		s.Levels[e.Level]++
		if e.Component != "" {
			components[e.Component] = struct{}{}
		}
		if sid := sessionOf(e); sid != "" {
			sessions[sid] = struct{}{}
		}
	}

	for c := range components {
		s.Components = append(s.Components, c)
	}
	sort.Strings(s.Components)
	s.Sessions = len(sessions)

	return s
}

// sessionOf prefers the top-level id, then the ingress clientInfo copy
func sessionOf(e core.LogEntry) string {
	if e.SessionID != "" {
		return e.SessionID
	}
	var ci map[string]any
	switch v := e.Data["clientInfo"].(type) {
	case map[string]any:
		ci = v
	case core.Data:
		ci = v
	}
	if sid, ok := ci["sessionId"].(string); ok {
		return sid
	}
	return ""
}
