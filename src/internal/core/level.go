// FILE: src/internal/core/level.go
package core

import (
	"fmt"
	"strings"
)

// Level is an ordinal severity; lower values are more severe
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// DefaultLevel is the visibility threshold used when none is configured
const DefaultLevel = LevelInfo

var levelNames = [...]string{"ERROR", "WARN", "INFO", "DEBUG"}

func (l Level) String() string {
	if !l.Valid() {
		return ""
	}
	return levelNames[l]
}

// Valid reports whether l is one of the four known severities
func (l Level) Valid() bool {
	return l >= LevelError && l <= LevelDebug
}

// Enabled reports whether an event at l passes the threshold
func (l Level) Enabled(threshold Level) bool {
	return l.Valid() && l <= threshold
}

// ParseLevel accepts level names in any case, plus "warning"
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "INFO":
		return LevelInfo, nil
	case "DEBUG":
		return LevelDebug, nil
	default:
		return DefaultLevel, fmt.Errorf("unknown log level: %s", s)
	}
}

// NormalizeLevel maps a wire level name onto a known name, unknown names become INFO
func NormalizeLevel(s string) Level {
	l, err := ParseLevel(s)
	if err != nil {
		return LevelInfo
	}
	return l
}
