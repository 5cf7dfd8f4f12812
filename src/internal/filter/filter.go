// FILE: src/internal/filter/filter.go
package filter

import (
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"

	"instaroid/src/internal/config"
	"instaroid/src/internal/core"

	"github.com/lixenwraith/log"
)

// Filter matches regular expressions against "LEVEL [component] message".
// Include filters keep matching entries, exclude filters drop them.
type Filter struct {
	config   config.FilterConfig
	mu       sync.RWMutex
	patterns []*regexp.Regexp
	logger   *log.Logger

	checked atomic.Uint64
	matched atomic.Uint64
	dropped atomic.Uint64
}

// NewFilter defaults to an include filter with "or" logic
func NewFilter(cfg config.FilterConfig, logger *log.Logger) (*Filter, error) {
	if cfg.Type == "" {
		cfg.Type = config.FilterTypeInclude
	}
	if cfg.Logic == "" {
		cfg.Logic = config.FilterLogicOr
	}

	patterns, err := compile(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	logger.Debug("msg", "Filter created",
		"component", "filter",
		"type", cfg.Type,
		"logic", cfg.Logic,
		"pattern_count", len(patterns))

	return &Filter{config: cfg, patterns: patterns, logger: logger}, nil
}

func compile(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, p, err)
		}
		out[i] = re
	}
	return out, nil
}

// Apply reports whether entry passes. A filter without patterns passes everything.
func (f *Filter) Apply(entry core.LogEntry) bool {
	f.checked.Add(1)

	f.mu.RLock()
	patterns := f.patterns
	f.mu.RUnlock()

	if len(patterns) == 0 {
		return true
	}

	hit := f.matches(patterns, matchText(entry))
	if hit {
		f.matched.Add(1)
	}

	pass := hit
	if f.config.Type == config.FilterTypeExclude {
		pass = !hit
	}
	if !pass {
		f.dropped.Add(1)
	}
	return pass
}

// matchText skips empty parts
func matchText(entry core.LogEntry) string {
	text := entry.Message
	if entry.Component != "" {
		text = "[" + entry.Component + "] " + text
	}
	if entry.Level != "" {
		text = entry.Level + " " + text
	}
	return text
}

// matches applies "or" (any pattern) or "and" (every pattern) logic
func (f *Filter) matches(patterns []*regexp.Regexp, text string) bool {
	all := f.config.Logic == config.FilterLogicAnd
	for _, re := range patterns {
		if re.MatchString(text) != all {
			return !all
		}
	}
	return all
}

func (f *Filter) GetStats() map[string]any {
	f.mu.RLock()
	count := len(f.patterns)
	f.mu.RUnlock()

	return map[string]any{
		"type":          f.config.Type,
		"logic":         f.config.Logic,
		"pattern_count": count,
		"total_checked": f.checked.Load(),
		"total_matched": f.matched.Load(),
		"total_dropped": f.dropped.Load(),
	}
}

// UpdatePatterns swaps the pattern set; on error the old set stays active
func (f *Filter) UpdatePatterns(patterns []string) error {
	compiled, err := compile(patterns)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.patterns = compiled
	f.config.Patterns = patterns
	f.mu.Unlock()

	f.logger.Info("msg", "Filter patterns updated",
		"component", "filter",
		"pattern_count", len(patterns))
	return nil
}
