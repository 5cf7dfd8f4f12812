// FILE: src/internal/filter/chain.go
package filter

import (
	"fmt"
	"sync/atomic"

	"instaroid/src/internal/config"
	"instaroid/src/internal/core"

	"github.com/lixenwraith/log"
)

// Chain is the ordered ingest filter set; an entry is retained only if every filter passes it
type Chain struct {
	filters []*Filter
	logger  *log.Logger

	checked  atomic.Uint64
	retained atomic.Uint64
}

func NewChain(configs []config.FilterConfig, logger *log.Logger) (*Chain, error) {
	c := &Chain{logger: logger}

	for i := range configs {
		f, err := NewFilter(configs[i], logger)
		if err != nil {
			return nil, fmt.Errorf("filter[%d]: %w", i, err)
		}
		c.filters = append(c.filters, f)
	}

	if len(c.filters) > 0 {
		logger.Info("msg", "Ingest filters active",
			"component", "filter_chain",
			"filter_count", len(c.filters))
	}
	return c, nil
}

// Apply reports whether entry should be retained. A nil chain retains everything.
func (c *Chain) Apply(entry core.LogEntry) bool {
	return c.Rejecting(entry) < 0
}

// Rejecting returns the index of the first filter that drops entry, or -1
func (c *Chain) Rejecting(entry core.LogEntry) int {
	if c == nil {
		return -1
	}
	c.checked.Add(1)

	for i, f := range c.filters {
		if f.Apply(entry) {
			continue
		}
		c.logger.Debug("msg", "Client entry dropped by filter",
			"component", "filter_chain",
			"filter_index", i,
			"filter_type", f.config.Type,
			"client_component", entry.Component)
		return i
	}

	c.retained.Add(1)
	return -1
}

// Len is the number of configured filters
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.filters)
}

func (c *Chain) GetStats() map[string]any {
	if c == nil {
		return nil
	}

	perFilter := make([]map[string]any, 0, len(c.filters))
	for _, f := range c.filters {
		perFilter = append(perFilter, f.GetStats())
	}

	checked, retained := c.checked.Load(), c.retained.Load()
	return map[string]any{
		"filter_count":   len(c.filters),
		"total_checked":  checked,
		"total_retained": retained,
		"total_dropped":  checked - retained,
		"filters":        perFilter,
	}
}
