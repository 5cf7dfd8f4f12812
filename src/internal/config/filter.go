// FILE: src/internal/config/filter.go
package config

import (
	"fmt"
	"regexp"
)

// FilterType selects whether matching entries are kept or dropped
type FilterType string

const (
	FilterTypeInclude FilterType = "include"
	FilterTypeExclude FilterType = "exclude"
)

// FilterLogic combines multiple patterns
type FilterLogic string

const (
	FilterLogicOr  FilterLogic = "or"
	FilterLogicAnd FilterLogic = "and"
)

// FilterConfig is one regex filter applied to ingested entries before retention
type FilterConfig struct {
	Type     FilterType  `toml:"type"`
	Logic    FilterLogic `toml:"logic"`
	Patterns []string    `toml:"patterns"`
}

func validateFilter(filterIndex int, cfg *FilterConfig) error {
	switch cfg.Type {
	case FilterTypeInclude, FilterTypeExclude, "":
	default:
		return fmt.Errorf("filter[%d]: invalid type '%s' (must be 'include' or 'exclude')",
			filterIndex, cfg.Type)
	}

	switch cfg.Logic {
	case FilterLogicOr, FilterLogicAnd, "":
	default:
		return fmt.Errorf("filter[%d]: invalid logic '%s' (must be 'or' or 'and')",
			filterIndex, cfg.Logic)
	}

	// Empty patterns is valid - passes everything
	for i, pattern := range cfg.Patterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("filter[%d] pattern[%d] '%s': invalid regex: %w",
				filterIndex, i, pattern, err)
		}
	}

	return nil
}
