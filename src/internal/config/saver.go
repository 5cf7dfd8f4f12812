// FILE: src/internal/config/saver.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	lconfig "github.com/lixenwraith/config"
)

// SaveToFile validates c and writes it as TOML, creating the parent directory
func (c *Config) SaveToFile(path string) error {
	if path == "" {
		return fmt.Errorf("cannot save config: path is empty")
	}
	if err := validateConfig(c); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	lcfg, err := lconfig.NewBuilder().
		WithFile(path).
		WithTarget(c).
		WithFileFormat("toml").
		Build()
	if err != nil {
		return fmt.Errorf("failed to create config builder: %w", err)
	}

	if err := lcfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config %s: %w", path, err)
	}
	return nil
}
