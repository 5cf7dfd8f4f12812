// FILE: src/internal/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

const envPrefix = "INSTAROID_"

// Load builds the configuration from defaults, file, environment and CLI overrides.
// Precedence: CLI > env > file > defaults. A missing config file is not an error.
func Load(cliArgs []string, configFile string) (*Config, error) {
	if configFile != "" {
		os.Setenv(envPrefix+"CONFIG_FILE", configFile)
	}
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix(envPrefix).
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !errors.Is(err, lconfig.ErrConfigNotFound) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if configFile != "" {
			return nil, fmt.Errorf("config file not found: %s", configFile)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}
	finalConfig.ConfigFile = configPath
	finalConfig.fillDefaults()

	return finalConfig, validateConfig(finalConfig)
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = envPrefix + env
	return env
}

// GetConfigPath resolves the config file location from the environment
func GetConfigPath() string {
	if configFile := os.Getenv(envPrefix + "CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv(envPrefix + "CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv(envPrefix + "CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "instaroid.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "instaroid.toml")
	}

	return "instaroid.toml"
}

// fillDefaults restores sections a config file nulled out
func (c *Config) fillDefaults() {
	d := defaults()
	if c.Logging == nil {
		c.Logging = d.Logging
	}
	if c.Server == nil {
		c.Server = d.Server
	}
	if c.Server.Sink == nil {
		c.Server.Sink = d.Server.Sink
	}
	if c.Client == nil {
		c.Client = d.Client
	}
}
