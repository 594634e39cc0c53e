/*
Package config handles loading, saving, and validating toolscout configuration.

Configuration is stored in ~/.toolscout.json:

	{
	  "servers": {
	    "serverName": {
	      "command": "npx",
	      "args": ["-y", "@package/name"],
	      "env": {"KEY": "value"},
	      "source": "claude-code"
	    }
	  },
	  "settings": {
	    "searchBackend": "keyword",
	    "processPoolSize": 3,
	    "timeoutSeconds": 30
	  }
	}

The TOOLSCOUT_CONFIG environment variable overrides the config path, which
tests use to avoid touching the real home directory.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigPathEnv overrides the default config file location when set.
const ConfigPathEnv = "TOOLSCOUT_CONFIG"

// Config represents the root configuration structure.
type Config struct {
	// Servers maps server names to their configurations.
	Servers map[string]*ServerConfig `json:"servers"`

	// Settings contains global configuration options.
	Settings *Settings `json:"settings,omitempty"`
}

// ServerConfig represents a single MCP server configuration.
type ServerConfig struct {
	// Command is the executable to run (e.g., "npx", "/path/to/binary").
	Command string `json:"command"`

	// Args are the command-line arguments.
	Args []string `json:"args,omitempty"`

	// Env contains environment variables for the server.
	Env map[string]string `json:"env,omitempty"`

	// Source indicates where this config was imported from (e.g., "claude-code").
	Source string `json:"source,omitempty"`
}

// Settings contains global configuration options.
type Settings struct {
	// SearchBackend selects the hub_search backend: "keyword", "bm25",
	// or "hybrid". Defaults to "keyword".
	SearchBackend string `json:"searchBackend,omitempty"`

	// ProcessPoolSize is the max number of concurrent MCP server processes.
	ProcessPoolSize int `json:"processPoolSize,omitempty"`

	// TimeoutSeconds is the default timeout for MCP operations.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`
}

// NewConfig creates a new empty configuration with default settings.
func NewConfig() *Config {
	return &Config{
		Servers: make(map[string]*ServerConfig),
		Settings: &Settings{
			SearchBackend:   "keyword",
			ProcessPoolSize: 3,
			TimeoutSeconds:  30,
		},
	}
}

// DefaultConfigPath returns the config file location: the TOOLSCOUT_CONFIG
// environment variable if set, otherwise ~/.toolscout.json.
func DefaultConfigPath() (string, error) {
	if path := os.Getenv(ConfigPathEnv); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".toolscout.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadOrCreate reads the configuration, returning an empty default config
// if the file does not exist yet.
func LoadOrCreate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		var notFound *ConfigNotFoundError
		if errors.As(err, &notFound) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// SaveDefault writes the configuration to the default path.
func SaveDefault(cfg *Config) error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return Save(cfg, path)
}
