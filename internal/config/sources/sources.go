/*
Package sources provides readers for MCP configurations from AI CLI tools.

Supported sources:
  - Claude Code: ~/.claude.json, .mcp.json
  - Cursor: ~/.cursor/mcp.json
*/
package sources

import (
	"github.com/toolscout/toolscout/internal/config"
)

// Source represents an MCP configuration source (e.g., Claude Code).
type Source interface {
	// Name returns the source identifier (e.g., "claude-code").
	Name() string

	// Scan searches for and parses MCP configurations.
	// Returns nil if no configuration is found.
	Scan() (*SourceResult, error)
}

// SourceResult contains the parsed MCP servers from a source.
type SourceResult struct {
	// ConfigPath is the path to the configuration file that was read.
	ConfigPath string

	// Servers maps server names to their configurations.
	Servers map[string]*config.ServerConfig
}

// GetAllSources returns all available configuration sources in priority
// order.
func GetAllSources() []Source {
	return []Source{
		NewClaudeCodeSource(),
		NewCursorSource(),
	}
}

// mcpServersFile is the common {"mcpServers": {...}} file shape shared by
// Claude Code and Cursor configs.
type mcpServersFile struct {
	MCPServers map[string]mcpServerEntry `json:"mcpServers"`
}

type mcpServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// toServerConfigs converts the file shape to the internal format, skipping
// invalid entries.
func (f *mcpServersFile) toServerConfigs(sourceName string) map[string]*config.ServerConfig {
	servers := make(map[string]*config.ServerConfig, len(f.MCPServers))
	for name, entry := range f.MCPServers {
		server := &config.ServerConfig{
			Command: entry.Command,
			Args:    entry.Args,
			Env:     config.NormalizeEnvVars(entry.Env),
			Source:  sourceName,
		}
		if err := config.ValidateServer(name, server); err != nil {
			continue
		}
		servers[name] = server
	}
	return servers
}
