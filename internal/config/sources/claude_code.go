package sources

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ClaudeCodeSource reads MCP configurations from Claude Code.
//
// Configuration locations:
//   - ~/.claude.json (global user config)
//   - .mcp.json (project-level config)
type ClaudeCodeSource struct {
	// homeDir overrides os.UserHomeDir for tests.
	homeDir string
}

// NewClaudeCodeSource creates a new Claude Code configuration source.
func NewClaudeCodeSource() *ClaudeCodeSource {
	return &ClaudeCodeSource{}
}

// Name returns the source identifier.
func (s *ClaudeCodeSource) Name() string {
	return "claude-code"
}

// Scan searches for and parses Claude Code MCP configurations. The global
// config wins over the project-level one.
func (s *ClaudeCodeSource) Scan() (*SourceResult, error) {
	home := s.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, err
		}
	}

	result, err := parseMCPServersFile(filepath.Join(home, ".claude.json"), s.Name())
	if err == nil && result != nil {
		return result, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return parseMCPServersFile(filepath.Join(cwd, ".mcp.json"), s.Name())
}

// parseMCPServersFile reads a {"mcpServers": {...}} file. A missing file
// yields (nil, nil).
func parseMCPServersFile(path, sourceName string) (*SourceResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var file mcpServersFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	servers := file.toServerConfigs(sourceName)
	if len(servers) == 0 {
		return nil, nil
	}

	return &SourceResult{
		ConfigPath: path,
		Servers:    servers,
	}, nil
}
