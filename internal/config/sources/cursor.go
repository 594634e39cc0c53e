package sources

import (
	"os"
	"path/filepath"
)

// CursorSource reads MCP configurations from Cursor (~/.cursor/mcp.json).
// The file shares the mcpServers shape with Claude Code.
type CursorSource struct {
	homeDir string
}

// NewCursorSource creates a new Cursor configuration source.
func NewCursorSource() *CursorSource {
	return &CursorSource{}
}

// Name returns the source identifier.
func (s *CursorSource) Name() string {
	return "cursor"
}

// Scan searches for and parses the Cursor MCP configuration.
func (s *CursorSource) Scan() (*SourceResult, error) {
	home := s.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, err
		}
	}

	return parseMCPServersFile(filepath.Join(home, ".cursor", "mcp.json"), s.Name())
}
