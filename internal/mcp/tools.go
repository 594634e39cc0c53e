package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/toolscout/toolscout/internal/storage"
)

// metaTools returns the definitions of the five meta-tools.
func (s *Server) metaTools() []map[string]interface{} {
	serverNames := s.serverNames()

	return []map[string]interface{}{
		{
			"name": "hub_list",
			"description": `List all registered MCP servers and their sources.

WHEN TO USE: Call this first to discover what integrations are available.`,
			"inputSchema": map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			"name": "hub_search",
			"description": `Search for tools across ALL servers using natural language.

WHEN TO USE: When you need a capability but don't know which server or
tool provides it. Results are ranked by relevance to your query.

Example queries: "create jira issue", "take screenshot", "search documents"`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Natural language description of what you want to do",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results (default 5)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name": "hub_discover",
			"description": fmt.Sprintf(`Get detailed tool definitions from a specific MCP server.

WHEN TO USE: Before executing a tool, to see available operations and
required parameters.

AVAILABLE SERVERS: %s`, strings.Join(serverNames, ", ")),
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"server": map[string]interface{}{
						"type":        "string",
						"description": "Server name from the available servers list",
						"enum":        serverNames,
					},
				},
				"required": []string{"server"},
			},
		},
		{
			"name": "hub_execute",
			"description": `Execute a tool from an MCP server with the given arguments.

WORKFLOW:
1. hub_search(query) or hub_discover(server) → find the tool
2. hub_help(server, tool) → check required parameters
3. hub_execute(server, tool, arguments) → run it`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"server": map[string]interface{}{
						"type":        "string",
						"description": "Server name",
						"enum":        serverNames,
					},
					"tool": map[string]interface{}{
						"type":        "string",
						"description": "Tool name",
					},
					"arguments": map[string]interface{}{
						"type":        "object",
						"description": "Tool arguments (get schema from hub_help)",
					},
				},
				"required": []string{"server", "tool"},
			},
		},
		{
			"name": "hub_help",
			"description": `Get the full JSON schema and description for a specific tool.

WHEN TO USE: When you need parameter details before calling hub_execute.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"server": map[string]interface{}{
						"type":        "string",
						"description": "Server name",
						"enum":        serverNames,
					},
					"tool": map[string]interface{}{
						"type":        "string",
						"description": "Tool name",
					},
				},
				"required": []string{"server", "tool"},
			},
		},
	}
}

// serverNames returns the configured server names in sorted order.
func (s *Server) serverNames() []string {
	names := make([]string, 0, len(s.config.Servers))
	for name := range s.config.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// execHubList returns a listing of registered servers.
func (s *Server) execHubList() (string, error) {
	if len(s.config.Servers) == 0 {
		return "No servers registered. Run 'toolscout setup' to import configurations.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Registered MCP Servers (%d):\n", len(s.config.Servers))
	for _, name := range s.serverNames() {
		server := s.config.Servers[name]
		source := server.Source
		if source == "" {
			source = "unknown"
		}
		fmt.Fprintf(&b, "  • %s (source: %s)\n", name, source)
	}
	return b.String(), nil
}

// execHubDiscover returns the tool definitions from a specific server.
func (s *Server) execHubDiscover(serverName string) (string, error) {
	serverCfg, exists := s.config.Servers[serverName]
	if !exists {
		return "", fmt.Errorf("server '%s' not found", serverName)
	}

	specs, err := s.pool.GetTools(serverName, serverCfg)
	if err != nil {
		return "", fmt.Errorf("failed to discover tools: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tools from '%s' (%d):\n", serverName, len(specs))
	for _, spec := range specs {
		fmt.Fprintf(&b, "  • %s: %s\n", spec.Name, spec.Description)
	}
	return b.String(), nil
}

// execHubSearch ranks indexed tools against the query and records the
// search for analytics.
func (s *Server) execHubSearch(query string, topK int) (string, error) {
	s.mu.RLock()
	index := s.index
	indexed := len(s.tools)
	s.mu.RUnlock()

	if indexed == 0 {
		return "No tools indexed yet. Run hub_list to check registered servers.", nil
	}

	results, err := index.Search(context.Background(), query, topK)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}

	searchID := newSearchID()
	s.store.RecordSearch(storage.SearchRecord{
		SearchID:     searchID,
		QueryHash:    storage.HashQuery(query),
		Backend:      s.searchBackendName(),
		Timestamp:    time.Now(),
		ResultsCount: len(results),
	})
	s.mu.Lock()
	s.lastSearchID = searchID
	s.mu.Unlock()

	if len(results) == 0 {
		return fmt.Sprintf("No tools matched '%s'. Try hub_discover(server) to browse a server directly.", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d tools for '%s':\n\n", len(results), query)
	for _, result := range results {
		fmt.Fprintf(&b, "  • %s/%s (score %.2f)\n    %s\n",
			result.Tool.Server, result.Tool.Name, result.Score, result.Tool.Description)
	}
	b.WriteString("\nNext step: hub_help(server, tool) for parameters, then hub_execute to run.")
	return b.String(), nil
}

// execHubExecute runs a tool via its handler and records the selection.
func (s *Server) execHubExecute(serverName, toolName string, args map[string]interface{}) (string, error) {
	serverCfg, exists := s.config.Servers[serverName]
	if !exists {
		return "", fmt.Errorf("server '%s' not found", serverName)
	}

	s.mu.RLock()
	searchID := s.lastSearchID
	s.mu.RUnlock()

	s.store.RecordSelection(storage.SelectionRecord{
		ToolName:  toolName,
		Server:    serverName,
		SearchID:  searchID,
		Timestamp: time.Now(),
	})

	// Prefer the indexed handler; fall back to direct execution for tools
	// that appeared after discovery.
	if tool, ok := s.findTool(serverName, toolName); ok && tool.Handler != nil {
		result, err := tool.Handler(context.Background(), args)
		if err != nil {
			return "", fmt.Errorf("failed to execute tool: %w", err)
		}
		return result, nil
	}

	result, err := s.pool.ExecuteTool(serverName, serverCfg, toolName, args)
	if err != nil {
		return "", fmt.Errorf("failed to execute tool: %w", err)
	}
	return result, nil
}

// execHubHelp returns the full definition of a specific tool.
func (s *Server) execHubHelp(serverName, toolName string) (string, error) {
	if tool, ok := s.findTool(serverName, toolName); ok {
		help, err := json.MarshalIndent(map[string]interface{}{
			"name":        tool.Name,
			"description": tool.Description,
			"server":      tool.Server,
			"inputSchema": tool.InputSchema,
		}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(help), nil
	}

	serverCfg, exists := s.config.Servers[serverName]
	if !exists {
		return "", fmt.Errorf("server '%s' not found", serverName)
	}

	specs, err := s.pool.GetTools(serverName, serverCfg)
	if err != nil {
		return "", fmt.Errorf("failed to get help: %w", err)
	}
	for _, spec := range specs {
		if spec.Name == toolName {
			help, err := json.MarshalIndent(spec, "", "  ")
			if err != nil {
				return "", err
			}
			return string(help), nil
		}
	}

	return "", fmt.Errorf("tool '%s' not found on server '%s'", toolName, serverName)
}
