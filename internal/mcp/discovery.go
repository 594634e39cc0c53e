package mcp

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/search"
)

// DiscoverTools spawns every configured server, collects its tool
// definitions, and rebuilds the search index over them.
//
// Discovery failures for individual servers are logged and skipped so one
// broken server cannot take down the hub. Servers are visited in name
// order, which fixes the tie-break order of equally scored search results.
func (s *Server) DiscoverTools() error {
	names := make([]string, 0, len(s.config.Servers))
	for name := range s.config.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	var tools []search.Tool
	for _, name := range names {
		serverCfg := s.config.Servers[name]
		specs, err := s.pool.GetTools(name, serverCfg)
		if err != nil {
			log.Printf("Warning: failed to discover tools from %s: %v", name, err)
			continue
		}

		for _, spec := range specs {
			tools = append(tools, search.Tool{
				Name:        spec.Name,
				Description: spec.Description,
				Server:      name,
				InputSchema: spec.InputSchema,
				Handler:     s.makeHandler(name, serverCfg, spec.Name),
			})
		}
		log.Printf("Discovered %d tools from %s", len(specs), name)
	}

	return s.setTools(tools)
}

// makeHandler binds a discovered tool to its executing server. The search
// index carries the handler as opaque state; only hub_execute invokes it.
func (s *Server) makeHandler(serverName string, serverCfg *config.ServerConfig, toolName string) search.HandlerFunc {
	return func(ctx context.Context, args map[string]interface{}) (string, error) {
		return s.pool.ExecuteTool(serverName, serverCfg, toolName, args)
	}
}

// setTools replaces the tool universe and rebuilds the search index using
// the configured backend.
func (s *Server) setTools(tools []search.Tool) error {
	index, err := s.buildIndex(tools)
	if err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if closer, ok := s.index.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("Warning: failed to close previous index: %v", err)
		}
	}

	s.tools = tools
	s.index = index
	return nil
}

// buildIndex constructs the search backend named in settings.
func (s *Server) buildIndex(tools []search.Tool) (search.ToolSearch, error) {
	return search.NewIndex(s.searchBackendName(), tools)
}

// searchBackendName reports the active backend for analytics records.
func (s *Server) searchBackendName() string {
	if s.config.Settings != nil && s.config.Settings.SearchBackend != "" {
		return s.config.Settings.SearchBackend
	}
	return search.BackendKeyword
}

// findTool looks up a discovered tool by server and name.
func (s *Server) findTool(serverName, toolName string) (search.Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tool := range s.tools {
		if tool.Server == serverName && tool.Name == toolName {
			return tool, true
		}
	}
	return search.Tool{}, false
}
