/*
Package mcp implements the MCP server that exposes meta-tools.

The server uses stdio transport and exposes 5 meta-tools:
  - hub_list: List all registered MCP servers
  - hub_discover: Get tool definitions from a specific server
  - hub_search: Rank tools across all servers against a free-text query
  - hub_execute: Execute a tool from a specific server
  - hub_help: Get detailed help/schema for a tool

At startup the server discovers every configured child server's tools and
builds a search index over them; hub_search queries that index.
*/
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/search"
	"github.com/toolscout/toolscout/internal/spawner"
	"github.com/toolscout/toolscout/internal/storage"
	"github.com/toolscout/toolscout/internal/version"
)

// protocolVersion is the MCP protocol revision spoken to clients.
const protocolVersion = "2024-11-05"

// Server is the toolscout MCP server.
type Server struct {
	config *config.Config
	pool   *spawner.Pool
	store  storage.Storage

	mu           sync.RWMutex
	tools        []search.Tool
	index        search.ToolSearch
	lastSearchID string
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg *config.Config) *Server {
	poolSize := 3
	timeout := time.Duration(0)
	if cfg.Settings != nil {
		if cfg.Settings.ProcessPoolSize > 0 {
			poolSize = cfg.Settings.ProcessPoolSize
		}
		if cfg.Settings.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.Settings.TimeoutSeconds) * time.Second
		}
	}

	store := storage.NewStorage()
	if err := store.Init(); err != nil {
		// Storage degrades to no-ops; the server still works.
		fmt.Fprintf(os.Stderr, "Warning: analytics storage unavailable: %v\n", err)
	}

	return &Server{
		config: cfg,
		pool:   spawner.NewPool(poolSize, timeout),
		store:  store,
		index:  search.NewKeywordIndex(nil),
	}
}

// Run starts the MCP server using stdio transport. Blocks until stdin is
// closed.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	// Tool call arguments can exceed the default 64KB token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		response, err := s.handleRequest(line)
		if err != nil {
			s.sendError(err)
			continue
		}
		if response != nil {
			s.sendResponse(response)
		}
	}

	return scanner.Err()
}

// Close shuts down the child processes, the search index, and storage.
func (s *Server) Close() error {
	var errs []error

	if err := s.pool.Close(); err != nil {
		errs = append(errs, err)
	}

	s.mu.Lock()
	if closer, ok := s.index.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.mu.Unlock()

	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest processes an incoming MCP request.
func (s *Server) handleRequest(data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	// Notifications carry no ID and expect no response.
	if strings.HasPrefix(req.Method, "notifications/") {
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req)
	case "tools/list":
		return s.handleToolsList(&req)
	case "tools/call":
		return s.handleToolsCall(&req)
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32601, Message: "Method not found"},
		}, nil
	}
}

// handleInitialize handles the MCP initialize request.
func (s *Server) handleInitialize(req *MCPRequest) (*MCPResponse, error) {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "toolscout",
				"version": version.Version,
			},
		},
	}, nil
}

// handleToolsList returns the meta-tool definitions.
func (s *Server) handleToolsList(req *MCPRequest) (*MCPResponse, error) {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": s.metaTools(),
		},
	}, nil
}

// handleToolsCall dispatches a meta-tool invocation.
func (s *Server) handleToolsCall(req *MCPRequest) (*MCPResponse, error) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	var result string
	var err error

	switch params.Name {
	case "hub_list":
		result, err = s.execHubList()
	case "hub_discover":
		serverName, _ := params.Arguments["server"].(string)
		result, err = s.execHubDiscover(serverName)
	case "hub_search":
		query, _ := params.Arguments["query"].(string)
		topK := search.DefaultTopK
		if raw, ok := params.Arguments["limit"].(float64); ok {
			topK = int(raw)
		}
		result, err = s.execHubSearch(query, topK)
	case "hub_execute":
		serverName, _ := params.Arguments["server"].(string)
		toolName, _ := params.Arguments["tool"].(string)
		args, _ := params.Arguments["arguments"].(map[string]interface{})
		result, err = s.execHubExecute(serverName, toolName, args)
	case "hub_help":
		serverName, _ := params.Arguments["server"].(string)
		toolName, _ := params.Arguments["tool"].(string)
		result, err = s.execHubHelp(serverName, toolName)
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32602, Message: fmt.Sprintf("Unknown tool: %s", params.Name)},
		}, nil
	}

	if err != nil {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32000, Message: err.Error()},
		}, nil
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": result},
			},
		},
	}, nil
}

// sendResponse writes a JSON-RPC response to stdout.
func (s *Server) sendResponse(resp *MCPResponse) {
	data, _ := json.Marshal(resp)
	fmt.Println(string(data))
}

// sendError writes an error response to stdout.
func (s *Server) sendError(err error) {
	s.sendResponse(&MCPResponse{
		JSONRPC: "2.0",
		ID:      nil,
		Error:   &MCPError{Code: -32700, Message: err.Error()},
	})
}

// newSearchID generates a unique identifier for a search invocation.
func newSearchID() string {
	return uuid.NewString()
}
