package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/search"
	"github.com/toolscout/toolscout/internal/spawner"
	"github.com/toolscout/toolscout/internal/storage"
)

// newTestServer builds a server with injected tools, no child processes,
// and a temp-dir database.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Servers["jira"] = &config.ServerConfig{Command: "jira-mcp", Source: "claude-code"}
	cfg.Servers["playwright"] = &config.ServerConfig{Command: "playwright-mcp", Source: "cursor"}

	store := storage.NewStorageAt(filepath.Join(t.TempDir(), "history.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("storage init failed: %v", err)
	}

	server := &Server{
		config: cfg,
		pool:   spawner.NewPool(3, time.Second),
		store:  store,
		index:  search.NewKeywordIndex(nil),
	}
	t.Cleanup(func() { server.Close() })

	tools := []search.Tool{
		{
			Name:        "create_jira_ticket",
			Description: "Create a new Jira ticket",
			Server:      "jira",
			InputSchema: map[string]interface{}{"type": "object"},
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return "ticket created", nil
			},
		},
		{
			Name:        "take_screenshot",
			Description: "Take a screenshot of the current page",
			Server:      "playwright",
			InputSchema: map[string]interface{}{"type": "object"},
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return "screenshot taken", nil
			},
		},
	}
	if err := server.setTools(tools); err != nil {
		t.Fatalf("setTools failed: %v", err)
	}

	return server
}

// callTool runs a tools/call request and returns the text content.
func callTool(t *testing.T, server *Server, name string, args map[string]interface{}) (string, *MCPError) {
	t.Helper()

	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatal(err)
	}

	req, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  json.RawMessage(params),
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := server.handleRequest(req)
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}
	if resp.Error != nil {
		return "", resp.Error
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type: %T", resp.Result)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok {
		t.Fatalf("unexpected content type: %T", result["content"])
	}
	text, _ := content[0]["text"].(string)
	return text, nil
}

func TestHandleInitialize(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.handleRequest([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type: %T", resp.Result)
	}
	if result["protocolVersion"] != protocolVersion {
		t.Errorf("wrong protocol version: %v", result["protocolVersion"])
	}
	serverInfo := result["serverInfo"].(map[string]interface{})
	if serverInfo["name"] != "toolscout" {
		t.Errorf("wrong server name: %v", serverInfo["name"])
	}
}

func TestHandleToolsList(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.handleRequest([]byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}

	result := resp.Result.(map[string]interface{})
	tools := result["tools"].([]map[string]interface{})

	want := map[string]bool{
		"hub_list": false, "hub_search": false, "hub_discover": false,
		"hub_execute": false, "hub_help": false,
	}
	for _, tool := range tools {
		name := tool["name"].(string)
		if _, known := want[name]; !known {
			t.Errorf("unexpected meta-tool: %s", name)
		}
		want[name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("meta-tool %s missing", name)
		}
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.handleRequest([]byte(`{"jsonrpc":"2.0","id":3,"method":"bogus"}`))
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Errorf("expected method-not-found error, got %+v", resp.Error)
	}
}

func TestNotificationsIgnored(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.handleRequest([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}
	if resp != nil {
		t.Errorf("notifications must not produce a response, got %+v", resp)
	}
}

func TestHubSearchFindsTool(t *testing.T) {
	server := newTestServer(t)

	text, mcpErr := callTool(t, server, "hub_search", map[string]interface{}{
		"query": "create jira ticket",
	})
	if mcpErr != nil {
		t.Fatalf("hub_search failed: %+v", mcpErr)
	}

	if !strings.Contains(text, "jira/create_jira_ticket") {
		t.Errorf("expected jira tool in results, got:\n%s", text)
	}
}

func TestHubSearchNoMatch(t *testing.T) {
	server := newTestServer(t)

	text, mcpErr := callTool(t, server, "hub_search", map[string]interface{}{
		"query": "zzzqqq",
	})
	if mcpErr != nil {
		t.Fatalf("hub_search failed: %+v", mcpErr)
	}
	if !strings.Contains(text, "No tools matched") {
		t.Errorf("expected no-match message, got:\n%s", text)
	}
}

func TestHubSearchRespectsLimit(t *testing.T) {
	server := newTestServer(t)

	text, mcpErr := callTool(t, server, "hub_search", map[string]interface{}{
		"query": "take screenshot of the page",
		"limit": float64(1),
	})
	if mcpErr != nil {
		t.Fatalf("hub_search failed: %+v", mcpErr)
	}
	if !strings.Contains(text, "Top 1 tools") {
		t.Errorf("expected a single result, got:\n%s", text)
	}
}

func TestHubSearchRecordsHistory(t *testing.T) {
	server := newTestServer(t)

	if _, mcpErr := callTool(t, server, "hub_search", map[string]interface{}{"query": "jira"}); mcpErr != nil {
		t.Fatalf("hub_search failed: %+v", mcpErr)
	}

	recent, err := server.store.RecentSearches(5)
	if err != nil {
		t.Fatalf("RecentSearches failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 search record, got %d", len(recent))
	}
	if recent[0].Backend != "keyword" {
		t.Errorf("expected keyword backend recorded, got %s", recent[0].Backend)
	}
	if recent[0].QueryHash != storage.HashQuery("jira") {
		t.Error("query hash mismatch")
	}
}

func TestHubExecuteInvokesHandler(t *testing.T) {
	server := newTestServer(t)

	text, mcpErr := callTool(t, server, "hub_execute", map[string]interface{}{
		"server": "jira",
		"tool":   "create_jira_ticket",
		"arguments": map[string]interface{}{
			"summary": "Fix login bug",
		},
	})
	if mcpErr != nil {
		t.Fatalf("hub_execute failed: %+v", mcpErr)
	}
	if text != "ticket created" {
		t.Errorf("handler not invoked, got: %s", text)
	}
}

func TestHubExecuteUnknownServer(t *testing.T) {
	server := newTestServer(t)

	_, mcpErr := callTool(t, server, "hub_execute", map[string]interface{}{
		"server": "nope",
		"tool":   "anything",
	})
	if mcpErr == nil {
		t.Fatal("expected error for unknown server")
	}
}

func TestHubHelpReturnsSchema(t *testing.T) {
	server := newTestServer(t)

	text, mcpErr := callTool(t, server, "hub_help", map[string]interface{}{
		"server": "playwright",
		"tool":   "take_screenshot",
	})
	if mcpErr != nil {
		t.Fatalf("hub_help failed: %+v", mcpErr)
	}

	var help map[string]interface{}
	if err := json.Unmarshal([]byte(text), &help); err != nil {
		t.Fatalf("help is not valid JSON: %v", err)
	}
	if help["name"] != "take_screenshot" {
		t.Errorf("wrong tool in help: %v", help["name"])
	}
	if help["inputSchema"] == nil {
		t.Error("input schema missing from help")
	}
}

func TestHubListShowsServers(t *testing.T) {
	server := newTestServer(t)

	text, mcpErr := callTool(t, server, "hub_list", nil)
	if mcpErr != nil {
		t.Fatalf("hub_list failed: %+v", mcpErr)
	}
	if !strings.Contains(text, "jira") || !strings.Contains(text, "playwright") {
		t.Errorf("servers missing from listing:\n%s", text)
	}
	if !strings.Contains(text, "claude-code") {
		t.Errorf("source missing from listing:\n%s", text)
	}
}

func TestHubListEmptyConfig(t *testing.T) {
	server := newTestServer(t)
	server.config = config.NewConfig()

	text, mcpErr := callTool(t, server, "hub_list", nil)
	if mcpErr != nil {
		t.Fatalf("hub_list failed: %+v", mcpErr)
	}
	if !strings.Contains(text, "No servers registered") {
		t.Errorf("expected empty message, got:\n%s", text)
	}
}

func TestUnknownMetaTool(t *testing.T) {
	server := newTestServer(t)

	_, mcpErr := callTool(t, server, "hub_bogus", nil)
	if mcpErr == nil || mcpErr.Code != -32602 {
		t.Errorf("expected unknown-tool error, got %+v", mcpErr)
	}
}
