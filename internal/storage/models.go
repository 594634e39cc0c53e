package storage

import "time"

// SearchRecord represents a single hub_search invocation.
type SearchRecord struct {
	// SearchID is a unique identifier for this search (UUID).
	SearchID string `json:"search_id"`

	// QueryHash is the SHA-256 hash of the search query for privacy.
	QueryHash string `json:"query_hash"`

	// Backend names the search backend that served the query
	// ("keyword", "bm25", or "hybrid").
	Backend string `json:"backend"`

	// Timestamp is when the search was performed.
	Timestamp time.Time `json:"timestamp"`

	// ResultsCount is the number of results returned.
	ResultsCount int `json:"results_count"`
}

// SelectionRecord represents a tool chosen for execution.
type SelectionRecord struct {
	// ToolName is the name of the executed tool.
	ToolName string `json:"tool_name"`

	// Server is the MCP server that owns the tool.
	Server string `json:"server"`

	// SearchID links the selection to the search that surfaced the tool,
	// or is empty when the tool was executed directly.
	SearchID string `json:"search_id,omitempty"`

	// Timestamp is when the tool was executed.
	Timestamp time.Time `json:"timestamp"`
}
