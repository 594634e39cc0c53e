/*
Package search implements tool search across all configured MCP servers.

The primary backend is a keyword-overlap index that ranks tools by lexical
overlap between a free-text query and each tool's name and description.
A Bleve-backed BM25 index and a hybrid fusion of the two satisfy the same
ToolSearch interface, so callers can swap backends without changing code.
*/
package search

import "context"

// DefaultTopK is the result limit applied when a caller does not supply one.
const DefaultTopK = 5

// HandlerFunc executes a tool with the given arguments.
//
// Handlers are invoked by the MCP dispatcher after a tool has been selected.
// Search backends carry handlers as opaque state and never call them.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (string, error)

// Tool describes an invocable capability indexed for search.
//
// The tool list supplied at index construction is the complete universe of
// searchable tools for the lifetime of the index; there is no dynamic
// registration.
type Tool struct {
	// Name is the tool identifier, unique within its server.
	Name string `json:"name"`

	// Description is a human-readable explanation of the tool's purpose.
	Description string `json:"description"`

	// Server is the name of the MCP server that owns this tool.
	Server string `json:"server,omitempty"`

	// InputSchema describes the tool's invocation arguments. Search treats
	// it as opaque passthrough state.
	InputSchema interface{} `json:"inputSchema,omitempty"`

	// Handler executes the tool. Opaque to search.
	Handler HandlerFunc `json:"-"`
}

// ID returns the document identifier used by the index backends.
func (t Tool) ID() string {
	return t.Server + "/" + t.Name
}

// SearchResult pairs a tool with its relevance score for a single query.
type SearchResult struct {
	Tool  Tool    `json:"tool"`
	Score float64 `json:"score"`
}

// ToolSearch ranks indexed tools against a free-text query.
//
// Implementations return at most topK results with score > 0, ordered by
// descending score. A topK <= 0 yields an empty list. The context allows
// backends with real I/O (or a future embeddings service) to honor
// cancellation; the keyword backend computes synchronously and ignores it.
type ToolSearch interface {
	Search(ctx context.Context, query string, topK int) ([]SearchResult, error)
}
