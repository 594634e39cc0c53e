package search

import "fmt"

// Backend names accepted in configuration and on the command line.
const (
	BackendKeyword = "keyword"
	BackendBM25    = "bm25"
	BackendHybrid  = "hybrid"
)

// NewIndex constructs the named search backend over the given tools.
func NewIndex(backend string, tools []Tool) (ToolSearch, error) {
	switch backend {
	case "", BackendKeyword:
		return NewKeywordIndex(tools), nil
	case BackendBM25:
		return NewBleveIndex(tools)
	case BackendHybrid:
		return NewHybridIndex(tools, DefaultFusionConfig)
	default:
		return nil, fmt.Errorf("unknown search backend: %s (expected keyword, bm25, or hybrid)", backend)
	}
}
