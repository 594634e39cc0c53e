package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// BleveIndex is a BM25 search backend built on an in-memory Bleve index.
//
// It indexes the same tool universe as the keyword backend and satisfies
// the same ToolSearch interface, which lets the hybrid backend fuse the
// two and lets the benchmark command compare them directly.
type BleveIndex struct {
	index bleve.Index
	tools map[string]Tool
}

// NewBleveIndex builds an in-memory BM25 index over the given tool list.
func NewBleveIndex(tools []Tool) (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	byID := make(map[string]Tool, len(tools))
	batch := index.NewBatch()
	for _, tool := range tools {
		doc := map[string]interface{}{
			"name":        tool.Name,
			"description": tool.Description,
			"server":      tool.Server,
		}
		if err := batch.Index(tool.ID(), doc); err != nil {
			return nil, fmt.Errorf("failed to index tool %s: %w", tool.ID(), err)
		}
		byID[tool.ID()] = tool
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to batch index tools: %w", err)
	}

	return &BleveIndex{index: index, tools: byID}, nil
}

// buildIndexMapping creates the Bleve mapping for tool documents.
func buildIndexMapping() mapping.IndexMapping {
	toolMapping := bleve.NewDocumentMapping()
	toolMapping.AddFieldMappingsAt("name", bleve.NewTextFieldMapping())
	toolMapping.AddFieldMappingsAt("description", bleve.NewTextFieldMapping())
	toolMapping.AddFieldMappingsAt("server", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", toolMapping)
	return indexMapping
}

// Search performs a BM25 match query and returns at most topK results.
func (b *BleveIndex) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		return []SearchResult{}, nil
	}

	request := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), topK, 0, false)
	response, err := b.index.SearchInContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(response.Hits))
	for _, hit := range response.Hits {
		tool, ok := b.tools[hit.ID]
		if !ok {
			continue
		}
		results = append(results, SearchResult{Tool: tool, Score: hit.Score})
	}
	return results, nil
}

// Count returns the number of indexed tools.
func (b *BleveIndex) Count() (uint64, error) {
	count, err := b.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}
	return count, nil
}

// Close releases the index resources.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
