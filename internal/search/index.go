package search

import (
	"context"
	"sort"
	"strings"
)

// Score weights for the keyword-overlap ranking.
const (
	exactMatchWeight   = 1.0
	partialMatchWeight = 0.5
)

// indexedTool pairs a tool with its precomputed keyword set.
type indexedTool struct {
	tool     Tool
	keywords map[string]struct{}
}

// KeywordIndex ranks tools by keyword overlap with the query.
//
// The index precomputes a keyword set for every tool at construction time
// from the tool's name and description. It is immutable afterwards, so
// concurrent Search calls are safe without locking.
type KeywordIndex struct {
	entries []indexedTool
}

// NewKeywordIndex builds a keyword index over the given tool list.
//
// The slice order is preserved: tools with equal scores are returned in
// their original list order.
func NewKeywordIndex(tools []Tool) *KeywordIndex {
	entries := make([]indexedTool, 0, len(tools))
	for _, tool := range tools {
		entries = append(entries, indexedTool{
			tool:     tool,
			keywords: ExtractKeywords(tool.Name + " " + tool.Description),
		})
	}
	return &KeywordIndex{entries: entries}
}

// Len returns the number of indexed tools.
func (idx *KeywordIndex) Len() int {
	return len(idx.entries)
}

// Search ranks the indexed tools against the query and returns at most
// topK results with score > 0, ordered by descending score. The returned
// scores are always within [0, 1]. An empty query matches nothing.
func (idx *KeywordIndex) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		return []SearchResult{}, nil
	}

	queryKeywords := ExtractKeywords(query)

	results := make([]SearchResult, 0, len(idx.entries))
	for _, entry := range idx.entries {
		score := scoreOverlap(queryKeywords, entry.keywords)
		if score > 0 {
			results = append(results, SearchResult{Tool: entry.tool, Score: score})
		}
	}

	// Stable sort keeps original tool-list order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// scoreOverlap computes the overlap score between a query keyword set and
// a tool keyword set.
//
// Each query keyword contributes 1.0 for an exact match, or 0.5 if it is a
// substring of (or contains) some tool keyword. Only the first partial
// match counts per query keyword. The total is divided by the query
// keyword count, so the score never exceeds 1.0.
func scoreOverlap(queryKeywords, toolKeywords map[string]struct{}) float64 {
	var matches float64

	for q := range queryKeywords {
		if _, ok := toolKeywords[q]; ok {
			matches += exactMatchWeight
			continue
		}
		for t := range toolKeywords {
			if strings.Contains(t, q) || strings.Contains(q, t) {
				matches += partialMatchWeight
				break
			}
		}
	}

	divisor := len(queryKeywords)
	if divisor < 1 {
		divisor = 1
	}
	return matches / float64(divisor)
}
