package search

import (
	"context"
	"sort"
)

// FusionConfig defines the weights for hybrid score fusion.
type FusionConfig struct {
	KeywordWeight float64
	BM25Weight    float64
}

// DefaultFusionConfig favors the deterministic keyword backend.
var DefaultFusionConfig = FusionConfig{
	KeywordWeight: 0.6,
	BM25Weight:    0.4,
}

// HybridIndex fuses the keyword-overlap and BM25 backends with a weighted
// sum over min-max normalized scores.
type HybridIndex struct {
	tools   []Tool
	keyword *KeywordIndex
	bm25    *BleveIndex
	config  FusionConfig
}

// NewHybridIndex builds both backends over the same tool list.
func NewHybridIndex(tools []Tool, config FusionConfig) (*HybridIndex, error) {
	bm25, err := NewBleveIndex(tools)
	if err != nil {
		return nil, err
	}
	return &HybridIndex{
		tools:   tools,
		keyword: NewKeywordIndex(tools),
		bm25:    bm25,
		config:  config,
	}, nil
}

// Search queries both backends, normalizes each result set to [0, 1], and
// returns the weighted fusion, at most topK results ordered by descending
// score. Tools found by only one backend keep that backend's normalized
// score unweighted.
func (h *HybridIndex) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		return []SearchResult{}, nil
	}

	// Over-fetch from each backend so fusion can reorder across them.
	keywordResults, err := h.keyword.Search(ctx, query, topK*2)
	if err != nil {
		return nil, err
	}
	bm25Results, err := h.bm25.Search(ctx, query, topK*2)
	if err != nil {
		// BM25 is the optional half; fall back to keyword results.
		if len(keywordResults) > topK {
			keywordResults = keywordResults[:topK]
		}
		return keywordResults, nil
	}

	keywordScores := scoresByID(normalizeScores(keywordResults))
	bm25Scores := scoresByID(normalizeScores(bm25Results))

	// Walk the original tool list so equal fused scores keep list order.
	fused := make([]SearchResult, 0, len(keywordScores)+len(bm25Scores))
	for _, tool := range h.tools {
		kw, hasKeyword := keywordScores[tool.ID()]
		bm, hasBM25 := bm25Scores[tool.ID()]

		var score float64
		switch {
		case hasKeyword && hasBM25:
			score = h.config.KeywordWeight*kw + h.config.BM25Weight*bm
		case hasKeyword:
			score = kw
		case hasBM25:
			score = bm
		default:
			continue
		}

		fused = append(fused, SearchResult{Tool: tool, Score: score})
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused, nil
}

// Close releases the BM25 index resources.
func (h *HybridIndex) Close() error {
	return h.bm25.Close()
}

// scoresByID maps tool IDs to their scores.
func scoresByID(results []SearchResult) map[string]float64 {
	scores := make(map[string]float64, len(results))
	for _, result := range results {
		scores[result.Tool.ID()] = result.Score
	}
	return scores
}

// normalizeScores rescales scores to [0, 1] with min-max normalization.
// When all scores are equal they all become 1.0.
func normalizeScores(results []SearchResult) []SearchResult {
	if len(results) == 0 {
		return results
	}

	minScore := results[0].Score
	maxScore := results[0].Score
	for _, result := range results {
		if result.Score < minScore {
			minScore = result.Score
		}
		if result.Score > maxScore {
			maxScore = result.Score
		}
	}

	normalized := make([]SearchResult, len(results))
	for i, result := range results {
		normalized[i] = result
		if maxScore == minScore {
			normalized[i].Score = 1.0
		} else {
			normalized[i].Score = (result.Score - minScore) / (maxScore - minScore)
		}
	}
	return normalized
}
