package search

import (
	"context"
	"testing"
)

func testTools() []Tool {
	return []Tool{
		{
			Name:        "api-designer",
			Description: "Expert in RESTful and GraphQL API design patterns",
			Server:      "design",
		},
		{
			Name:        "bug-whisperer",
			Description: "Expert debugging specialist for complex issues",
			Server:      "debug",
		},
		{
			Name:        "perf-tuner",
			Description: "Performance optimization and profiling",
			Server:      "perf",
		},
	}
}

func TestKeywordIndexExactMatch(t *testing.T) {
	idx := NewKeywordIndex(testTools())

	results, err := idx.Search(context.Background(), "api design", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Tool.Name != "api-designer" {
		t.Errorf("expected api-designer, got %s", results[0].Tool.Name)
	}
	// Both query keywords match exactly: 2/2 = 1.0.
	if results[0].Score != 1.0 {
		t.Errorf("expected score 1.0, got %f", results[0].Score)
	}
}

func TestKeywordIndexPartialMatch(t *testing.T) {
	idx := NewKeywordIndex(testTools())

	// "perf" is not a standalone keyword of the description, but it is a
	// substring of "performance" and an exact match on the name.
	results, err := idx.Search(context.Background(), "optimize perf", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].Tool.Name != "perf-tuner" {
		t.Errorf("expected perf-tuner first, got %s", results[0].Tool.Name)
	}
	if results[0].Score <= 0 || results[0].Score > 1.0 {
		t.Errorf("score out of bounds: %f", results[0].Score)
	}
}

func TestKeywordIndexSubstringOnly(t *testing.T) {
	idx := NewKeywordIndex([]Tool{
		{Name: "tuner", Description: "performance optimization"},
	})

	results, err := idx.Search(context.Background(), "perf", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	// Single query keyword, partial match: 0.5/1.
	if results[0].Score != 0.5 {
		t.Errorf("expected score 0.5, got %f", results[0].Score)
	}
}

func TestKeywordIndexEmptyQuery(t *testing.T) {
	idx := NewKeywordIndex(testTools())

	results, err := idx.Search(context.Background(), "", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results for empty query, got %d", len(results))
	}
}

func TestKeywordIndexNoMatch(t *testing.T) {
	idx := NewKeywordIndex(testTools())

	results, err := idx.Search(context.Background(), "zzzqqq", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestKeywordIndexTopKBound(t *testing.T) {
	idx := NewKeywordIndex(testTools())

	results, err := idx.Search(context.Background(), "expert", 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) > 1 {
		t.Errorf("expected at most 1 result, got %d", len(results))
	}
}

func TestKeywordIndexNonPositiveTopK(t *testing.T) {
	idx := NewKeywordIndex(testTools())

	for _, topK := range []int{0, -1, -10} {
		results, err := idx.Search(context.Background(), "api design", topK)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("topK=%d: expected empty results, got %d", topK, len(results))
		}
	}
}

func TestKeywordIndexCaseInsensitive(t *testing.T) {
	idx := NewKeywordIndex(testTools())

	upper, err := idx.Search(context.Background(), "API", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	lower, err := idx.Search(context.Background(), "api", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(upper) != len(lower) {
		t.Fatalf("case changed result count: %d vs %d", len(upper), len(lower))
	}
	for i := range upper {
		if upper[i].Tool.Name != lower[i].Tool.Name || upper[i].Score != lower[i].Score {
			t.Errorf("result %d differs: %v vs %v", i, upper[i], lower[i])
		}
	}
}

func TestKeywordIndexScoreBounds(t *testing.T) {
	idx := NewKeywordIndex(testTools())

	queries := []string{"api", "expert debugging", "performance api design issues", "tuner"}
	for _, query := range queries {
		results, err := idx.Search(context.Background(), query, 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		for _, result := range results {
			if result.Score <= 0 {
				t.Errorf("query %q: non-positive score %f in output", query, result.Score)
			}
			if result.Score > 1.0 {
				t.Errorf("query %q: score %f exceeds 1.0", query, result.Score)
			}
		}
	}
}

func TestKeywordIndexDeterminism(t *testing.T) {
	first := NewKeywordIndex(testTools())
	second := NewKeywordIndex(testTools())

	for i := 0; i < 5; i++ {
		a, err := first.Search(context.Background(), "expert debugging", 5)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		b, err := second.Search(context.Background(), "expert debugging", 5)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}

		if len(a) != len(b) {
			t.Fatalf("result counts differ: %d vs %d", len(a), len(b))
		}
		for j := range a {
			if a[j].Tool.Name != b[j].Tool.Name || a[j].Score != b[j].Score {
				t.Errorf("result %d differs across indices: %v vs %v", j, a[j], b[j])
			}
		}
	}
}

func TestKeywordIndexTieBreakPreservesListOrder(t *testing.T) {
	idx := NewKeywordIndex([]Tool{
		{Name: "alpha", Description: "expert helper"},
		{Name: "beta", Description: "expert helper"},
		{Name: "gamma", Description: "expert helper"},
	})

	results, err := idx.Search(context.Background(), "expert", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	want := []string{"alpha", "beta", "gamma"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, name := range want {
		if results[i].Tool.Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, results[i].Tool.Name)
		}
	}
}

func TestKeywordIndexSortedDescending(t *testing.T) {
	idx := NewKeywordIndex(testTools())

	// "expert" matches two tools exactly, "design" only one; combined
	// scores must come back in descending order.
	results, err := idx.Search(context.Background(), "expert design patterns", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted: %f before %f", results[i-1].Score, results[i].Score)
		}
	}
}

func TestKeywordIndexHandlerOpaque(t *testing.T) {
	called := false
	tools := []Tool{
		{
			Name:        "noop",
			Description: "does nothing useful",
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				called = true
				return "", nil
			},
		},
	}

	idx := NewKeywordIndex(tools)
	results, err := idx.Search(context.Background(), "nothing useful", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if called {
		t.Error("search must never invoke tool handlers")
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Tool.Handler == nil {
		t.Error("handler not carried through search results")
	}
}

func TestKeywordIndexEmptyToolList(t *testing.T) {
	idx := NewKeywordIndex(nil)

	if idx.Len() != 0 {
		t.Errorf("expected empty index, got %d entries", idx.Len())
	}

	results, err := idx.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from empty index, got %d", len(results))
	}
}
