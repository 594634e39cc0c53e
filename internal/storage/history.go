package storage

import (
	"fmt"
	"log"
	"time"
)

// RecordSearch records a search query for analytics. Failures are logged
// but never propagated: analytics must not break search.
func (s *SQLiteStorage) RecordSearch(record SearchRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO search_history (search_id, query_hash, backend, timestamp, results_count)
		VALUES (?, ?, ?, ?, ?)
	`,
		record.SearchID,
		record.QueryHash,
		record.Backend,
		record.Timestamp.UTC().Format(time.RFC3339),
		record.ResultsCount,
	)
	if err != nil {
		log.Printf("Warning: failed to record search: %v", err)
	}
	return nil
}

// RecentSearches retrieves the most recent search records, newest first.
func (s *SQLiteStorage) RecentSearches(limit int) ([]SearchRecord, error) {
	if !s.enabled || s.db == nil {
		return []SearchRecord{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT search_id, query_hash, backend, timestamp, results_count
		FROM search_history
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	records := []SearchRecord{}
	for rows.Next() {
		var record SearchRecord
		var timestamp string
		if err := rows.Scan(&record.SearchID, &record.QueryHash, &record.Backend, &timestamp, &record.ResultsCount); err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		record.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
		records = append(records, record)
	}
	return records, rows.Err()
}

// RecordSelection records a tool chosen for execution.
func (s *SQLiteStorage) RecordSelection(record SelectionRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO tool_selections (tool_name, server, search_id, timestamp)
		VALUES (?, ?, ?, ?)
	`,
		record.ToolName,
		record.Server,
		record.SearchID,
		record.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		log.Printf("Warning: failed to record selection: %v", err)
	}
	return nil
}

// SelectionCounts returns per-tool selection counts since a given time,
// keyed by "server/tool".
func (s *SQLiteStorage) SelectionCounts(since time.Time) (map[string]int, error) {
	if !s.enabled || s.db == nil {
		return map[string]int{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT server, tool_name, COUNT(*)
		FROM tool_selections
		WHERE timestamp >= ?
		GROUP BY server, tool_name
	`, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var server, tool string
		var count int
		if err := rows.Scan(&server, &tool, &count); err != nil {
			return nil, fmt.Errorf("failed to scan selection count: %w", err)
		}
		counts[server+"/"+tool] = count
	}
	return counts, rows.Err()
}

// Cleanup removes records older than the retention period.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339)

	if _, err := s.db.Exec("DELETE FROM search_history WHERE timestamp < ?", cutoff); err != nil {
		return fmt.Errorf("failed to clean search history: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM tool_selections WHERE timestamp < ?", cutoff); err != nil {
		return fmt.Errorf("failed to clean tool selections: %w", err)
	}
	return nil
}
