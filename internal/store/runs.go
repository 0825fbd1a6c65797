package store

import (
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// InsertSearchRun records one pipeline execution.
func (s *Store) InsertSearchRun(run *types.SearchRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertSearchRun(s.db, run)
}

func insertSearchRun(e execer, run *types.SearchRun) error {
	_, err := e.Exec(
		`INSERT INTO search_runs (id, timestamp, constraints_json, board_count, retailers_queried, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Timestamp.UTC(), run.ConstraintsJSON, run.BoardCount, run.RetailersQueried, run.DurationMs,
	)
	return err
}

// RecentRuns returns the newest runs first.
func (s *Store) RecentRuns(limit int) ([]types.SearchRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, timestamp, constraints_json, board_count, retailers_queried, duration_ms
		 FROM search_runs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []types.SearchRun
	for rows.Next() {
		var run types.SearchRun
		if err := rows.Scan(&run.ID, &run.Timestamp, &run.ConstraintsJSON,
			&run.BoardCount, &run.RetailersQueried, &run.DurationMs); err != nil {
			continue
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
