package store

import (
	"database/sql"
	"time"
)

// SpecSnapshot caches a fully resolved spec set for one board. SourcesHash
// fingerprints the provenance rows the snapshot was computed from; when the
// rows change the hash stops matching and the snapshot is recomputed.
type SpecSnapshot struct {
	BoardKey     string
	SourcesHash  string
	ResolvedJSON string
	UpdatedAt    time.Time
}

// UpsertSpecSnapshot stores the resolved spec set for a board.
func (s *Store) UpsertSpecSnapshot(snap SpecSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO spec_cache (board_key, sources_hash, resolved_json, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(board_key) DO UPDATE SET
		 sources_hash = excluded.sources_hash,
		 resolved_json = excluded.resolved_json,
		 updated_at = CURRENT_TIMESTAMP`,
		snap.BoardKey, snap.SourcesHash, snap.ResolvedJSON,
	)
	return err
}

// GetSpecSnapshot returns the cached snapshot for a board, or nil when none
// exists.
func (s *Store) GetSpecSnapshot(boardKey string) (*SpecSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap SpecSnapshot
	var updated sql.NullTime
	err := s.db.QueryRow(
		`SELECT board_key, sources_hash, resolved_json, updated_at
		 FROM spec_cache WHERE board_key = ?`, boardKey).
		Scan(&snap.BoardKey, &snap.SourcesHash, &snap.ResolvedJSON, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if updated.Valid {
		snap.UpdatedAt = updated.Time
	}
	return &snap, nil
}
