package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// UpsertSpecSource writes one provenance row. (board_key, field, source) is
// the row identity; a fresh claim from the same source replaces the old one.
func (s *Store) UpsertSpecSource(row types.SpecSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO spec_sources (board_key, field, source, value, source_url, ts)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(board_key, field, source) DO UPDATE SET
		 value = excluded.value,
		 source_url = excluded.source_url,
		 ts = excluded.ts`,
		row.BoardKey, row.Field, row.Source, row.Value, row.SourceURL, row.Timestamp.UTC(),
	)
	return err
}

// SpecSourcesForBoard returns every provenance row for one board in stable
// (field, source) order.
func (s *Store) SpecSourcesForBoard(boardKey string) ([]types.SpecSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT board_key, field, source, value, source_url, ts
		 FROM spec_sources WHERE board_key = ? ORDER BY field, source`, boardKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.SpecSource
	for rows.Next() {
		var r types.SpecSource
		if err := rows.Scan(&r.BoardKey, &r.Field, &r.Source, &r.Value, &r.SourceURL, &r.Timestamp); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SourcesHash fingerprints a board's provenance rows. The resolver snapshot
// in spec_cache is valid as long as the hash matches.
func SourcesHash(rows []types.SpecSource) string {
	h := sha256.New()
	for _, r := range rows {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00", r.Field, r.Source, r.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}
