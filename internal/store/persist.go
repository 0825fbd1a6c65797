package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// PersistRun writes a completed pipeline pass in one transaction: the run
// row, every coalesced board, every listing, then orphan cleanup. Returns
// the number of boards deleted as orphans.
func (s *Store) PersistRun(run types.SearchRun, boards []types.Board, listings []types.Listing) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := insertSearchRun(tx, &run); err != nil {
		return 0, fmt.Errorf("failed to insert search run: %w", err)
	}
	for i := range boards {
		if err := upsertBoard(tx, &boards[i]); err != nil {
			return 0, fmt.Errorf("failed to upsert board %s: %w", boards[i].Key, err)
		}
	}
	for i := range listings {
		if err := insertListing(tx, &listings[i]); err != nil {
			return 0, fmt.Errorf("failed to insert listing %s: %w", listings[i].ID, err)
		}
	}
	orphans, err := deleteOrphanBoards(tx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphan boards: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.logger.Info("Persisted search run",
		zap.String("run_id", run.ID),
		zap.Int("boards", len(boards)),
		zap.Int("listings", len(listings)),
		zap.Int64("orphans_deleted", orphans))
	return orphans, nil
}
