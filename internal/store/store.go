// Package store persists boards, listings, runs, and spec provenance in
// SQLite. Two databases exist: the primary store (this file and its
// siblings) and the scrape cache (cache.go), kept separate so the cache can
// be deleted without losing board history.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Store is the primary database handle. A single connection serializes all
// access; the mutex keeps Go-side call ordering coherent on top of that.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	logger *zap.Logger
}

// Open initializes the primary database at path, creating the schema on
// first use.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := openSQLite(path, logger)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, dbPath: path, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// openSQLite opens a single-connection SQLite handle with the pragmas both
// stores rely on. Pragma failures are logged and skipped; SQLite keeps
// working on its defaults.
func openSQLite(path string, logger *zap.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logger.Debug("Pragma failed", zap.String("pragma", pragma), zap.Error(err))
		}
	}
	return db, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	searchRunsTable := `
	CREATE TABLE IF NOT EXISTS search_runs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		constraints_json TEXT DEFAULT '{}',
		board_count INTEGER DEFAULT 0,
		retailers_queried INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0
	);
	`

	boardsTable := `
	CREATE TABLE IF NOT EXISTS boards (
		board_key TEXT PRIMARY KEY,
		brand TEXT NOT NULL,
		model TEXT NOT NULL,
		gender TEXT NOT NULL,
		year INTEGER,
		flex REAL,
		profile TEXT,
		shape TEXT,
		category TEXT,
		ability_level_min TEXT,
		ability_level_max TEXT,
		terrain_piste INTEGER,
		terrain_powder INTEGER,
		terrain_park INTEGER,
		terrain_freeride INTEGER,
		terrain_freestyle INTEGER,
		msrp_usd REAL,
		manufacturer_url TEXT DEFAULT '',
		description TEXT DEFAULT '',
		beginner_score REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_boards_brand ON boards(brand);
	`

	listingsTable := `
	CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		board_key TEXT NOT NULL REFERENCES boards(board_key),
		run_id TEXT REFERENCES search_runs(id),
		retailer TEXT NOT NULL,
		region TEXT DEFAULT '',
		url TEXT NOT NULL,
		image_url TEXT DEFAULT '',
		length_cm REAL,
		width_mm REAL,
		original_price REAL,
		sale_price REAL,
		currency TEXT DEFAULT 'USD',
		original_price_usd REAL,
		sale_price_usd REAL,
		discount_percent INTEGER,
		availability TEXT DEFAULT 'unknown',
		condition TEXT DEFAULT 'new',
		gender TEXT DEFAULT '',
		stock_count INTEGER,
		combo_contents TEXT DEFAULT '',
		scraped_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_listings_board ON listings(board_key);
	CREATE INDEX IF NOT EXISTS idx_listings_run ON listings(run_id);
	`

	specSourcesTable := `
	CREATE TABLE IF NOT EXISTS spec_sources (
		board_key TEXT NOT NULL,
		field TEXT NOT NULL,
		source TEXT NOT NULL,
		value TEXT NOT NULL,
		source_url TEXT DEFAULT '',
		ts DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (board_key, field, source)
	);
	CREATE INDEX IF NOT EXISTS idx_spec_sources_board ON spec_sources(board_key);
	`

	specCacheTable := `
	CREATE TABLE IF NOT EXISTS spec_cache (
		board_key TEXT PRIMARY KEY,
		sources_hash TEXT NOT NULL,
		resolved_json TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	for _, table := range []string{searchRunsTable, boardsTable, listingsTable, specSourcesTable, specCacheTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	runMigrations(s.db, s.logger)
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// execer is satisfied by both *sql.DB and *sql.Tx so the row helpers work
// inside and outside transactions.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func enumOrNil[T ~string](p *T) interface{} {
	if p == nil {
		return nil
	}
	return string(*p)
}
