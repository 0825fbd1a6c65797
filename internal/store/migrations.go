package store

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration defines a column addition for an existing table.
type Migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations lists all schema migrations to apply. Fresh databases
// get these columns from the CREATE TABLE statements; the list only matters
// for databases created before a column existed.
var pendingMigrations = []Migration{
	// Beginner score column (added with the resolver scoring pass)
	{"boards", "beginner_score", "REAL"},
	// Listing region column (added with the first non-US retailer)
	{"listings", "region", "TEXT DEFAULT 'us'"},
	// Response metadata columns (added for the scrape-status report)
	{"http_cache", "host", "TEXT DEFAULT ''"},
	{"http_cache", "status", "INTEGER DEFAULT 200"},
	{"http_cache", "content_type", "TEXT DEFAULT ''"},
	// Review match confidence (added with the bigram matcher)
	{"review_url_map", "score", "REAL DEFAULT 0"},
}

// runMigrations applies column additions to an existing database. Tables a
// given database never had are skipped quietly.
func runMigrations(db *sql.DB, logger *zap.Logger) {
	for _, m := range pendingMigrations {
		if !tableExists(db, m.Table) {
			continue
		}
		if columnExists(db, m.Table, m.Column) {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(query); err != nil {
			logger.Warn("Migration failed",
				zap.String("table", m.Table),
				zap.String("column", m.Column),
				zap.Error(err))
			continue
		}
		logger.Debug("Migration applied",
			zap.String("table", m.Table),
			zap.String("column", m.Column))
	}
}

// tableExists checks if a table exists in the database.
func tableExists(db *sql.DB, table string) bool {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
	return err == nil && count > 0
}

// columnExists checks if a column exists in a table using PRAGMA table_info.
func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}
