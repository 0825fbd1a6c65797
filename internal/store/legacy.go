package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MigrateLegacyCache moves cache tables that older versions kept in the
// primary database into the cache database, then drops them from the
// primary. Cache rows are reconstructible from the network, so rows that
// fail to copy are skipped rather than failing the migration.
func MigrateLegacyCache(primary *Store, cache *CacheStore, logger *zap.Logger) error {
	primary.mu.Lock()
	defer primary.mu.Unlock()
	cache.mu.Lock()
	defer cache.mu.Unlock()

	moved := 0
	if tableExists(primary.db, "http_cache") {
		n := copyLegacyHTTPCache(primary, cache)
		if _, err := primary.db.Exec("DROP TABLE IF EXISTS http_cache"); err != nil {
			return fmt.Errorf("failed to drop legacy http_cache: %w", err)
		}
		moved += n
	}
	if tableExists(primary.db, "review_sitemap_cache") {
		n := copyLegacySitemaps(primary, cache)
		if _, err := primary.db.Exec("DROP TABLE IF EXISTS review_sitemap_cache"); err != nil {
			return fmt.Errorf("failed to drop legacy review_sitemap_cache: %w", err)
		}
		moved += n
	}
	if tableExists(primary.db, "review_url_map") {
		n := copyLegacyReviewURLs(primary, cache)
		if _, err := primary.db.Exec("DROP TABLE IF EXISTS review_url_map"); err != nil {
			return fmt.Errorf("failed to drop legacy review_url_map: %w", err)
		}
		moved += n
	}

	if moved > 0 {
		logger.Info("Migrated legacy cache rows", zap.Int("rows", moved))
	}
	return nil
}

// copyLegacyHTTPCache translates the old (url_hash, url, body, fetched_at,
// ttl_ms) shape into the current expiry-stamped one.
func copyLegacyHTTPCache(primary *Store, cache *CacheStore) int {
	rows, err := primary.db.Query("SELECT url, body, fetched_at, ttl_ms FROM http_cache")
	if err != nil {
		return 0
	}
	defer rows.Close()

	copied := 0
	for rows.Next() {
		var pageURL string
		var body []byte
		var fetched time.Time
		var ttlMs int64
		if err := rows.Scan(&pageURL, &body, &fetched, &ttlMs); err != nil {
			continue
		}
		expires := fetched.Add(time.Duration(ttlMs) * time.Millisecond)
		if _, err := cache.db.Exec(
			`INSERT OR REPLACE INTO http_cache
			 (url_hash, url, host, status, content_type, body, fetched_at, expires_at)
			 VALUES (?, ?, ?, 200, '', ?, ?, ?)`,
			urlHash(pageURL), pageURL, hostOf(pageURL), body, fetched.UTC(), expires.UTC()); err != nil {
			continue
		}
		copied++
	}
	return copied
}

func copyLegacySitemaps(primary *Store, cache *CacheStore) int {
	rows, err := primary.db.Query("SELECT site, entries_json, fetched_at FROM review_sitemap_cache")
	if err != nil {
		return 0
	}
	defer rows.Close()

	copied := 0
	for rows.Next() {
		var site, entriesJSON string
		var fetched time.Time
		if err := rows.Scan(&site, &entriesJSON, &fetched); err != nil {
			continue
		}
		if _, err := cache.db.Exec(
			`INSERT OR REPLACE INTO review_sitemap_cache (site, entries_json, fetched_at)
			 VALUES (?, ?, ?)`, site, entriesJSON, fetched.UTC()); err != nil {
			continue
		}
		copied++
	}
	return copied
}

func copyLegacyReviewURLs(primary *Store, cache *CacheStore) int {
	query := "SELECT brand, model, url, 0, updated_at FROM review_url_map"
	if columnExists(primary.db, "review_url_map", "score") {
		query = "SELECT brand, model, url, score, updated_at FROM review_url_map"
	}
	rows, err := primary.db.Query(query)
	if err != nil {
		return 0
	}
	defer rows.Close()

	copied := 0
	for rows.Next() {
		var brand, model, matchURL string
		var score float64
		var updated time.Time
		if err := rows.Scan(&brand, &model, &matchURL, &score, &updated); err != nil {
			continue
		}
		if _, err := cache.db.Exec(
			`INSERT OR REPLACE INTO review_url_map (brand, model, url, score, updated_at)
			 VALUES (?, ?, ?, ?, ?)`, brand, model, matchURL, score, updated.UTC()); err != nil {
			continue
		}
		copied++
	}
	return copied
}
