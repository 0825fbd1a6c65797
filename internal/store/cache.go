package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CacheStore is the scrape cache database. It lives in its own file so it
// can be deleted wholesale without touching board history.
type CacheStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	logger *zap.Logger
}

// CachedPage is one cached HTTP response.
type CachedPage struct {
	URL         string
	Status      int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}

// ReviewMatch is a cached review-site URL match. URL is empty for a
// recorded miss, which suppresses re-matching until the row expires.
type ReviewMatch struct {
	URL   string
	Score float64
}

// HostStat summarizes cached pages for one host.
type HostStat struct {
	Host        string
	Pages       int
	Expired     int
	NewestFetch time.Time
}

// OpenCache initializes the scrape cache database at path.
func OpenCache(path string, logger *zap.Logger) (*CacheStore, error) {
	db, err := openSQLite(path, logger)
	if err != nil {
		return nil, err
	}
	c := &CacheStore{db: db, dbPath: path, logger: logger}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *CacheStore) initialize() error {
	httpCacheTable := `
	CREATE TABLE IF NOT EXISTS http_cache (
		url_hash TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		host TEXT DEFAULT '',
		status INTEGER DEFAULT 200,
		content_type TEXT DEFAULT '',
		body BLOB,
		fetched_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_http_cache_host ON http_cache(host);
	CREATE INDEX IF NOT EXISTS idx_http_cache_expires ON http_cache(expires_at);
	`

	reviewSitemapTable := `
	CREATE TABLE IF NOT EXISTS review_sitemap_cache (
		site TEXT PRIMARY KEY,
		entries_json TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	`

	reviewURLMapTable := `
	CREATE TABLE IF NOT EXISTS review_url_map (
		brand TEXT NOT NULL,
		model TEXT NOT NULL,
		url TEXT DEFAULT '',
		score REAL DEFAULT 0,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (brand, model)
	);
	`

	for _, table := range []string{httpCacheTable, reviewSitemapTable, reviewURLMapTable} {
		if _, err := c.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	runMigrations(c.db, c.logger)
	return nil
}

// Close closes the database connection.
func (c *CacheStore) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// GetPage returns the cached response for a URL, or nil when absent or
// expired.
func (c *CacheStore) GetPage(pageURL string) (*CachedPage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var p CachedPage
	var expires time.Time
	err := c.db.QueryRow(
		`SELECT url, status, content_type, body, fetched_at, expires_at
		 FROM http_cache WHERE url_hash = ?`, urlHash(pageURL)).
		Scan(&p.URL, &p.Status, &p.ContentType, &p.Body, &p.FetchedAt, &expires)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(expires) {
		return nil, nil
	}
	return &p, nil
}

// PutPage caches an HTTP response for ttl.
func (c *CacheStore) PutPage(pageURL string, status int, contentType string, body []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO http_cache
		 (url_hash, url, host, status, content_type, body, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		urlHash(pageURL), pageURL, hostOf(pageURL), status, contentType, body, now, now.Add(ttl))
	return err
}

// PruneExpired deletes cache rows past their expiry. Returns the number of
// rows removed.
func (c *CacheStore) PruneExpired() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.Exec("DELETE FROM http_cache WHERE expires_at < ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HostStats reports cached page counts grouped by host, for the
// scrape-status view.
func (c *CacheStore) HostStats() ([]HostStat, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.Query(
		`SELECT host, COUNT(*),
		        SUM(CASE WHEN expires_at < ? THEN 1 ELSE 0 END),
		        MAX(fetched_at)
		 FROM http_cache GROUP BY host ORDER BY host`, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HostStat
	for rows.Next() {
		var st HostStat
		var newest sql.NullString
		if err := rows.Scan(&st.Host, &st.Pages, &st.Expired, &newest); err != nil {
			continue
		}
		// MAX() strips the declared column type, so the driver hands the
		// timestamp back as text.
		if newest.Valid {
			if ts, err := time.Parse("2006-01-02 15:04:05.999999999-07:00", newest.String); err == nil {
				st.NewestFetch = ts
			}
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetSitemap returns the cached sitemap entries for a review site, or nil
// when absent or older than maxAge.
func (c *CacheStore) GetSitemap(site string, maxAge time.Duration) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var entriesJSON string
	var fetched time.Time
	err := c.db.QueryRow(
		"SELECT entries_json, fetched_at FROM review_sitemap_cache WHERE site = ?", site).
		Scan(&entriesJSON, &fetched)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Since(fetched) > maxAge {
		return nil, nil
	}

	var entries []string
	if err := json.Unmarshal([]byte(entriesJSON), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode sitemap cache: %w", err)
	}
	return entries, nil
}

// PutSitemap caches the sitemap entries for a review site.
func (c *CacheStore) PutSitemap(site string, entries []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT INTO review_sitemap_cache (site, entries_json, fetched_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(site) DO UPDATE SET
		 entries_json = excluded.entries_json,
		 fetched_at = excluded.fetched_at`,
		site, string(entriesJSON), time.Now().UTC())
	return err
}

// GetReviewURL returns the cached review URL match for a board, or nil when
// absent or older than maxAge. A non-nil match with an empty URL is a
// recorded miss.
func (c *CacheStore) GetReviewURL(brand, model string, maxAge time.Duration) (*ReviewMatch, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var m ReviewMatch
	var updated time.Time
	err := c.db.QueryRow(
		"SELECT url, score, updated_at FROM review_url_map WHERE brand = ? AND model = ?",
		brand, model).
		Scan(&m.URL, &m.Score, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Since(updated) > maxAge {
		return nil, nil
	}
	return &m, nil
}

// PutReviewURL caches a review URL match. Pass an empty URL to record a
// miss.
func (c *CacheStore) PutReviewURL(brand, model, matchURL string, score float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT INTO review_url_map (brand, model, url, score, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(brand, model) DO UPDATE SET
		 url = excluded.url,
		 score = excluded.score,
		 updated_at = excluded.updated_at`,
		brand, model, matchURL, score, time.Now().UTC())
	return err
}

func urlHash(u string) string {
	sum := sha256.Sum256([]byte(u))
	return hex.EncodeToString(sum[:])
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
