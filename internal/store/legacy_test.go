package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrateLegacyCache(t *testing.T) {
	s := newTestStore(t)
	c := newTestCache(t)

	// Cache tables as an old primary database carried them.
	_, err := s.db.Exec(`CREATE TABLE http_cache (
		url_hash TEXT PRIMARY KEY, url TEXT, body BLOB, fetched_at DATETIME, ttl_ms INTEGER)`)
	require.NoError(t, err)
	_, err = s.db.Exec(`CREATE TABLE review_sitemap_cache (
		site TEXT PRIMARY KEY, entries_json TEXT, fetched_at DATETIME)`)
	require.NoError(t, err)
	_, err = s.db.Exec(`CREATE TABLE review_url_map (
		brand TEXT, model TEXT, url TEXT, updated_at DATETIME, PRIMARY KEY (brand, model))`)
	require.NoError(t, err)

	fetched := time.Now().UTC().Add(-time.Minute)
	_, err = s.db.Exec("INSERT INTO http_cache VALUES (?, ?, ?, ?, ?)",
		urlHash("https://www.evo.com/a"), "https://www.evo.com/a", []byte("page"), fetched, int64(86400000))
	require.NoError(t, err)
	_, err = s.db.Exec("INSERT INTO review_sitemap_cache VALUES (?, ?, ?)",
		"the-good-ride", `["https://thegoodride.com/snowboard-reviews/capita-doa-2026/"]`, fetched)
	require.NoError(t, err)
	_, err = s.db.Exec("INSERT INTO review_url_map VALUES (?, ?, ?, ?)",
		"capita", "doa", "https://thegoodride.com/snowboard-reviews/capita-doa-2026/", fetched)
	require.NoError(t, err)

	require.NoError(t, MigrateLegacyCache(s, c, zap.NewNop()))

	page, err := c.GetPage("https://www.evo.com/a")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, []byte("page"), page.Body)

	entries, err := c.GetSitemap("the-good-ride", 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	match, err := c.GetReviewURL("capita", "doa", 7*24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Zero(t, match.Score)

	for _, table := range []string{"http_cache", "review_sitemap_cache", "review_url_map"} {
		assert.False(t, tableExists(s.db, table), "legacy table %s should be dropped", table)
	}
}

func TestMigrateLegacyCacheNoLegacyTables(t *testing.T) {
	s := newTestStore(t)
	c := newTestCache(t)

	require.NoError(t, MigrateLegacyCache(s, c, zap.NewNop()))
}
