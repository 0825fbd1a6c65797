package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Run("run with scope", func(t *testing.T) {
		req, err := parseAction([]byte(`{"action":"run","retailers":["tactics"],"from":"scrape"}`))
		require.NoError(t, err)
		assert.Equal(t, "run", req.Action)
		assert.Equal(t, []string{"tactics"}, req.Retailers)
		assert.Nil(t, req.Sites)
	})

	t.Run("empty array survives as empty, not nil", func(t *testing.T) {
		req, err := parseAction([]byte(`{"action":"run","retailers":[]}`))
		require.NoError(t, err)
		require.NotNil(t, req.Retailers)
		assert.Empty(t, req.Retailers)
	})

	t.Run("legacy aliases map to run", func(t *testing.T) {
		for _, alias := range []string{
			"metadata-check", "run-full", "full-pipeline", "scrape-specs", "run-manufacturers",
		} {
			req, err := parseAction([]byte(`{"action":"` + alias + `"}`))
			require.NoError(t, err, alias)
			assert.Equal(t, "run", req.Action, alias)
		}
	})

	t.Run("slow-scrape options", func(t *testing.T) {
		req, err := parseAction([]byte(`{"action":"slow-scrape","delayMs":2000,"maxPages":10,"useSystemChrome":true}`))
		require.NoError(t, err)
		assert.Equal(t, 2000, req.DelayMs)
		assert.Equal(t, 10, req.MaxPages)
		assert.True(t, req.UseSystemChrome)
	})

	t.Run("missing action rejected", func(t *testing.T) {
		_, err := parseAction([]byte(`{"retailers":["tactics"]}`))
		assert.Error(t, err)
	})

	t.Run("bad from rejected", func(t *testing.T) {
		_, err := parseAction([]byte(`{"action":"run","from":"sideways"}`))
		assert.Error(t, err)
	})

	t.Run("malformed document rejected", func(t *testing.T) {
		_, err := parseAction([]byte(`{"action":`))
		assert.Error(t, err)
	})
}
