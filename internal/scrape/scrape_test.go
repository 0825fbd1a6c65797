package scrape

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

func entryNames(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func TestFilterNilScopeKeepsEverything(t *testing.T) {
	got := Filter(AllScrapers, nil)
	assert.Len(t, got, len(AllScrapers))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		scope types.SearchScope
		want  []string
	}{
		{
			name:  "sites exact match",
			scope: types.SearchScope{Sites: []string{"evo"}},
			want:  []string{"evo"},
		},
		{
			name:  "empty retailers excludes the type",
			scope: types.SearchScope{Retailers: []string{}},
			want:  []string{"burton", "mervin"},
		},
		{
			name:  "empty manufacturers excludes the type",
			scope: types.SearchScope{Manufacturers: []string{}},
			want:  []string{"tactics", "evo", "the-house", "hellobrand"},
		},
		{
			name:  "named retailer keeps manufacturers",
			scope: types.SearchScope{Retailers: []string{"tactics"}},
			want:  []string{"tactics", "burton", "mervin"},
		},
		{
			name:  "region",
			scope: types.SearchScope{Regions: []string{"kr"}},
			want:  []string{"hellobrand"},
		},
		{
			name: "combined",
			scope: types.SearchScope{
				Retailers:     []string{"evo"},
				Manufacturers: []string{"burton"},
			},
			want: []string{"evo", "burton"},
		},
		{
			name:  "unknown site matches nothing",
			scope: types.SearchScope{Sites: []string{"backcountry"}},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(AllScrapers, &tt.scope)
			assert.Equal(t, tt.want, entryNames(got))
		})
	}
}

func TestRegistryEntriesAreComplete(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range AllScrapers {
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Source)
		assert.NotEmpty(t, e.Region)
		assert.NotNil(t, e.New)
		assert.Equal(t, e.Type, types.SourceType(e.Source))
		assert.False(t, seen[e.Name], "duplicate entry %s", e.Name)
		seen[e.Name] = true
	}
}

type stubScraper struct {
	name   string
	boards []*types.ScrapedBoard
	err    error
	block  time.Duration

	inFlight *atomic.Int32
	maxSeen  *atomic.Int32
}

func (s *stubScraper) Name() string   { return s.name }
func (s *stubScraper) Source() string { return "retailer:" + s.name }

func (s *stubScraper) Scrape(ctx context.Context, _ *types.SearchScope) ([]*types.ScrapedBoard, error) {
	if s.inFlight != nil {
		cur := s.inFlight.Add(1)
		for {
			m := s.maxSeen.Load()
			if cur <= m || s.maxSeen.CompareAndSwap(m, cur) {
				break
			}
		}
		defer s.inFlight.Add(-1)
	}
	if s.block > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.block):
		}
	}
	return s.boards, s.err
}

func scrapedBoard(source, model string) *types.ScrapedBoard {
	return &types.ScrapedBoard{
		Source:   source,
		Brand:    brand.New("Burton"),
		Model:    model,
		RawModel: model,
	}
}

func TestRunCollectsAllOutput(t *testing.T) {
	scrapers := []Scraper{
		&stubScraper{name: "a", boards: []*types.ScrapedBoard{scrapedBoard("retailer:a", "Custom")}},
		&stubScraper{name: "b", boards: []*types.ScrapedBoard{scrapedBoard("retailer:b", "Orca"), scrapedBoard("retailer:b", "DOA")}},
	}

	boards, errs := Run(context.Background(), scrapers, nil, 3, zap.NewNop())
	assert.Len(t, boards, 3)
	assert.Empty(t, errs)
}

func TestRunRecordsFailures(t *testing.T) {
	scrapers := []Scraper{
		&stubScraper{name: "ok", boards: []*types.ScrapedBoard{scrapedBoard("retailer:ok", "Custom")}},
		&stubScraper{name: "down", err: errors.New("HTTP 503")},
	}

	boards, errs := Run(context.Background(), scrapers, nil, 2, zap.NewNop())
	assert.Len(t, boards, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, "down", errs[0].Scraper)
	assert.Equal(t, "HTTP 503", errs[0].Message)
}

func TestRunKeepsPartialOutputFromFailedScraper(t *testing.T) {
	scrapers := []Scraper{
		&stubScraper{
			name:   "half",
			boards: []*types.ScrapedBoard{scrapedBoard("retailer:half", "Custom")},
			err:    errors.New("page 2 failed"),
		},
	}

	boards, errs := Run(context.Background(), scrapers, nil, 1, zap.NewNop())
	assert.Len(t, boards, 1)
	assert.Len(t, errs, 1)
}

func TestRunRespectsConcurrencyLimit(t *testing.T) {
	var inFlight, maxSeen atomic.Int32
	var scrapers []Scraper
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		scrapers = append(scrapers, &stubScraper{
			name:     name,
			block:    10 * time.Millisecond,
			inFlight: &inFlight,
			maxSeen:  &maxSeen,
		})
	}

	_, errs := Run(context.Background(), scrapers, nil, 2, zap.NewNop())
	assert.Empty(t, errs)
	assert.LessOrEqual(t, maxSeen.Load(), int32(2))
}

func TestRetailerListings(t *testing.T) {
	retail := scrapedBoard("retailer:evo", "Custom")
	retail.Listings = []types.ScrapedListing{{URL: "u1"}, {URL: "u2"}}
	maker := scrapedBoard("manufacturer:burton", "Custom")
	maker.Listings = []types.ScrapedListing{{URL: "u3"}}

	assert.Equal(t, 2, RetailerListings([]*types.ScrapedBoard{retail, maker}))
	assert.Equal(t, 0, RetailerListings([]*types.ScrapedBoard{maker}))
}

func TestSeedBoardsCarryRetailerListings(t *testing.T) {
	seeds := SeedBoards()
	require.NotEmpty(t, seeds)
	assert.Positive(t, RetailerListings(seeds))
	for _, sb := range seeds {
		assert.Equal(t, SeedSource, sb.Source)
		assert.NotNil(t, sb.Brand)
		assert.NotEmpty(t, sb.Model)
		require.NotEmpty(t, sb.Listings)
		for _, l := range sb.Listings {
			assert.NotEmpty(t, l.URL)
			assert.Equal(t, "USD", l.Currency)
		}
	}
}

func TestRetailerPrimePagesCoverEveryRetailer(t *testing.T) {
	prime := RetailerPrimePages()
	byName := make(map[string]PrimePages, len(prime))
	for _, p := range prime {
		assert.NotEmpty(t, p.Host, "%s has no host", p.Retailer)
		require.NotEmpty(t, p.URLs, "%s has no prime pages", p.Retailer)
		byName[p.Retailer] = p
	}
	for _, e := range AllScrapers {
		if e.Type != types.SourceTypeRetailer {
			continue
		}
		_, ok := byName[e.Name]
		assert.True(t, ok, "retailer %s missing from prime pages", e.Name)
	}
	assert.Equal(t, "www.tactics.com", byName["tactics"].Host)
}

func TestNextPageURL(t *testing.T) {
	tests := []struct {
		name string
		page string
		body string
		want string
	}{
		{
			name: "relative href",
			page: "https://www.tactics.com/snowboards",
			body: `<a rel="next" href="/snowboards?page=2">Next</a>`,
			want: "https://www.tactics.com/snowboards?page=2",
		},
		{
			name: "absolute href",
			page: "https://www.evo.com/shop/snowboards",
			body: `<a rel="next" href="https://www.evo.com/shop/snowboards?p=3">3</a>`,
			want: "https://www.evo.com/shop/snowboards?p=3",
		},
		{
			name: "no next link",
			page: "https://www.tactics.com/snowboards?page=9",
			body: `<a href="/snowboards?page=8">Prev</a>`,
			want: "",
		},
		{
			name: "empty body",
			page: "https://www.tactics.com/snowboards",
			body: "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPageURL(tt.page, []byte(tt.body)))
		})
	}
}
