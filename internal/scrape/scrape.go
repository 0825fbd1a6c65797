// Package scrape holds the per-site adapters and the registry the pipeline
// selects them from. Every adapter emits ScrapedBoard records; nothing here
// normalizes or merges, that happens downstream in coalesce.
package scrape

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// Scraper is one site adapter. Scrape returns every board the site exposed;
// a non-nil error means the whole adapter failed and contributed nothing.
type Scraper interface {
	Name() string
	Source() string
	Scrape(ctx context.Context, scope *types.SearchScope) ([]*types.ScrapedBoard, error)
}

// Deps carries what adapters need at construction time. The pipeline swaps
// Fetcher for a browser-backed one on entries that need rendering.
type Deps struct {
	Fetcher fetch.Fetcher
	Delay   time.Duration
	Logger  *zap.Logger
}

// Entry describes one registered adapter. Scope filtering runs over this
// metadata; the constructor is only called for entries that survive it.
type Entry struct {
	Name         string
	Source       string
	Region       string
	Type         string
	NeedsBrowser bool
	New          func(Deps) Scraper
}

// AllScrapers is the flat registry the pipeline filters by scope.
var AllScrapers = []Entry{
	{Name: "tactics", Source: "retailer:tactics", Region: "us", Type: types.SourceTypeRetailer, New: NewTactics},
	{Name: "evo", Source: "retailer:evo", Region: "us", Type: types.SourceTypeRetailer, New: NewEvo},
	{Name: "the-house", Source: "retailer:the-house", Region: "us", Type: types.SourceTypeRetailer, New: NewTheHouse},
	{Name: "hellobrand", Source: "retailer:hellobrand", Region: "kr", Type: types.SourceTypeRetailer, NeedsBrowser: true, New: NewHelloBrand},
	{Name: "burton", Source: "manufacturer:burton", Region: "us", Type: types.SourceTypeManufacturer, New: NewBurton},
	{Name: "mervin", Source: "manufacturer:mervin", Region: "us", Type: types.SourceTypeManufacturer, New: NewMervin},
}

// Filter narrows the registry by scope. A nil slice places no constraint;
// an empty non-nil slice matches nothing, which is how a caller excludes a
// whole source type. Sites matches adapter names across every type.
func Filter(entries []Entry, scope *types.SearchScope) []Entry {
	if scope == nil {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if scope.Sites != nil && !contains(scope.Sites, e.Name) {
			continue
		}
		if e.Type == types.SourceTypeRetailer && scope.Retailers != nil && !contains(scope.Retailers, e.Name) {
			continue
		}
		if e.Type == types.SourceTypeManufacturer && scope.Manufacturers != nil && !contains(scope.Manufacturers, e.Name) {
			continue
		}
		if scope.Regions != nil && !contains(scope.Regions, e.Region) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
