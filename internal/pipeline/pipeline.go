// Package pipeline sequences one end-to-end reconciliation pass: fan the
// scrapers out, identify what came back, enrich it from the review site,
// coalesce, resolve, persist. Every mode of the run action lands here.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/browser"
	"github.com/ryanrhee/snowboard-db-sub000/internal/coalesce"
	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
	"github.com/ryanrhee/snowboard-db-sub000/internal/resolve"
	"github.com/ryanrhee/snowboard-db-sub000/internal/review"
	"github.com/ryanrhee/snowboard-db-sub000/internal/scrape"
	"github.com/ryanrhee/snowboard-db-sub000/internal/store"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// pageTTL is how long fetched pages stay valid in the HTTP cache. The
// slow-scrape crawl relies on this outliving the run that follows it.
const pageTTL = 24 * time.Hour

// Deps wires a Pipeline. Client is the raw transport; the pipeline wraps
// it with the HTTP cache itself. Pool may be nil, in which case
// browser-only retailers fall back to plain HTTP.
type Deps struct {
	Store                  *store.Store
	Cache                  *store.CacheStore
	Client                 fetch.Fetcher
	Pool                   *browser.Pool
	Rates                  map[string]float64
	Delay                  time.Duration
	MaxConcurrentRetailers int
	Logger                 *zap.Logger
}

// Pipeline owns one configured reconciliation flow.
type Pipeline struct {
	store    *store.Store
	cache    *store.CacheStore
	fetcher  fetch.Fetcher
	pool     *browser.Pool
	coal     *coalesce.Coalescer
	resolver *resolve.Resolver
	delay    time.Duration
	limit    int
	logger   *zap.Logger

	registry []scrape.Entry
	now      func() time.Time
	newID    func() string
}

// New builds a Pipeline from its dependencies.
func New(d Deps) *Pipeline {
	return &Pipeline{
		store:    d.Store,
		cache:    d.Cache,
		fetcher:  fetch.NewCached(d.Client, d.Cache, pageTTL, d.Logger),
		pool:     d.Pool,
		coal:     coalesce.New(d.Rates, d.Logger),
		resolver: resolve.New(d.Logger),
		delay:    d.Delay,
		limit:    d.MaxConcurrentRetailers,
		logger:   d.Logger,
		registry: scrape.AllScrapers,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// browserFetcher returns the cache-through fetcher for a browser channel,
// or the plain one when no pool is available.
func (p *Pipeline) browserFetcher(channel browser.Channel) fetch.Fetcher {
	if p.pool == nil {
		return p.fetcher
	}
	return fetch.NewCached(p.pool.Fetcher(channel), p.cache, pageTTL, p.logger)
}

// Run executes one pipeline pass in the mode the scope selects.
func (p *Pipeline) Run(ctx context.Context, scope types.SearchScope) (*types.RunResult, error) {
	switch scope.Mode() {
	case types.FromResolve:
		return p.runResolve(ctx, scope)
	case types.FromReviewSites:
		return p.runReviewSites(ctx, scope)
	default:
		return p.runScrape(ctx, scope)
	}
}

// runScrape is the full pass. Scraper failures never abort it; only
// coalescing or persistence errors do.
func (p *Pipeline) runScrape(ctx context.Context, scope types.SearchScope) (*types.RunResult, error) {
	start := p.now()

	entries := scrape.Filter(p.registry, &scope)
	scrapers := make([]scrape.Scraper, 0, len(entries))
	retailers := 0
	for _, e := range entries {
		deps := scrape.Deps{Fetcher: p.fetcher, Delay: p.delay, Logger: p.logger}
		if e.NeedsBrowser {
			deps.Fetcher = p.browserFetcher(browser.ChannelManaged)
		}
		scrapers = append(scrapers, e.New(deps))
		if e.Type == types.SourceTypeRetailer {
			retailers++
		}
	}
	p.logger.Info("Pipeline run started",
		zap.Int("scrapers", len(scrapers)),
		zap.Int("retailers", retailers))

	scraped, errs := scrape.Run(ctx, scrapers, &scope, p.limit, p.logger)

	// A run that scraped nothing sellable and hit at least one failure is
	// treated as an outage, not an empty market.
	if scrape.RetailerListings(scraped) == 0 && len(errs) > 0 {
		p.logger.Warn("No retailer listings scraped, substituting seed data",
			zap.Int("failures", len(errs)))
		scraped = append(scraped, scrape.SeedBoards()...)
		errs = append(errs, types.RunError{
			Scraper: "system",
			Message: "no retailer listings scraped; seed data substituted",
		})
	}

	scraped, errs = p.enrich(ctx, scope, scraped, errs)

	res, err := p.coal.Coalesce(scraped, p.store)
	if err != nil {
		return nil, fmt.Errorf("coalesce: %w", err)
	}
	for i := range res.Boards {
		if err := p.resolveBoard(&res.Boards[i], false); err != nil {
			return nil, err
		}
	}
	backfillDiscounts(res.Boards, res.Listings)

	run := p.bookkeep(start, scope, len(res.Boards), retailers)
	for i := range res.Listings {
		res.Listings[i].RunID = run.ID
	}
	if _, err := p.store.PersistRun(run, res.Boards, res.Listings); err != nil {
		return nil, fmt.Errorf("persist run: %w", err)
	}
	p.pruneCache()

	return assemble(run, res.Boards, res.Listings, errs), nil
}

// enrich runs the review-site enricher over the identities found so far
// and appends whatever it matched. Enricher failure rides along as a run
// error like any scraper's.
func (p *Pipeline) enrich(ctx context.Context, scope types.SearchScope, scraped []*types.ScrapedBoard, errs []types.RunError) ([]*types.ScrapedBoard, []types.RunError) {
	ids := p.coal.Identities(scraped)
	if len(ids) == 0 {
		return scraped, errs
	}
	targets := make([]review.Target, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, review.Target{Brand: id.Brand, Model: id.Model})
	}
	enricher := review.NewEnricher(p.fetcher, p.cache, p.delay, p.logger, targets)
	boards, err := enricher.Scrape(ctx, &scope)
	if err != nil {
		return scraped, append(errs, types.RunError{Scraper: enricher.Name(), Message: err.Error()})
	}
	return append(scraped, boards...), errs
}

// backfillDiscounts fills listing discounts from board MSRP where the
// retailer page showed no original price. Same rounding as the coalescer
// uses for on-page markdowns.
func backfillDiscounts(boards []types.Board, listings []types.Listing) {
	msrp := make(map[string]*float64, len(boards))
	for i := range boards {
		msrp[boards[i].Key] = boards[i].MSRPUSD
	}
	for i := range listings {
		l := &listings[i]
		if l.DiscountPercent != nil || l.SalePriceUSD == nil {
			continue
		}
		m := msrp[l.BoardKey]
		if m == nil || *m <= 0 || *m <= *l.SalePriceUSD {
			continue
		}
		pct := int(math.Round((*m - *l.SalePriceUSD) / *m * 100))
		l.DiscountPercent = &pct
	}
}

func (p *Pipeline) pruneCache() {
	n, err := p.cache.PruneExpired()
	if err != nil {
		p.logger.Warn("Cache prune failed", zap.Error(err))
		return
	}
	if n > 0 {
		p.logger.Debug("Pruned expired cache pages", zap.Int64("pages", n))
	}
}

// assemble joins boards to their listings for the reply. Boards arrive in
// key order from the coalescer and stay that way.
func assemble(run types.SearchRun, boards []types.Board, listings []types.Listing, errs []types.RunError) *types.RunResult {
	byKey := make(map[string][]types.Listing, len(boards))
	for _, l := range listings {
		byKey[l.BoardKey] = append(byKey[l.BoardKey], l)
	}
	out := &types.RunResult{Run: run, Errors: errs}
	for _, b := range boards {
		out.Boards = append(out.Boards, types.BoardWithListings{Board: b, Listings: byKey[b.Key]})
	}
	return out
}

func scopeJSON(scope types.SearchScope) string {
	raw, err := json.Marshal(scope)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
