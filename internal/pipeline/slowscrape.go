package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/browser"
	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
	"github.com/ryanrhee/snowboard-db-sub000/internal/scrape"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// defaultSlowDelay paces the priming crawl. Much gentler than a normal run
// since nothing is waiting on it.
const defaultSlowDelay = 8000 * time.Millisecond

// SlowScrapeOptions tune the cache-priming crawl.
type SlowScrapeOptions struct {
	DelayMs         int  `json:"delayMs,omitempty"`
	MaxPages        int  `json:"maxPages,omitempty"`
	UseSystemChrome bool `json:"useSystemChrome,omitempty"`
}

// SlowScrapeResult reports what the crawl reached.
type SlowScrapeResult struct {
	Pages     int              `json:"pages"`
	FromCache int              `json:"fromCache"`
	Errors    []types.RunError `json:"errors,omitempty"`
}

// SlowScrape walks each retailer's category pages at a crawl pace,
// following pagination, so the HTTP cache is warm before a real run. A
// fetch failure ends that retailer's chain and the crawl moves on.
func (p *Pipeline) SlowScrape(ctx context.Context, opts SlowScrapeOptions) (*SlowScrapeResult, error) {
	delay := defaultSlowDelay
	if opts.DelayMs > 0 {
		delay = time.Duration(opts.DelayMs) * time.Millisecond
	}
	channel := browser.ChannelManaged
	if opts.UseSystemChrome {
		channel = browser.ChannelSystem
	}

	res := &SlowScrapeResult{}
	first := true
	for _, rp := range scrape.RetailerPrimePages() {
		fetcher := p.fetcher
		if p.needsBrowser(rp.Retailer) {
			fetcher = p.browserFetcher(channel)
		}
		for _, seed := range rp.URLs {
			pageURL := seed
			for pageURL != "" {
				if opts.MaxPages > 0 && res.Pages >= opts.MaxPages {
					p.logger.Info("Slow scrape page cap reached", zap.Int("pages", res.Pages))
					return res, nil
				}
				if !first {
					if err := fetch.Delay(ctx, delay); err != nil {
						return res, err
					}
				}
				first = false

				res.Pages++
				page, err := fetcher.Fetch(ctx, pageURL)
				if err != nil {
					p.logger.Warn("Prime fetch failed",
						zap.String("retailer", rp.Retailer),
						zap.String("url", pageURL),
						zap.Error(err))
					res.Errors = append(res.Errors, types.RunError{Scraper: rp.Retailer, Message: err.Error()})
					break
				}
				if page.FromCache {
					res.FromCache++
				}
				p.logger.Info("Primed page",
					zap.String("retailer", rp.Retailer),
					zap.String("url", pageURL),
					zap.Bool("from_cache", page.FromCache))

				next := scrape.NextPageURL(pageURL, page.Body)
				if next == pageURL {
					break
				}
				pageURL = next
			}
		}
	}
	return res, nil
}

// needsBrowser reports whether the named retailer is registered as
// browser-only.
func (p *Pipeline) needsBrowser(name string) bool {
	for _, e := range p.registry {
		if e.Name == name {
			return e.NeedsBrowser
		}
	}
	return false
}
