package review

import (
	"bytes"
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
	"github.com/ryanrhee/snowboard-db-sub000/internal/store"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// Target is one identified board the enricher tries to annotate.
type Target struct {
	Brand string
	Model string
}

// Enricher looks up review pages for a set of boards and scrapes their spec
// tables. Requests run strictly sequentially; the site is rate-sensitive.
type Enricher struct {
	fetcher fetch.Fetcher
	cache   *store.CacheStore
	delay   time.Duration
	logger  *zap.Logger
	targets []Target
}

// NewEnricher builds an enricher over the given targets.
func NewEnricher(fetcher fetch.Fetcher, cache *store.CacheStore, delay time.Duration, logger *zap.Logger, targets []Target) *Enricher {
	return &Enricher{
		fetcher: fetcher,
		cache:   cache,
		delay:   delay,
		logger:  logger,
		targets: targets,
	}
}

// Name identifies the enricher in run errors and logs.
func (e *Enricher) Name() string { return SiteName }

// Source returns the provenance tag stamped on emitted records.
func (e *Enricher) Source() string { return Source }

// Scrape walks the targets with the configured delay between requests and
// returns one ScrapedBoard per board that matched a review page. Boards
// without a match are skipped, not errors.
func (e *Enricher) Scrape(ctx context.Context, _ *types.SearchScope) ([]*types.ScrapedBoard, error) {
	var boards []*types.ScrapedBoard
	for i, target := range e.targets {
		if i > 0 {
			if err := fetch.Delay(ctx, e.delay); err != nil {
				return boards, err
			}
		}
		if sb := e.enrichOne(ctx, target); sb != nil {
			boards = append(boards, sb)
		}
	}
	e.logger.Info("Review enrichment complete",
		zap.Int("targets", len(e.targets)),
		zap.Int("matched", len(boards)))
	return boards, nil
}

func (e *Enricher) enrichOne(ctx context.Context, target Target) *types.ScrapedBoard {
	url, err := e.ResolveReviewURL(ctx, target.Brand, target.Model)
	if err != nil {
		e.logger.Warn("Review lookup failed",
			zap.String("brand", target.Brand),
			zap.String("model", target.Model),
			zap.Error(err))
		return nil
	}
	if url == "" {
		return nil
	}

	specs, err := e.ScrapeReviewSpecs(ctx, url)
	if err != nil {
		e.logger.Warn("Review page scrape failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	if specs == nil {
		return nil
	}

	return &types.ScrapedBoard{
		Source:       Source,
		Brand:        brand.New(target.Brand),
		Model:        target.Model,
		RawModel:     target.Model,
		Flex:         specs.Flex,
		Profile:      specs.Profile,
		Shape:        specs.Shape,
		Category:     specs.Category,
		AbilityLevel: specs.Ability,
		MSRPUSD:      specs.MSRPUSD,
		SourceURL:    url,
		Extras:       specs.Extras,
	}
}

// ResolveReviewURL finds the review page for a board, or "" when no sitemap
// entry scores at or above the match threshold. Hits and misses both cache
// for seven days.
func (e *Enricher) ResolveReviewURL(ctx context.Context, brandName, model string) (string, error) {
	kb, km := strings.ToLower(brandName), strings.ToLower(model)
	cached, err := e.cache.GetReviewURL(kb, km, urlMapTTL)
	if err != nil {
		e.logger.Warn("Review URL cache read failed", zap.Error(err))
	}
	if cached != nil {
		return cached.URL, nil
	}

	entries, err := e.sitemapEntries(ctx)
	if err != nil {
		return "", err
	}

	bestURL, bestScore := "", 0.0
	for _, entry := range entries {
		if !strings.EqualFold(entry.Brand, brandName) {
			continue
		}
		if score := DiceCoefficient(entry.Model, model); score > bestScore {
			bestScore, bestURL = score, entry.URL
		}
	}
	if bestScore < matchThreshold {
		if err := e.cache.PutReviewURL(kb, km, "", 0); err != nil {
			e.logger.Warn("Review URL cache write failed", zap.Error(err))
		}
		return "", nil
	}

	if err := e.cache.PutReviewURL(kb, km, bestURL, bestScore); err != nil {
		e.logger.Warn("Review URL cache write failed", zap.Error(err))
	}
	e.logger.Debug("Review page matched",
		zap.String("brand", brandName),
		zap.String("model", model),
		zap.String("url", bestURL),
		zap.Float64("score", bestScore))
	return bestURL, nil
}

// PageSpecs is what one review page yields.
type PageSpecs struct {
	Shape    string
	Profile  string
	Category string
	Ability  string
	Flex     string
	MSRPUSD  *float64
	Extras   map[string]string
}

// ratingImgRe matches the rating-bar images; the filename is the percentage.
var ratingImgRe = regexp.MustCompile(`/img/(\d{1,3})\.png$`)

// listPriceRe captures the amount following the "List Price" label.
var listPriceRe = regexp.MustCompile(`List Price\s*:?\s*\$?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// ScrapeReviewSpecs parses a review page's labeled spec table. Returns nil
// when the page yields none of shape, profile, category, flex, or MSRP.
func (e *Enricher) ScrapeReviewSpecs(ctx context.Context, url string) (*PageSpecs, error) {
	res, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, err
	}

	specs := &PageSpecs{Extras: make(map[string]string)}
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th,td")
		if cells.Length() < 2 {
			return
		}
		label := strings.ToLower(strings.TrimSpace(cells.First().Text()))
		valueCell := cells.Last()
		value := strings.TrimSpace(valueCell.Text())

		switch label {
		case "":
		case "shape":
			specs.Shape = value
		case "camber profile":
			specs.Profile = value
		case "riding style":
			specs.Category = value
		case "ability level":
			specs.Ability = value
		case "flex":
			// The flex cell holds a rating-bar image; its filename is a
			// 0-100 percentage.
			if pct, ok := ratingPct(valueCell); ok {
				specs.Flex = strconv.Itoa(int(math.Round(float64(pct) / 10)))
			} else if value != "" {
				specs.Flex = value
			}
		default:
			if value != "" {
				specs.Extras[label] = value
			}
		}
	})

	if m := listPriceRe.FindStringSubmatch(doc.Text()); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			specs.MSRPUSD = &v
		}
	}

	if specs.Shape == "" && specs.Profile == "" && specs.Category == "" &&
		specs.Flex == "" && specs.MSRPUSD == nil {
		return nil, nil
	}
	if len(specs.Extras) == 0 {
		specs.Extras = nil
	}
	return specs, nil
}

func ratingPct(sel *goquery.Selection) (int, bool) {
	src, ok := sel.Find("img").Attr("src")
	if !ok {
		return 0, false
	}
	m := ratingImgRe.FindStringSubmatch(src)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil || pct > 100 {
		return 0, false
	}
	return pct, true
}
