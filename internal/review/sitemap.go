// Package review enriches identified boards with specs from a third-party
// review site. The site is discovered through its sitemap; boards are matched
// to review pages by brand plus bigram similarity over the model name.
package review

import (
	"context"
	"encoding/xml"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
)

const (
	// SiteName keys the sitemap cache row.
	SiteName = "the-good-ride"
	// Source tags every ScrapedBoard the enricher emits.
	Source = "review-site:" + SiteName

	sitemapURL = "https://www.thegoodride.com/sitemap.xml"
	sitemapTTL = 24 * time.Hour
	urlMapTTL  = 7 * 24 * time.Hour
)

// Entry is one review page parsed out of the sitemap.
type Entry struct {
	URL   string
	Brand string
	Model string
}

// reviewPathRe matches review page paths and captures the board slug.
var reviewPathRe = regexp.MustCompile(`/snowboard-reviews/([a-z0-9-]+)-snowboard-review/?$`)

// multiWordBrands maps brand slugs spanning several hyphen segments to their
// canonical names. Ordered longest slug first so "never-summer-proto" takes
// "never-summer" before the single-segment fallback would take "never".
var multiWordBrands = []struct {
	slug  string
	brand string
}{
	{"dinosaurs-will-die", "Dinosaurs Will Die"},
	{"public-snowboards", "Public Snowboards"},
	{"united-shapes", "United Shapes"},
	{"never-summer", "Never Summer"},
	{"spring-break", "Spring Break"},
	{"death-label", "Death Label"},
	{"lib-tech", "Lib Tech"},
	{"yes", "Yes."},
}

// sitemapFile decodes either a sitemap index or a urlset; whichever element
// list matches the root populates.
type sitemapFile struct {
	Sitemaps []sitemapLoc `xml:"sitemap"`
	URLs     []sitemapLoc `xml:"url"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// sitemapEntries returns the parsed review index, served from the sitemap
// cache when fresh.
func (e *Enricher) sitemapEntries(ctx context.Context) ([]Entry, error) {
	urls, err := e.cache.GetSitemap(SiteName, sitemapTTL)
	if err != nil {
		e.logger.Warn("Sitemap cache read failed", zap.Error(err))
	}
	if urls == nil {
		urls, err = e.fetchSitemapURLs(ctx)
		if err != nil {
			return nil, err
		}
		if err := e.cache.PutSitemap(SiteName, urls); err != nil {
			e.logger.Warn("Sitemap cache write failed", zap.Error(err))
		}
	}
	return parseEntries(urls), nil
}

// fetchSitemapURLs fetches the root sitemap and follows any snowboard-review
// sub-sitemaps it points at.
func (e *Enricher) fetchSitemapURLs(ctx context.Context) ([]string, error) {
	root, err := fetchSitemapFile(ctx, e.fetcher, sitemapURL)
	if err != nil {
		return nil, err
	}

	urls := locs(root.URLs)
	for _, sub := range root.Sitemaps {
		if !strings.Contains(sub.Loc, "snowboardreview") {
			continue
		}
		if err := fetch.Delay(ctx, e.delay); err != nil {
			return nil, err
		}
		subFile, err := fetchSitemapFile(ctx, e.fetcher, sub.Loc)
		if err != nil {
			e.logger.Warn("Sub-sitemap fetch failed", zap.String("url", sub.Loc), zap.Error(err))
			continue
		}
		urls = append(urls, locs(subFile.URLs)...)
	}
	return urls, nil
}

func fetchSitemapFile(ctx context.Context, f fetch.Fetcher, url string) (*sitemapFile, error) {
	res, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	var file sitemapFile
	if err := xml.Unmarshal(res.Body, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func locs(ls []sitemapLoc) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Loc)
	}
	return out
}

// parseEntries keeps review-page URLs and splits each slug into brand and
// model.
func parseEntries(urls []string) []Entry {
	var entries []Entry
	for _, u := range urls {
		m := reviewPathRe.FindStringSubmatch(u)
		if m == nil {
			continue
		}
		brand, model := parseSlug(m[1])
		if model == "" {
			continue
		}
		entries = append(entries, Entry{URL: u, Brand: brand, Model: model})
	}
	return entries
}

// parseSlug splits "lib-tech-orca" into ("Lib Tech", "orca"). Slugs with no
// known multi-word brand treat the first segment as the brand.
func parseSlug(slug string) (string, string) {
	for _, b := range multiWordBrands {
		if strings.HasPrefix(slug, b.slug+"-") {
			return b.brand, strings.ReplaceAll(strings.TrimPrefix(slug, b.slug+"-"), "-", " ")
		}
	}
	brand, rest, _ := strings.Cut(slug, "-")
	return brand, strings.ReplaceAll(rest, "-", " ")
}
