package scrape

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

const burtonBase = "https://www.burton.com"

var burtonCategories = []struct {
	url    string
	gender string
}{
	{burtonBase + "/us/en/c/mens-snowboards", "mens"},
	{burtonBase + "/us/en/c/womens-snowboards", "womens"},
}

// Burton scrapes burton.com product pages for authoritative specs and MSRP.
// Manufacturer records carry no listings.
type Burton struct {
	fetcher fetch.Fetcher
	delay   time.Duration
	logger  *zap.Logger
}

func NewBurton(d Deps) Scraper {
	return &Burton{fetcher: d.Fetcher, delay: d.Delay, logger: d.Logger}
}

func (b *Burton) Name() string   { return "burton" }
func (b *Burton) Source() string { return "manufacturer:burton" }

func (b *Burton) Scrape(ctx context.Context, _ *types.SearchScope) ([]*types.ScrapedBoard, error) {
	base, err := url.Parse(burtonBase)
	if err != nil {
		return nil, err
	}

	var tiles []tile
	for i, cat := range burtonCategories {
		if i > 0 {
			if err := fetch.Delay(ctx, b.delay); err != nil {
				return nil, err
			}
		}
		doc, err := fetchDoc(ctx, b.fetcher, cat.url)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			b.logger.Warn("Category page failed", zap.String("url", cat.url), zap.Error(err))
			continue
		}
		doc.Find(".product-tile a.product-tile-link").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			title := strings.TrimSpace(s.Find(".product-tile-name").Text())
			if u := absURL(base, href); u != "" && title != "" {
				tiles = append(tiles, tile{url: u, title: title, gender: cat.gender})
			}
		})
	}

	var boards []*types.ScrapedBoard
	for _, ti := range tiles {
		if err := fetch.Delay(ctx, b.delay); err != nil {
			return boards, err
		}
		sb, err := b.scrapeDetail(ctx, ti)
		if err != nil {
			b.logger.Warn("Board page failed", zap.String("url", ti.url), zap.Error(err))
			continue
		}
		if sb != nil {
			boards = append(boards, sb)
		}
	}
	return boards, nil
}

func (b *Burton) scrapeDetail(ctx context.Context, ti tile) (*types.ScrapedBoard, error) {
	doc, err := fetchDoc(ctx, b.fetcher, ti.url)
	if err != nil {
		return nil, err
	}

	var prod Product
	if products := ProductsIn(doc); len(products) > 0 {
		prod = products[0]
	}
	title := ti.title
	if prod.Name != "" {
		title = prod.Name
	}

	sb := &types.ScrapedBoard{
		Source:      b.Source(),
		Brand:       brand.New("Burton"),
		Model:       title,
		RawModel:    title,
		Gender:      ti.gender,
		Description: prod.Description,
		SourceURL:   ti.url,
	}
	if sb.Description == "" {
		sb.Description = StripHTML(doc.Find(".pdp-description").Text())
	}

	doc.Find("dl.pdp-specs dt").Each(func(_ int, dt *goquery.Selection) {
		assignSpec(sb, dt.Text(), dt.Next().Text())
	})

	sb.MSRPUSD = CleanPrice(doc.Find(".product-price .value").Text())
	if sb.MSRPUSD == nil && len(prod.Offers) > 0 {
		sb.MSRPUSD = prod.Offers[0].Price
	}
	return sb, nil
}
