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

const evoBase = "https://www.evo.com"

// evoCategories tags each category page with the gender hint its boards
// inherit when the title itself is silent.
var evoCategories = []struct {
	url    string
	gender string
}{
	{evoBase + "/shop/snowboard/snowboards", ""},
	{evoBase + "/shop/snowboard/snowboards/womens", "womens"},
}

// Evo scrapes evo.com. Product pages publish one JSON-LD offer per size, so
// listings come straight from structured data.
type Evo struct {
	fetcher fetch.Fetcher
	delay   time.Duration
	logger  *zap.Logger
}

func NewEvo(d Deps) Scraper {
	return &Evo{fetcher: d.Fetcher, delay: d.Delay, logger: d.Logger}
}

func (e *Evo) Name() string   { return "evo" }
func (e *Evo) Source() string { return "retailer:evo" }

func (e *Evo) Scrape(ctx context.Context, _ *types.SearchScope) ([]*types.ScrapedBoard, error) {
	base, err := url.Parse(evoBase)
	if err != nil {
		return nil, err
	}

	var tiles []tile
	for i, cat := range evoCategories {
		if i > 0 {
			if err := fetch.Delay(ctx, e.delay); err != nil {
				return nil, err
			}
		}
		doc, err := fetchDoc(ctx, e.fetcher, cat.url)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			e.logger.Warn("Category page failed", zap.String("url", cat.url), zap.Error(err))
			continue
		}
		doc.Find(".product-thumb a.product-thumb-link").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			title := strings.TrimSpace(s.Find(".product-thumb-name").Text())
			if u := absURL(base, href); u != "" && title != "" {
				tiles = append(tiles, tile{url: u, title: title, gender: cat.gender})
			}
		})
	}

	var boards []*types.ScrapedBoard
	for _, ti := range tiles {
		if err := fetch.Delay(ctx, e.delay); err != nil {
			return boards, err
		}
		sb, err := e.scrapeDetail(ctx, ti)
		if err != nil {
			e.logger.Warn("Board page failed", zap.String("url", ti.url), zap.Error(err))
			continue
		}
		if sb != nil {
			boards = append(boards, sb)
		}
	}
	return boards, nil
}

func (e *Evo) scrapeDetail(ctx context.Context, ti tile) (*types.ScrapedBoard, error) {
	doc, err := fetchDoc(ctx, e.fetcher, ti.url)
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
	bid := brand.From(prod.Brand)
	if bid == nil {
		e.logger.Warn("Board without brand", zap.String("url", ti.url))
		return nil, nil
	}

	sb := &types.ScrapedBoard{
		Source:      e.Source(),
		Brand:       bid,
		Model:       title,
		RawModel:    title,
		Gender:      ti.gender,
		Description: prod.Description,
		SourceURL:   ti.url,
	}
	doc.Find(".spec-sheet .spec-sheet-item").Each(func(_ int, row *goquery.Selection) {
		assignSpec(sb, row.Find(".spec-name").Text(), row.Find(".spec-value").Text())
	})

	origPrice := CleanPrice(doc.Find(".pdp-price .original").Text())
	for _, offer := range prod.Offers {
		sb.Listings = append(sb.Listings, types.ScrapedListing{
			URL:           ti.url,
			ImageURL:      prod.Image,
			Region:        "us",
			LengthCm:      ParseLengthCm(offer.Name),
			OriginalPrice: origPrice,
			SalePrice:     offer.Price,
			Currency:      offer.Currency,
			Availability:  offer.Availability,
			Gender:        ti.gender,
		})
	}
	return sb, nil
}
