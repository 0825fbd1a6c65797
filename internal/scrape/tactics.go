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

const (
	tacticsBase        = "https://www.tactics.com"
	tacticsCategoryURL = tacticsBase + "/snowboards"
	tacticsMaxPages    = 5
)

// Tactics scrapes tactics.com. Category pages paginate through rel=next;
// each product page carries JSON-LD plus a spec table and a size buy box.
type Tactics struct {
	fetcher fetch.Fetcher
	delay   time.Duration
	logger  *zap.Logger
}

func NewTactics(d Deps) Scraper {
	return &Tactics{fetcher: d.Fetcher, delay: d.Delay, logger: d.Logger}
}

func (t *Tactics) Name() string   { return "tactics" }
func (t *Tactics) Source() string { return "retailer:tactics" }

func (t *Tactics) Scrape(ctx context.Context, _ *types.SearchScope) ([]*types.ScrapedBoard, error) {
	tiles, err := t.categoryTiles(ctx)
	if err != nil {
		return nil, err
	}

	var boards []*types.ScrapedBoard
	for _, ti := range tiles {
		if err := fetch.Delay(ctx, t.delay); err != nil {
			return boards, err
		}
		sb, err := t.scrapeDetail(ctx, ti)
		if err != nil {
			t.logger.Warn("Board page failed", zap.String("url", ti.url), zap.Error(err))
			continue
		}
		if sb != nil {
			boards = append(boards, sb)
		}
	}
	return boards, nil
}

func (t *Tactics) categoryTiles(ctx context.Context) ([]tile, error) {
	base, err := url.Parse(tacticsBase)
	if err != nil {
		return nil, err
	}

	var tiles []tile
	pageURL := tacticsCategoryURL
	for page := 0; pageURL != "" && page < tacticsMaxPages; page++ {
		if page > 0 {
			if err := fetch.Delay(ctx, t.delay); err != nil {
				return tiles, err
			}
		}
		doc, err := fetchDoc(ctx, t.fetcher, pageURL)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			t.logger.Warn("Category page failed", zap.String("url", pageURL), zap.Error(err))
			break
		}

		doc.Find("a.product-thumb").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			title := strings.TrimSpace(s.Find(".product-thumb-title").Text())
			if u := absURL(base, href); u != "" && title != "" {
				tiles = append(tiles, tile{url: u, title: title})
			}
		})

		next, _ := doc.Find(`a[rel="next"]`).Attr("href")
		pageURL = absURL(base, next)
	}
	return tiles, nil
}

func (t *Tactics) scrapeDetail(ctx context.Context, ti tile) (*types.ScrapedBoard, error) {
	doc, err := fetchDoc(ctx, t.fetcher, ti.url)
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
	bid := brand.From(prod.Brand, strings.TrimSpace(doc.Find(".product-brand").Text()))
	if bid == nil {
		t.logger.Warn("Board without brand", zap.String("url", ti.url))
		return nil, nil
	}

	sb := &types.ScrapedBoard{
		Source:      t.Source(),
		Brand:       bid,
		Model:       title,
		RawModel:    title,
		Description: prod.Description,
		SourceURL:   ti.url,
	}
	doc.Find(".product-specs tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th,td")
		if cells.Length() >= 2 {
			assignSpec(sb, cells.First().Text(), cells.Last().Text())
		}
	})

	var offer Offer
	if len(prod.Offers) > 0 {
		offer = prod.Offers[0]
	}
	salePrice := offer.Price
	if salePrice == nil {
		salePrice = CleanPrice(doc.Find(".product-price .current").Text())
	}
	origPrice := CleanPrice(doc.Find(".product-price .compare-at").Text())
	currency := offer.Currency
	if currency == "" {
		currency = "USD"
	}

	listing := types.ScrapedListing{
		URL:           ti.url,
		ImageURL:      prod.Image,
		Region:        "us",
		OriginalPrice: origPrice,
		SalePrice:     salePrice,
		Currency:      currency,
		Availability:  offer.Availability,
	}

	sizes := doc.Find(".product-sizes button")
	if sizes.Length() == 0 {
		sb.Listings = append(sb.Listings, listing)
		return sb, nil
	}
	sizes.Each(func(_ int, s *goquery.Selection) {
		l := listing
		l.LengthCm = ParseLengthCm(s.Text())
		if s.HasClass("oos") {
			l.Availability = "out of stock"
		}
		sb.Listings = append(sb.Listings, l)
	})
	return sb, nil
}
