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
	theHouseBase        = "https://www.the-house.com"
	theHouseCategoryURL = theHouseBase + "/snowboards/"
)

// TheHouse scrapes the-house.com. Product pages ship no structured data, so
// prices and sizes come from the page markup; specs are "Label: Value" lines
// in the details list.
type TheHouse struct {
	fetcher fetch.Fetcher
	delay   time.Duration
	logger  *zap.Logger
}

func NewTheHouse(d Deps) Scraper {
	return &TheHouse{fetcher: d.Fetcher, delay: d.Delay, logger: d.Logger}
}

func (h *TheHouse) Name() string   { return "the-house" }
func (h *TheHouse) Source() string { return "retailer:the-house" }

func (h *TheHouse) Scrape(ctx context.Context, _ *types.SearchScope) ([]*types.ScrapedBoard, error) {
	base, err := url.Parse(theHouseBase)
	if err != nil {
		return nil, err
	}
	doc, err := fetchDoc(ctx, h.fetcher, theHouseCategoryURL)
	if err != nil {
		return nil, err
	}

	var tiles []tile
	doc.Find(".product-block a.product-link").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		title := strings.TrimSpace(s.Find(".product-title").Text())
		if u := absURL(base, href); u != "" && title != "" {
			tiles = append(tiles, tile{url: u, title: title})
		}
	})

	var boards []*types.ScrapedBoard
	for _, ti := range tiles {
		if err := fetch.Delay(ctx, h.delay); err != nil {
			return boards, err
		}
		sb, err := h.scrapeDetail(ctx, ti)
		if err != nil {
			h.logger.Warn("Board page failed", zap.String("url", ti.url), zap.Error(err))
			continue
		}
		if sb != nil {
			boards = append(boards, sb)
		}
	}
	return boards, nil
}

func (h *TheHouse) scrapeDetail(ctx context.Context, ti tile) (*types.ScrapedBoard, error) {
	doc, err := fetchDoc(ctx, h.fetcher, ti.url)
	if err != nil {
		return nil, err
	}

	bid := brand.From(strings.TrimSpace(doc.Find(".product-brand").Text()))
	if bid == nil {
		h.logger.Warn("Board without brand", zap.String("url", ti.url))
		return nil, nil
	}

	sb := &types.ScrapedBoard{
		Source:      h.Source(),
		Brand:       bid,
		Model:       ti.title,
		RawModel:    ti.title,
		Description: StripHTML(doc.Find(".product-description").Text()),
		SourceURL:   ti.url,
	}
	doc.Find("#specs li").Each(func(_ int, s *goquery.Selection) {
		label, value, ok := strings.Cut(s.Text(), ":")
		if ok {
			assignSpec(sb, label, value)
		}
	})

	salePrice := CleanPrice(doc.Find("#product-price .sale-price").Text())
	origPrice := CleanPrice(doc.Find("#product-price .regular-price").Text())
	imageURL, _ := doc.Find("#product-image img").Attr("src")
	availability := "in stock"
	if doc.Find("#add-to-cart").Length() == 0 {
		availability = "out of stock"
	}

	listing := types.ScrapedListing{
		URL:           ti.url,
		ImageURL:      imageURL,
		Region:        "us",
		OriginalPrice: origPrice,
		SalePrice:     salePrice,
		Currency:      "USD",
		Availability:  availability,
	}

	options := doc.Find("select#size option")
	if options.Length() == 0 {
		sb.Listings = append(sb.Listings, listing)
		return sb, nil
	}
	options.Each(func(_ int, opt *goquery.Selection) {
		length := ParseLengthCm(opt.Text())
		if length == nil {
			// Placeholder rows like "Select Size".
			return
		}
		l := listing
		l.LengthCm = length
		if _, disabled := opt.Attr("disabled"); disabled {
			l.Availability = "out of stock"
		}
		sb.Listings = append(sb.Listings, l)
	})
	return sb, nil
}
