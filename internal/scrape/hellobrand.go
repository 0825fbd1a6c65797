package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

const (
	helloBrandBase        = "https://hellobrand.co.kr"
	helloBrandCategoryURL = helloBrandBase + "/product/list.html?cate_no=52"
)

// HelloBrand scrapes a Korean mall. The storefront renders client-side, so
// the registry routes it through the browser pool. Everything needed lives
// on the category tiles; detail pages add nothing structured.
type HelloBrand struct {
	fetcher fetch.Fetcher
	logger  *zap.Logger
}

func NewHelloBrand(d Deps) Scraper {
	return &HelloBrand{fetcher: d.Fetcher, logger: d.Logger}
}

func (b *HelloBrand) Name() string   { return "hellobrand" }
func (b *HelloBrand) Source() string { return "retailer:hellobrand" }

func (b *HelloBrand) Scrape(ctx context.Context, _ *types.SearchScope) ([]*types.ScrapedBoard, error) {
	base, err := url.Parse(helloBrandBase)
	if err != nil {
		return nil, err
	}
	doc, err := fetchDoc(ctx, b.fetcher, helloBrandCategoryURL)
	if err != nil {
		return nil, err
	}

	var boards []*types.ScrapedBoard
	doc.Find("ul.prdList li.item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("p.name a")
		href, _ := link.Attr("href")
		brandName := strings.TrimSpace(link.Find("span.brand").Text())
		title := strings.TrimSpace(link.Find("span.title").Text())
		detailURL := absURL(base, href)
		if detailURL == "" || title == "" {
			return
		}
		bid := brand.From(brandName)
		if bid == nil {
			b.logger.Warn("Tile without brand", zap.String("url", detailURL))
			return
		}

		origPrice := CleanPrice(item.Find("li.product_price").Text())
		salePrice := CleanPrice(item.Find("li.product_custom").Text())
		if salePrice == nil {
			salePrice = origPrice
			origPrice = nil
		}

		var length *float64
		if fields := strings.Fields(title); len(fields) > 1 {
			length = ParseLengthCm(fields[len(fields)-1])
		}

		imageURL, _ := item.Find("img").First().Attr("src")
		boards = append(boards, &types.ScrapedBoard{
			Source:    b.Source(),
			Brand:     bid,
			Model:     title,
			RawModel:  title,
			SourceURL: detailURL,
			Listings: []types.ScrapedListing{{
				URL:           detailURL,
				ImageURL:      absURL(base, imageURL),
				Region:        "kr",
				LengthCm:      length,
				OriginalPrice: origPrice,
				SalePrice:     salePrice,
				Currency:      "KRW",
			}},
		})
	})
	return boards, nil
}
