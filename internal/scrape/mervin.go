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

// mervinCatalogs lists the two storefronts the Mervin adapter covers. Both
// run the same platform, so one set of selectors serves both.
var mervinCatalogs = []struct {
	brand string
	base  string
	url   string
}{
	{"Lib Tech", "https://www.lib-tech.com", "https://www.lib-tech.com/snowboards"},
	{"GNU", "https://www.gnu.com", "https://www.gnu.com/snowboards"},
}

// Mervin scrapes lib-tech.com and gnu.com. Contour codes ride in the spec
// table and flow through as free-form profile strings.
type Mervin struct {
	fetcher fetch.Fetcher
	delay   time.Duration
	logger  *zap.Logger
}

func NewMervin(d Deps) Scraper {
	return &Mervin{fetcher: d.Fetcher, delay: d.Delay, logger: d.Logger}
}

func (m *Mervin) Name() string   { return "mervin" }
func (m *Mervin) Source() string { return "manufacturer:mervin" }

func (m *Mervin) Scrape(ctx context.Context, _ *types.SearchScope) ([]*types.ScrapedBoard, error) {
	var boards []*types.ScrapedBoard
	var firstErr error
	reached := false
	for i, cat := range mervinCatalogs {
		if i > 0 {
			if err := fetch.Delay(ctx, m.delay); err != nil {
				return boards, err
			}
		}
		got, err := m.scrapeCatalog(ctx, cat.brand, cat.base, cat.url)
		if err != nil {
			m.logger.Warn("Catalog failed", zap.String("url", cat.url), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		reached = true
		boards = append(boards, got...)
	}
	if !reached {
		return nil, firstErr
	}
	return boards, nil
}

func (m *Mervin) scrapeCatalog(ctx context.Context, brandName, baseURL, categoryURL string) ([]*types.ScrapedBoard, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := fetchDoc(ctx, m.fetcher, categoryURL)
	if err != nil {
		return nil, err
	}

	var tiles []tile
	doc.Find(".product-item a.product-item-link").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		title := strings.TrimSpace(s.Text())
		if u := absURL(base, href); u != "" && title != "" {
			tiles = append(tiles, tile{url: u, title: title})
		}
	})

	var boards []*types.ScrapedBoard
	for _, ti := range tiles {
		if err := fetch.Delay(ctx, m.delay); err != nil {
			return boards, err
		}
		sb, err := m.scrapeDetail(ctx, brandName, ti)
		if err != nil {
			m.logger.Warn("Board page failed", zap.String("url", ti.url), zap.Error(err))
			continue
		}
		if sb != nil {
			boards = append(boards, sb)
		}
	}
	return boards, nil
}

func (m *Mervin) scrapeDetail(ctx context.Context, brandName string, ti tile) (*types.ScrapedBoard, error) {
	doc, err := fetchDoc(ctx, m.fetcher, ti.url)
	if err != nil {
		return nil, err
	}

	sb := &types.ScrapedBoard{
		Source:      m.Source(),
		Brand:       brand.New(brandName),
		Model:       ti.title,
		RawModel:    ti.title,
		Description: StripHTML(doc.Find(".product-overview").Text()),
		SourceURL:   ti.url,
	}
	doc.Find(".tech-specs tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() >= 2 {
			assignSpec(sb, cells.First().Text(), cells.Last().Text())
		}
	})
	sb.MSRPUSD = CleanPrice(doc.Find(".product-info-price .price").First().Text())
	return sb, nil
}
