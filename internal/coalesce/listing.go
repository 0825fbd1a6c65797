package coalesce

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/identify"
	"github.com/ryanrhee/snowboard-db-sub000/internal/normalize"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// ListingID derives the deterministic listing identity from what makes an
// offer unique: who sells it, at which URL, in which length.
func ListingID(retailer, url string, lengthCm *float64) string {
	length := ""
	if lengthCm != nil {
		length = strconv.FormatFloat(*lengthCm, 'f', -1, 64)
	}
	sum := sha256.Sum256([]byte(retailer + "|" + url + "|" + length))
	return hex.EncodeToString(sum[:])[:16]
}

func (c *Coalescer) buildListings(g *boardGroup) []types.Listing {
	var out []types.Listing
	for _, m := range g.members {
		retailer := types.SourceName(m.sb.Source)
		if retailer == "" {
			retailer = m.sb.Source
		}
		for _, sl := range m.sb.Listings {
			out = append(out, c.buildListing(g, m, retailer, sl))
		}
	}
	return out
}

func (c *Coalescer) buildListing(g *boardGroup, m *member, retailer string, sl types.ScrapedListing) types.Listing {
	// Condition and gender can vary per listing (blem stock, split gender
	// pages), so each listing gets its own identification pass.
	id := identify.NewBoardIdentifier(m.sb.Brand, m.raw, sl.URL, m.sb.Source, identify.ListingHints{
		Condition: sl.Condition,
		Gender:    firstNonEmpty(sl.Gender, m.sb.Gender),
	})

	l := types.Listing{
		ID:            ListingID(retailer, sl.URL, sl.LengthCm),
		BoardKey:      g.key,
		Retailer:      retailer,
		Region:        sl.Region,
		URL:           sl.URL,
		ImageURL:      sl.ImageURL,
		LengthCm:      sl.LengthCm,
		WidthMm:       sl.WidthMm,
		OriginalPrice: sl.OriginalPrice,
		SalePrice:     sl.SalePrice,
		Currency:      currencyCode(sl.Currency),
		Availability:  normalize.Availability(sl.Availability),
		Condition:     id.Condition(),
		Gender:        id.Gender(),
		StockCount:    sl.StockCount,
		ComboContents: sl.ComboContents,
		ScrapedAt:     sl.ScrapedAt,
	}
	if l.Gender == "" {
		l.Gender = g.gender
	}
	if l.ScrapedAt.IsZero() {
		l.ScrapedAt = c.now().UTC()
	}
	l.OriginalPriceUSD = c.toUSD(sl.OriginalPrice, sl.Currency)
	l.SalePriceUSD = c.toUSD(sl.SalePrice, sl.Currency)
	l.DiscountPercent = discountPercent(sl.OriginalPrice, sl.SalePrice)
	return l
}

func (c *Coalescer) toUSD(price *float64, currency string) *float64 {
	if price == nil {
		return nil
	}
	cur := currencyCode(currency)
	if cur == "USD" {
		v := *price
		return &v
	}
	rate, ok := c.rates[cur]
	if !ok || rate <= 0 {
		c.logger.Warn("No conversion rate for currency", zap.String("currency", cur))
		return nil
	}
	v := math.Round(*price*rate*100) / 100
	return &v
}

// discountPercent is round((orig-sale)/orig*100), only when both prices
// exist and the sale is an actual markdown.
func discountPercent(orig, sale *float64) *int {
	if orig == nil || sale == nil || *orig <= 0 || *orig <= *sale {
		return nil
	}
	d := int(math.Round((*orig - *sale) / *orig * 100))
	return &d
}

func currencyCode(currency string) string {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" {
		return "USD"
	}
	return cur
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
