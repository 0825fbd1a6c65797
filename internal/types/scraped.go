package types

import (
	"strings"
	"time"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
)

// ScrapedBoard is one record per (source, board model) as emitted by a
// scraper. Spec fields are free-form strings exactly as the source printed
// them; normalization happens at coalescence.
type ScrapedBoard struct {
	// Source tags where the record came from, e.g. "retailer:tactics",
	// "manufacturer:burton", "review-site:the-good-ride".
	Source string

	Brand    *brand.Identifier
	Model    string
	RawModel string
	Year     *int

	Flex         string
	Profile      string
	Shape        string
	Category     string
	AbilityLevel string
	Gender       string

	MSRPUSD     *float64
	Description string
	SourceURL   string

	// Extras holds any additional field/value pairs the source exposed
	// (terrain_* scores, "ability level", rocker depth, ...).
	Extras map[string]string

	// Listings is empty for non-retailer sources.
	Listings []ScrapedListing
}

// ScrapedListing is one size/price observation attached to a ScrapedBoard.
type ScrapedListing struct {
	URL           string
	ImageURL      string
	Region        string
	LengthCm      *float64
	WidthMm       *float64
	OriginalPrice *float64
	SalePrice     *float64
	Currency      string
	Availability  string
	Condition     string
	StockCount    *int
	Gender        string
	ComboContents string
	ScrapedAt     time.Time
}

// Source type prefixes.
const (
	SourceTypeRetailer     = "retailer"
	SourceTypeManufacturer = "manufacturer"
	SourceTypeReviewSite   = "review-site"
)

// SourceType returns the prefix before the first colon ("retailer" for
// "retailer:tactics"). Sources without a colon return the whole string.
func SourceType(source string) string {
	if i := strings.Index(source, ":"); i >= 0 {
		return source[:i]
	}
	return source
}

// SourceName returns the part after the first colon, or "" if none.
func SourceName(source string) string {
	if i := strings.Index(source, ":"); i >= 0 {
		return source[i+1:]
	}
	return ""
}
