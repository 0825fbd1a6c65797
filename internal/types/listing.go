package types

import "time"

// Listing is one retailer's offer of one size of a board at one price.
// ID is the deterministic hash of (retailer, url, lengthCm); BoardKey and
// RunID are foreign keys into boards and search_runs.
type Listing struct {
	ID               string       `json:"id"`
	BoardKey         string       `json:"boardKey"`
	RunID            string       `json:"runId"`
	Retailer         string       `json:"retailer"`
	Region           string       `json:"region,omitempty"`
	URL              string       `json:"url"`
	ImageURL         string       `json:"imageUrl,omitempty"`
	LengthCm         *float64     `json:"lengthCm,omitempty"`
	WidthMm          *float64     `json:"widthMm,omitempty"`
	OriginalPrice    *float64     `json:"originalPrice,omitempty"`
	SalePrice        *float64     `json:"salePrice,omitempty"`
	Currency         string       `json:"currency,omitempty"`
	OriginalPriceUSD *float64     `json:"originalPriceUsd,omitempty"`
	SalePriceUSD     *float64     `json:"salePriceUsd,omitempty"`
	DiscountPercent  *int         `json:"discountPercent,omitempty"`
	Availability     Availability `json:"availability"`
	Condition        Condition    `json:"condition"`
	Gender           Gender       `json:"gender"`
	StockCount       *int         `json:"stockCount,omitempty"`
	ComboContents    string       `json:"comboContents,omitempty"`
	ScrapedAt        time.Time    `json:"scrapedAt"`
}
