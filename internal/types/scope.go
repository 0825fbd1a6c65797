package types

// Pipeline modes selected by SearchScope.From.
const (
	FromScrape      = "scrape"
	FromReviewSites = "review-sites"
	FromResolve     = "resolve"
)

// SearchScope narrows which scrapers a run executes. For each slice a nil
// value means "include all", while an empty non-nil slice excludes that
// source type entirely. Sites matches scraper names exactly; Retailers,
// Manufacturers and Regions match registry metadata.
type SearchScope struct {
	Sites         []string `json:"sites,omitempty"`
	Retailers     []string `json:"retailers,omitempty"`
	Manufacturers []string `json:"manufacturers,omitempty"`
	Regions       []string `json:"regions,omitempty"`
	From          string   `json:"from,omitempty" validate:"omitempty,oneof=scrape review-sites resolve"`
}

// Mode returns the effective pipeline mode, defaulting to scrape.
func (s SearchScope) Mode() string {
	if s.From == "" {
		return FromScrape
	}
	return s.From
}
