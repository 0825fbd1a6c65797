package scrape

import (
	"bytes"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// PrimePages lists one retailer's category entry points, the pages the
// cache-priming crawl walks first.
type PrimePages struct {
	Retailer string
	Host     string
	URLs     []string
}

// RetailerPrimePages returns every retailer's prime pages in registry
// order. Host is derived from the first URL and keys cache statistics.
func RetailerPrimePages() []PrimePages {
	pages := []PrimePages{
		{Retailer: "tactics", URLs: []string{tacticsCategoryURL}},
		{Retailer: "evo", URLs: []string{evoCategories[0].url, evoCategories[1].url}},
		{Retailer: "the-house", URLs: []string{theHouseCategoryURL}},
		{Retailer: "hellobrand", URLs: []string{helloBrandCategoryURL}},
	}
	for i := range pages {
		if u, err := url.Parse(pages[i].URLs[0]); err == nil {
			pages[i].Host = u.Host
		}
	}
	return pages
}

// NextPageURL returns the absolute rel=next link of a category page, or ""
// when the page is the last one.
func NextPageURL(pageURL string, body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	href, ok := doc.Find(`a[rel="next"]`).First().Attr("href")
	if !ok {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return absURL(base, href)
}
