package scrape

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Product is the slice of schema.org Product we care about. Offer fields
// stay raw; availability normalization happens at coalescence.
type Product struct {
	Name        string
	Brand       string
	Description string
	Image       string
	Offers      []Offer
}

// Offer is one schema.org Offer under a Product.
type Offer struct {
	Name         string
	Price        *float64
	Currency     string
	Availability string
	URL          string
}

// ProductsIn extracts every JSON-LD Product in the document. Malformed
// blocks are skipped; retailers routinely ship broken ones next to good
// ones.
func ProductsIn(doc *goquery.Document) []Product {
	var products []Product
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v interface{}
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return
		}
		collectProducts(v, &products)
	})
	return products
}

// collectProducts walks a decoded JSON-LD value. Products hide at the top
// level, inside @graph, and inside ItemList elements.
func collectProducts(v interface{}, out *[]Product) {
	switch node := v.(type) {
	case []interface{}:
		for _, item := range node {
			collectProducts(item, out)
		}
	case map[string]interface{}:
		if hasType(node, "Product") {
			*out = append(*out, productFrom(node))
			return
		}
		for _, key := range []string{"@graph", "itemListElement", "item", "mainEntity"} {
			if sub, ok := node[key]; ok {
				collectProducts(sub, out)
			}
		}
	}
}

func hasType(node map[string]interface{}, want string) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == want
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func productFrom(node map[string]interface{}) Product {
	p := Product{
		Name:        str(node["name"]),
		Brand:       nameOrString(node["brand"]),
		Description: StripHTML(str(node["description"])),
		Image:       firstString(node["image"]),
	}
	switch offers := node["offers"].(type) {
	case map[string]interface{}:
		p.Offers = append(p.Offers, offerFrom(offers))
	case []interface{}:
		for _, o := range offers {
			if m, ok := o.(map[string]interface{}); ok {
				p.Offers = append(p.Offers, offerFrom(m))
			}
		}
	}
	return p
}

func offerFrom(node map[string]interface{}) Offer {
	o := Offer{
		Name:         str(node["name"]),
		Currency:     strings.ToUpper(str(node["priceCurrency"])),
		Availability: str(node["availability"]),
		URL:          str(node["url"]),
	}
	for _, key := range []string{"price", "lowPrice"} {
		switch pv := node[key].(type) {
		case float64:
			v := pv
			o.Price = &v
		case string:
			o.Price = CleanPrice(pv)
		}
		if o.Price != nil {
			break
		}
	}
	return o
}

// nameOrString reads schema values that appear both as bare strings and as
// nested objects with a name ("brand": "Burton" vs {"@type":"Brand", ...}).
func nameOrString(v interface{}) string {
	switch b := v.(type) {
	case string:
		return b
	case map[string]interface{}:
		return str(b["name"])
	}
	return ""
}

func firstString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []interface{}:
		for _, item := range s {
			if one, ok := item.(string); ok {
				return one
			}
		}
	}
	return ""
}

func str(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
