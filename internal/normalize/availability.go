package normalize

import (
	"strings"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// Availability buckets a raw stock string, including schema.org item
// availability URLs from JSON-LD, into the availability enum. Unrecognized
// input is unknown, not an error.
func Availability(raw string) types.Availability {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "http://schema.org/")
	s = strings.TrimPrefix(s, "https://schema.org/")
	if s == "" {
		return types.AvailabilityUnknown
	}

	switch {
	case strings.Contains(s, "low stock"),
		strings.Contains(s, "limitedavailability"),
		strings.Contains(s, "limited availability"),
		strings.Contains(s, "few left"),
		strings.Contains(s, "left in stock"):
		return types.AvailabilityLowStock
	case strings.Contains(s, "out of stock"),
		strings.Contains(s, "outofstock"),
		strings.Contains(s, "sold out"),
		strings.Contains(s, "soldout"),
		strings.Contains(s, "unavailable"),
		strings.Contains(s, "discontinued"),
		strings.Contains(s, "backorder"):
		return types.AvailabilityOutOfStock
	case strings.Contains(s, "in stock"),
		strings.Contains(s, "instock"),
		strings.Contains(s, "add to cart"),
		strings.Contains(s, "available"):
		return types.AvailabilityInStock
	}
	return types.AvailabilityUnknown
}
