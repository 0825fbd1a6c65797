// Package identify maps noisy scraped model strings to canonical board
// identities. Each manufacturer group gets its own strategy because brands
// disagree about how bend variants, rider names, and retail noise show up
// in product titles; whether retailer listings coalesce onto the right
// board is decided here.
package identify

import (
	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
)

// BoardSignal is the input to a strategy: the raw model plus everything the
// scraper knew about where it came from.
type BoardSignal struct {
	RawModel     string
	Brand        string // canonical brand
	Manufacturer brand.Manufacturer
	Source       string
	SourceURL    string
	Profile      string // free-form profile hint, may be empty
	Gender       string // free-form gender hint, may be empty
}

// BoardIdentity is a strategy's output. ProfileVariant is "" when the model
// has no recognized bend variant; otherwise it is one of the brand-specific
// lowercase codes (camber, flying v, c2x, ...).
type BoardIdentity struct {
	Model          string
	ProfileVariant string
}

// Strategy normalizes one BoardSignal into a BoardIdentity.
type Strategy func(BoardSignal) BoardIdentity

// StrategyFor dispatches on the manufacturer group.
func StrategyFor(key brand.Manufacturer) Strategy {
	switch key {
	case brand.ManufacturerBurton:
		return burtonStrategy
	case brand.ManufacturerMervin:
		return mervinStrategy
	default:
		return defaultStrategy
	}
}
