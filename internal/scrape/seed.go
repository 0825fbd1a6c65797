package scrape

import (
	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// SeedSource tags the fallback records substituted when a run produced no
// retailer listings at all.
const SeedSource = "retailer:seed"

func f64(v float64) *float64 { return &v }

// SeedBoards is the demo fallback set. It exists so a run with every
// retailer down still exercises the whole pipeline and returns something
// inspectable.
func SeedBoards() []*types.ScrapedBoard {
	return []*types.ScrapedBoard{
		{
			Source:    SeedSource,
			Brand:     brand.New("Burton"),
			Model:     "Custom Camber Snowboard",
			RawModel:  "Custom Camber Snowboard",
			Flex:      "6",
			Profile:   "camber",
			Shape:     "directional twin",
			Category:  "all mountain",
			SourceURL: "https://www.burton.com/us/en/p/burton-custom-camber-snowboard/W26-106881.html",
			Listings: []types.ScrapedListing{{
				URL:           "https://www.burton.com/us/en/p/burton-custom-camber-snowboard/W26-106881.html",
				Region:        "us",
				LengthCm:      f64(158),
				OriginalPrice: f64(639.95),
				SalePrice:     f64(639.95),
				Currency:      "USD",
				Availability:  "in stock",
			}},
		},
		{
			Source:    SeedSource,
			Brand:     brand.New("CAPiTA"),
			Model:     "D.O.A. Snowboard",
			RawModel:  "D.O.A. Snowboard",
			Flex:      "5.5",
			Profile:   "hybrid camber",
			Shape:     "true twin",
			Category:  "all mountain",
			SourceURL: "https://www.capitasnowboarding.com/products/doa",
			Listings: []types.ScrapedListing{{
				URL:           "https://www.capitasnowboarding.com/products/doa",
				Region:        "us",
				LengthCm:      f64(156),
				OriginalPrice: f64(549.95),
				SalePrice:     f64(494.95),
				Currency:      "USD",
				Availability:  "in stock",
			}},
		},
		{
			Source:    SeedSource,
			Brand:     brand.New("Lib Tech"),
			Model:     "Orca Snowboard",
			RawModel:  "Orca Snowboard",
			Flex:      "6",
			Profile:   "c2x",
			Shape:     "directional",
			Category:  "freeride",
			SourceURL: "https://www.lib-tech.com/snowboards/orca",
			Listings: []types.ScrapedListing{{
				URL:           "https://www.lib-tech.com/snowboards/orca",
				Region:        "us",
				LengthCm:      f64(153),
				OriginalPrice: f64(659.95),
				SalePrice:     f64(659.95),
				Currency:      "USD",
				Availability:  "low stock",
			}},
		},
	}
}
