package normalize

import (
	"strings"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

var categoryAliases = map[string]types.Category{
	"all mountain":           types.CategoryAllMountain,
	"all-mountain":           types.CategoryAllMountain,
	"all mtn":                types.CategoryAllMountain,
	"allmountain":            types.CategoryAllMountain,
	"all mountain freestyle": types.CategoryAllMountain,
	"all mountain freeride":  types.CategoryAllMountain,
	"freestyle":              types.CategoryFreestyle,
	"free style":             types.CategoryFreestyle,
	"freeride":               types.CategoryFreeride,
	"free ride":              types.CategoryFreeride,
	"backcountry":            types.CategoryFreeride,
	"big mountain":           types.CategoryFreeride,
	"powder":                 types.CategoryPowder,
	"pow":                    types.CategoryPowder,
	"park":                   types.CategoryPark,
	"park & pipe":            types.CategoryPark,
	"park and pipe":          types.CategoryPark,
	"jib":                    types.CategoryPark,
}

// categoryKeywords feeds the description scan when the category string
// itself misses. Presence of each keyword counts one point.
var categoryKeywords = map[types.Category][]string{
	types.CategoryAllMountain: {"all mountain", "all-mountain", "versatile", "one board quiver", "entire mountain", "anywhere on the mountain"},
	types.CategoryFreestyle:   {"freestyle", "jib", "butter", "press", "playful", "rails"},
	types.CategoryFreeride:    {"freeride", "backcountry", "big mountain", "steeps", "charging", "aggressive"},
	types.CategoryPowder:      {"powder", "deep snow", "float", "surfy", "pow day"},
	types.CategoryPark:        {"park", "kickers", "jumps", "halfpipe", "slopestyle"},
}

// Category maps a free-form category string to the category enum, falling
// back to a keyword scan of the description. Ties go to the earliest
// category in canonical enum order.
func Category(raw, description string) (types.Category, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := categoryAliases[s]; ok {
		return c, true
	}

	desc := strings.ToLower(description)
	if strings.TrimSpace(desc) == "" {
		return "", false
	}
	var best types.Category
	bestScore := 0
	for _, c := range types.Categories {
		score := 0
		for _, kw := range categoryKeywords[c] {
			if strings.Contains(desc, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore == 0 {
		return "", false
	}
	return best, true
}
