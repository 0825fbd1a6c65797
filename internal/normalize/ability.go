// Package normalize maps free-form spec strings from scraped pages onto the
// closed enums of the data model. Every function here is a pure keyword-table
// lookup with ordered fallback: a miss returns the zero value and false (or
// nil), never an error. Tables encode how real product pages phrase things,
// so entries look redundant on purpose.
package normalize

import (
	"strings"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

var abilityAliases = map[string]types.Ability{
	"beginner":     types.AbilityBeginner,
	"novice":       types.AbilityBeginner,
	"entry level":  types.AbilityBeginner,
	"entry-level":  types.AbilityBeginner,
	"day 1":        types.AbilityBeginner,
	"first timer":  types.AbilityBeginner,
	"first-timer":  types.AbilityBeginner,
	"intermediate": types.AbilityIntermediate,
	"advanced":     types.AbilityAdvanced,
	"expert":       types.AbilityExpert,
	"pro":          types.AbilityExpert,
	"pro level":    types.AbilityExpert,
	"professional": types.AbilityExpert,
}

var abilitySeparators = []string{" to ", "-", "–", "/"}

// AbilityRange parses a single skill token ("Intermediate") or a min-max
// range ("Beginner-Intermediate") into its bounds. Both bounds are nil when
// nothing matches.
func AbilityRange(raw string) (min, max *types.Ability) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return nil, nil
	}

	if s == "all" || s == "all levels" || s == "any level" {
		b, e := types.AbilityBeginner, types.AbilityExpert
		return &b, &e
	}

	for _, sep := range abilitySeparators {
		left, right, found := strings.Cut(s, sep)
		if !found {
			continue
		}
		lo, okLo := lookupAbility(left)
		hi, okHi := lookupAbility(right)
		if okLo && okHi {
			return &lo, &hi
		}
	}

	if level, ok := lookupAbility(s); ok {
		lo, hi := level, level
		return &lo, &hi
	}
	return nil, nil
}

func lookupAbility(s string) (types.Ability, bool) {
	level, ok := abilityAliases[strings.TrimSpace(s)]
	return level, ok
}
