package resolve

import (
	"math"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// BeginnerScore rates how forgiving a board is for a first-season rider on
// a 0-10 scale, using whichever resolved specs exist. Each spec carries a
// weight (ability 4, flex 3, profile 2, category 1) and the score is the
// earned fraction of the weights actually present, so a board missing half
// its specs is not punished for the gaps. Nil when no scorable spec
// resolved.
func BeginnerScore(b *types.Board) *float64 {
	earned, possible := 0.0, 0.0

	if b.AbilityLevelMin != nil {
		possible += 4
		switch *b.AbilityLevelMin {
		case types.AbilityBeginner:
			earned += 4
		case types.AbilityIntermediate:
			earned += 2.5
		case types.AbilityAdvanced:
			earned += 1
		}
	}
	if b.Flex != nil {
		possible += 3
		f := math.Min(math.Max(*b.Flex, 1), 10)
		earned += (10 - f) / 9 * 3
	}
	if b.Profile != nil {
		possible += 2
		switch *b.Profile {
		case types.ProfileRocker:
			earned += 2
		case types.ProfileFlat:
			earned += 1.7
		case types.ProfileHybridRocker:
			earned += 1.6
		case types.ProfileHybridCamber:
			earned += 1.2
		case types.ProfileCamber:
			earned += 0.5
		}
	}
	if b.Category != nil {
		possible += 1
		switch *b.Category {
		case types.CategoryAllMountain:
			earned += 1
		case types.CategoryFreestyle:
			earned += 0.8
		case types.CategoryPark:
			earned += 0.6
		case types.CategoryFreeride, types.CategoryPowder:
			earned += 0.3
		}
	}

	if possible == 0 {
		return nil
	}
	score := math.Round(earned/possible*100) / 10
	return &score
}
