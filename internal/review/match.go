package review

import (
	"strings"
	"unicode"
)

// matchThreshold is the minimum Dice score for a sitemap entry to count as
// the review page for a board.
const matchThreshold = 0.6

// DiceCoefficient scores two strings in [0, 1] as 2·|A∩B| / (|A|+|B|) over
// the sets of character bigrams of their lowercased alphanumeric
// projections.
func DiceCoefficient(a, b string) float64 {
	pa, pb := alnum(a), alnum(b)
	if pa == pb {
		return 1
	}
	setA, setB := bigrams(pa), bigrams(pb)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for bg := range setA {
		if _, ok := setB[bg]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(setA)+len(setB))
}

func bigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for i := 0; i+2 <= len(s); i++ {
		set[s[i:i+2]] = struct{}{}
	}
	return set
}

func alnum(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
