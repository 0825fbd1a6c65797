package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var flexRatioRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:/|out of)\s*10`)

// flexPhrases is ordered: compound phrases must come before their prefixes,
// otherwise "medium-stiff" would stop at "medium".
var flexPhrases = []struct {
	phrase string
	value  float64
}{
	{"very soft", 2},
	{"soft-medium", 4},
	{"soft to medium", 4},
	{"soft medium", 4},
	{"medium-soft", 4},
	{"medium soft", 4},
	{"very stiff", 9},
	{"medium-stiff", 6},
	{"medium to stiff", 6},
	{"medium stiff", 6},
	{"soft", 3},
	{"medium", 5},
	{"stiff", 7},
	{"firm", 7},
}

// Flex extracts a 1..10 flex rating from a free-form string: an "N/10" or
// "N out of 10" ratio first, then a bare number, then the phrase table.
func Flex(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	if m := flexRatioRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 1 && v <= 10 {
			return v, true
		}
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v >= 1 && v <= 10 {
			return v, true
		}
		return 0, false
	}

	for _, p := range flexPhrases {
		if strings.Contains(s, p.phrase) {
			return p.value, true
		}
	}
	return 0, false
}
