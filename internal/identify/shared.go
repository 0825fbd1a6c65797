package identify

import (
	"regexp"
	"strings"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
)

// The shared pipeline runs in two halves around the brand-specific steps:
// preNormalize strips listing noise down to a bare model phrase, the
// strategy extracts variants and brand quirks, then postNormalize cleans
// up punctuation. Step order is load-bearing; see the traces in the tests.

var (
	bindingComboRe = regexp.MustCompile(`(?i)\s*&\s*bindings?\b.*$`)
	retailParenRe  = regexp.MustCompile(`(?i)\s*\((?:closeout|blem|sale)\)`)
	retailDashRe   = regexp.MustCompile(`(?i)\s*-\s*(?:closeout|blem|sale)\b`)
	snowboardRe    = regexp.MustCompile(`(?i)\s*\bsnowboard\b`)
	yearRe         = regexp.MustCompile(`\s*-?\s*\b20\d{2}(?:\s*/\s*20\d{2})?\b`)
	earlyReleaseRe = regexp.MustCompile(`(?i)\s*\b(?:\d{4}\s+)?early\s+release\b`)
	trailingSizeRe = regexp.MustCompile(`\s+(?:1[3-9]\d|2[0-2]\d)\s*$`)
	genderWordAlt  = `women'?s?|men'?s|kids'?|boys'?|girls'?|youth|wmn`
	genderSuffixRe = regexp.MustCompile(`(?i)(?:\s*-\s*|\s+)(?:` + genderWordAlt + `)\s*$`)
	genderPrefixRe = regexp.MustCompile(`(?i)^(?:` + genderWordAlt + `)\s+`)
	letterDotRe    = regexp.MustCompile(`([A-Za-z])\.([A-Za-z])`)
	abbrevDotRe    = regexp.MustCompile(`([A-Za-z])\.(\s|$)`)
	packageWordRe  = regexp.MustCompile(`(?i)\s*\bpackage\b`)
	spacedDashRe   = regexp.MustCompile(`\s+-\s+`)
)

func preNormalize(raw, canonicalBrand string) string {
	s := brand.StripZeroWidth(raw)
	s = strings.ReplaceAll(s, "|", " ")

	// Combo strip: the board name is everything before the bundle marker.
	if i := strings.Index(s, " + "); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, " w/ "); i >= 0 {
		s = s[:i]
	}
	s = bindingComboRe.ReplaceAllString(s, "")

	s = retailParenRe.ReplaceAllString(s, "")
	s = retailDashRe.ReplaceAllString(s, "")
	s = snowboardRe.ReplaceAllString(s, "")
	s = yearRe.ReplaceAllString(s, "")
	s = earlyReleaseRe.ReplaceAllString(s, "")
	s = trailingSizeRe.ReplaceAllString(s, "")
	s = genderSuffixRe.ReplaceAllString(s, "")
	s = genderPrefixRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	// Brand leak: titles often repeat the brand in front of the model.
	// Word boundary required so "Chrome" never loses a mid-token "Rome".
	if canonicalBrand != "" {
		lower := strings.ToLower(s)
		lowerBrand := strings.ToLower(canonicalBrand)
		if lower == lowerBrand {
			s = ""
		} else if strings.HasPrefix(lower, lowerBrand+" ") {
			s = strings.TrimSpace(s[len(lowerBrand)+1:])
		}
	}
	return s
}

func postNormalize(s string) string {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "the ") {
		s = s[4:]
	}
	s = spacedDashRe.ReplaceAllString(s, " ")

	// D.O.A. -> DOA while 2.0 keeps its dot.
	for {
		next := letterDotRe.ReplaceAllString(s, "$1$2")
		if next == s {
			break
		}
		s = next
	}
	s = abbrevDotRe.ReplaceAllString(s, "$1$2")

	s = strings.ReplaceAll(s, "-", " ")
	s = packageWordRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, "/-")
	return strings.TrimSpace(s)
}

// stripRiderNames removes pro-model rider names. Matching is position
// sensitive: leading "<rider> ", the infix " by <rider>" form, or trailing
// " <rider>". The infix check runs before the trailing one so
// "Equalizer By Jess Kimura" loses the whole by-phrase, not just the name.
func stripRiderNames(model string, riders []string) string {
	for _, rider := range riders {
		lower := strings.ToLower(model)
		lr := strings.ToLower(rider)
		switch {
		case strings.HasPrefix(lower, lr+" "):
			model = strings.TrimSpace(model[len(lr)+1:])
		case strings.Contains(lower, " by "+lr):
			i := strings.Index(lower, " by "+lr)
			model = strings.TrimSpace(model[:i] + model[i+len(" by ")+len(lr):])
		case strings.HasSuffix(lower, " "+lr):
			model = strings.TrimSpace(model[:len(model)-len(lr)-1])
		}
	}
	return model
}

// extractVariantSuffix pops the longest matching variant code off the end
// of the model. Codes must be end-anchored: "Cold Brew C2 LTD" keeps its
// mid-string C2.
func extractVariantSuffix(model string, codes []string) (string, string) {
	lower := strings.ToLower(model)
	for _, code := range codes {
		if strings.HasSuffix(lower, " "+code) {
			return strings.TrimSpace(model[:len(model)-len(code)-1]), code
		}
	}
	return model, ""
}
