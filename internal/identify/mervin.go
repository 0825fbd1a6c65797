package identify

import (
	"regexp"
	"strings"
)

// Mervin (GNU + Lib Tech) encodes the bend as a contour code suffix.
// Ordered longest first; a bare trailing "camber" is the C3 contour.
var mervinContourCodes = []string{
	"c3 btx",
	"c2x",
	"c2e",
	"c2",
	"c3",
	"btx",
	"camber",
}

// profileContourCodes is the same set minus the camber remap, used when the
// variant has to come from the scraper's profile string instead of the name.
var profileContourCodes = []string{"c3 btx", "c2x", "c2e", "c2", "c3", "btx"}

var mervinRiders = map[string][]string{
	"gnu":      {"Forest Bailey", "Max Warbington", "Cummins'"},
	"lib tech": {"T. Rice", "Travis Rice"},
}

var mervinAliases = map[string]string{
	"son of a birdman": "son of birdman",
}

var (
	tRiceRe        = regexp.MustCompile(`(?i)\bt\.\s*rice\b`)
	sigSeriesRe    = regexp.MustCompile(`(?i)^(?:signature series|ltd)\s+`)
	asymPrefixRe   = regexp.MustCompile(`(?i)^asym\s+`)
	asymSuffixRe   = regexp.MustCompile(`(?i)\s+asym$`)
	cTokenPrefixRe = regexp.MustCompile(`(?i)^c\s+`)
	cTokenSuffixRe = regexp.MustCompile(`(?i)\s+c$`)
)

func mervinStrategy(sig BoardSignal) BoardIdentity {
	model := preNormalize(sig.RawModel, sig.Brand)
	lowerBrand := strings.ToLower(sig.Brand)

	// "Lib Tech Tech Orca" style brand leak: the prefix strip ate "Lib",
	// leaving a stray "Tech".
	if lowerBrand == "lib tech" && strings.HasPrefix(strings.ToLower(model), "tech ") {
		model = strings.TrimSpace(model[len("tech "):])
	}

	model = tRiceRe.ReplaceAllString(model, "T. Rice")

	model, variant := extractVariantSuffix(model, mervinContourCodes)
	if variant == "camber" {
		variant = "c3"
	}
	if variant == "" && sig.Profile != "" {
		variant = contourFromProfile(sig.Profile)
	}

	model = stripRiderNames(model, mervinRiders[lowerBrand])
	model = sigSeriesRe.ReplaceAllString(model, "")

	if lowerBrand == "gnu" {
		model = asymPrefixRe.ReplaceAllString(model, "")
		model = asymSuffixRe.ReplaceAllString(model, "")
		model = strings.ReplaceAll(model, "-", " ")
		// A lone C token is the contour surfaced in the URL slug, not part
		// of the name.
		model = cTokenPrefixRe.ReplaceAllString(model, "")
		model = cTokenSuffixRe.ReplaceAllString(model, "")
	}

	if alias, ok := mervinAliases[strings.ToLower(model)]; ok {
		model = alias
	}

	return BoardIdentity{Model: postNormalize(model), ProfileVariant: variant}
}

func contourFromProfile(profile string) string {
	p := strings.ToLower(profile)
	for _, code := range profileContourCodes {
		if strings.Contains(p, code) {
			return code
		}
	}
	switch {
	case strings.Contains(p, "hybrid camber"), strings.Contains(p, "camrock"):
		return "c2"
	case strings.Contains(p, "hybrid rocker"), strings.Contains(p, "flying v"):
		return "btx"
	case strings.Contains(p, "camber"):
		return "c3"
	case strings.Contains(p, "rocker"):
		return "btx"
	}
	return ""
}
