package identify

import "strings"

// defaultRiders lists pro-model rider names per brand for brands without a
// dedicated strategy. Keyed by lowercased canonical brand.
var defaultRiders = map[string][]string{
	"capita":      {"Jess Kimura", "Arthur Longo", "Kazu Kokubo"},
	"nitro":       {"Marcus Kleveland"},
	"jones":       {"Jeremy Jones"},
	"arbor":       {"Bryan Iguchi"},
	"gentemstick": {"Taro Tamai"},
	"aesmo":       {"Wolfgang Nyvelt"},
}

var defaultExactAliases = map[string]string{
	"mega merc":   "mega mercury",
	"hel yes":     "hell yes",
	"paradice":    "paradise",
	"dreamweaver": "dream weaver",
}

var defaultPrefixAliases = []struct {
	prefix      string
	replacement string
}{
	{"sb ", "spring break "},
	{"snowboards ", ""},
	{"darkhorse ", "dark horse "},
}

// defaultStrategy covers every brand without bespoke variant handling.
// ProfileVariant is always empty here.
func defaultStrategy(sig BoardSignal) BoardIdentity {
	model := preNormalize(sig.RawModel, sig.Brand)
	lowerBrand := strings.ToLower(sig.Brand)

	model = stripRiderNames(model, defaultRiders[lowerBrand])

	// "Dinosaurs Will Die" splits across title fields on some sites; the
	// brand prefix strip only catches the full phrase.
	if lowerBrand == "dinosaurs will die" {
		for _, leak := range []string{"will die ", "dinosaurs "} {
			if strings.HasPrefix(strings.ToLower(model), leak) {
				model = strings.TrimSpace(model[len(leak):])
			}
		}
	}

	if alias, ok := defaultExactAliases[strings.ToLower(model)]; ok {
		model = alias
	}
	for _, pa := range defaultPrefixAliases {
		if strings.HasPrefix(strings.ToLower(model), pa.prefix) {
			model = pa.replacement + model[len(pa.prefix):]
		}
	}

	return BoardIdentity{Model: postNormalize(model)}
}
