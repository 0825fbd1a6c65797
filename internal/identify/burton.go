package identify

import "strings"

// Burton names bend variants in plain words at the end of the model.
// Ordered longest first so "PurePop Camber" never reads as bare camber.
var burtonVariantCodes = []string{
	"purepop camber",
	"flying v",
	"flat top",
	"purepop",
	"camber",
}

var burtonAliases = map[string]string{
	"fish 3d directional": "3d fish directional",
}

func burtonStrategy(sig BoardSignal) BoardIdentity {
	model := preNormalize(sig.RawModel, sig.Brand)
	model, variant := extractVariantSuffix(model, burtonVariantCodes)

	if strings.HasPrefix(strings.ToLower(model), "snowboards ") {
		model = strings.TrimSpace(model[len("snowboards "):])
	}
	if alias, ok := burtonAliases[strings.ToLower(model)]; ok {
		model = alias
	}

	return BoardIdentity{Model: postNormalize(model), ProfileVariant: variant}
}
