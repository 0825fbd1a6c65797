package normalize

import (
	"strings"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

var shapeAliases = map[string]types.Shape{
	"true twin":                types.ShapeTrueTwin,
	"twin":                     types.ShapeTrueTwin,
	"perfect twin":             types.ShapeTrueTwin,
	"asym twin":                types.ShapeTrueTwin,
	"asymmetrical twin":        types.ShapeTrueTwin,
	"asymmetric true twin":     types.ShapeTrueTwin,
	"directional twin":         types.ShapeDirectionalTwin,
	"twin directional":         types.ShapeDirectionalTwin,
	"directional":              types.ShapeDirectional,
	"all mountain directional": types.ShapeDirectional,
	"tapered":                  types.ShapeTapered,
	"tapered directional":      types.ShapeTapered,
	"directional tapered":      types.ShapeTapered,
	"tapered twin":             types.ShapeTapered,
}

// Shape maps a free-form outline description to the shape enum. When both
// "twin" and "direct" appear outside an exact alias, the board counts as a
// directional twin; that check runs before the bare twin fallback.
func Shape(raw string) (types.Shape, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	if sh, ok := shapeAliases[s]; ok {
		return sh, true
	}

	hasTwin := strings.Contains(s, "twin")
	hasDirectional := strings.Contains(s, "direct")
	switch {
	case strings.Contains(s, "taper"):
		return types.ShapeTapered, true
	case hasTwin && hasDirectional:
		return types.ShapeDirectionalTwin, true
	case hasTwin:
		return types.ShapeTrueTwin, true
	case hasDirectional:
		return types.ShapeDirectional, true
	}
	return "", false
}
