package normalize

import (
	"strings"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// profileAliases is the exact-match table, keyed by the lowercased trimmed
// input. Brand marketing names live here next to the generic terms; Mervin
// contour codes and Burton bend names are the heavy hitters.
var profileAliases = map[string]types.Profile{
	// Camber family.
	"camber":                types.ProfileCamber,
	"full camber":           types.ProfileCamber,
	"traditional camber":    types.ProfileCamber,
	"positive camber":       types.ProfileCamber,
	"true camber":           types.ProfileCamber,
	"pure camber":           types.ProfileCamber,
	"directional camber":    types.ProfileCamber,
	"purepop camber":        types.ProfileCamber,
	"purepop":               types.ProfileCamber,
	"micro camber":          types.ProfileCamber,
	"mini camber":           types.ProfileCamber,
	"low camber":            types.ProfileCamber,
	"c3":                    types.ProfileCamber,
	"c3 btx":                types.ProfileCamber,
	"c3 camber":             types.ProfileCamber,

	// Rocker family.
	"rocker":            types.ProfileRocker,
	"reverse camber":    types.ProfileRocker,
	"continuous rocker": types.ProfileRocker,
	"full rocker":       types.ProfileRocker,
	"catch free rocker": types.ProfileRocker,
	"surf rocker":       types.ProfileRocker,
	"powder rocker":     types.ProfileRocker,

	// Flat family.
	"flat":                 types.ProfileFlat,
	"flat top":             types.ProfileFlat,
	"flat top bend":        types.ProfileFlat,
	"directional flat top": types.ProfileFlat,
	"true flat":            types.ProfileFlat,
	"flat profile":         types.ProfileFlat,
	"zero camber":          types.ProfileFlat,

	// Camber-dominant hybrids.
	"c2":                      types.ProfileHybridCamber,
	"c2x":                     types.ProfileHybridCamber,
	"c2e":                     types.ProfileHybridCamber,
	"hybrid camber":           types.ProfileHybridCamber,
	"camrock":                 types.ProfileHybridCamber,
	"cam rock":                types.ProfileHybridCamber,
	"cam-rock":                types.ProfileHybridCamber,
	"combination camber":      types.ProfileHybridCamber,
	"camber dominant hybrid":  types.ProfileHybridCamber,
	"directional hybrid":      types.ProfileHybridCamber,
	"camber rocker camber":    types.ProfileHybridCamber,
	"rocker camber rocker":    types.ProfileHybridCamber,
	"camber with tip rocker":  types.ProfileHybridCamber,
	"camber v1":               types.ProfileHybridCamber,
	"camber v2":               types.ProfileHybridCamber,
	"resort v1 profile":       types.ProfileHybridCamber,
	"all mountain v1 profile": types.ProfileHybridCamber,

	// Rocker-dominant hybrids.
	"btx":                    types.ProfileHybridRocker,
	"banana":                 types.ProfileHybridRocker,
	"original banana":        types.ProfileHybridRocker,
	"flying v":               types.ProfileHybridRocker,
	"directional flying v":   types.ProfileHybridRocker,
	"hybrid rocker":          types.ProfileHybridRocker,
	"rocker dominant hybrid": types.ProfileHybridRocker,
	"flat to rocker":         types.ProfileHybridRocker,
	"gullwing":               types.ProfileHybridRocker,
	"w rocker":               types.ProfileHybridRocker,
	"v rocker":               types.ProfileHybridRocker,
}

// Profile maps a free-form bend description to the profile enum.
// Lookup order: exact alias, then rocker+camber co-presence (first word
// wins the hybrid direction), then bare substring in camber, rocker,
// flat order.
func Profile(raw string) (types.Profile, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	if p, ok := profileAliases[s]; ok {
		return p, true
	}

	rocker := strings.Index(s, "rocker")
	camber := strings.Index(s, "camber")
	if rocker >= 0 && camber >= 0 {
		if rocker < camber {
			return types.ProfileHybridRocker, true
		}
		return types.ProfileHybridCamber, true
	}

	switch {
	case camber >= 0:
		return types.ProfileCamber, true
	case rocker >= 0:
		return types.ProfileRocker, true
	case strings.Contains(s, "flat"):
		return types.ProfileFlat, true
	}
	return "", false
}
