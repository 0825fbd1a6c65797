package types

import "time"

// Spec field names as stored in spec_sources. Terrain scores are one row
// per terrain under the terrain_ prefix.
const (
	FieldFlex         = "flex"
	FieldProfile      = "profile"
	FieldShape        = "shape"
	FieldCategory     = "category"
	FieldAbilityLevel = "abilityLevel"
)

// TerrainFields lists the per-terrain spec_sources field names in the same
// order as TerrainScores.
var TerrainFields = []string{
	"terrain_piste",
	"terrain_powder",
	"terrain_park",
	"terrain_freeride",
	"terrain_freestyle",
}

// SpecSource is one provenance row: one source's claim about one field of
// one board. (BoardKey, Field, Source) is the row identity; a newer claim
// from the same source replaces the old one.
type SpecSource struct {
	BoardKey  string    `json:"boardKey"`
	Field     string    `json:"field"`
	Source    string    `json:"source"`
	Value     string    `json:"value"`
	SourceURL string    `json:"sourceUrl,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
