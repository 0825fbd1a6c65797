// Package resolve adjudicates provenance rows into final board specs. Each
// field resolves independently: the highest-priority source wins, and the
// agreement flag records whether anyone dissented after normalization.
package resolve

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/normalize"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// Resolution is the outcome for one field of one board.
type Resolution struct {
	Value     string   `json:"resolved"`
	Source    string   `json:"resolvedSource"`
	Agreement bool     `json:"agreement"`
	Sources   []string `json:"sources"`
}

// Disagreement records a manufacturer claim contradicted by independent
// consensus. Historically fed an adjudication channel; now it is only
// surfaced to the optional callback and the log.
type Disagreement struct {
	BoardKey          string
	Field             string
	ManufacturerValue string
	ConsensusValue    string
}

// Resolver turns spec_sources rows into board spec values.
type Resolver struct {
	logger *zap.Logger

	// OnDisagreement, when set, receives manufacturer-vs-consensus
	// conflicts as they are detected.
	OnDisagreement func(Disagreement)
}

func New(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Priority ranks a source for adjudication. Manufacturers outrank review
// sites and the judgment channel, which outrank retailers.
func Priority(source string) int {
	switch types.SourceType(source) {
	case types.SourceTypeManufacturer:
		return 4
	case types.SourceTypeReviewSite, "judgment":
		return 3
	case types.SourceTypeRetailer:
		return 2
	case "llm":
		return 1
	default:
		return 0
	}
}

// ResolveField adjudicates one field from its provenance rows. Rows sort by
// priority descending (source name breaks ties, keeping the result stable)
// and the top row resolves.
func (r *Resolver) ResolveField(boardKey, field string, rows []types.SpecSource) Resolution {
	if len(rows) == 0 {
		return Resolution{}
	}
	sorted := make([]types.SpecSource, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := Priority(sorted[i].Source), Priority(sorted[j].Source)
		if pi != pj {
			return pi > pj
		}
		return sorted[i].Source < sorted[j].Source
	})

	res := Resolution{
		Value:     normalizeValue(field, sorted[0].Value),
		Source:    sorted[0].Source,
		Agreement: true,
	}
	seen := make(map[string]bool)
	for _, row := range sorted {
		if normalizeValue(field, row.Value) != res.Value {
			res.Agreement = false
		}
		if !seen[row.Source] {
			seen[row.Source] = true
			res.Sources = append(res.Sources, row.Source)
		}
	}

	r.checkDisagreement(boardKey, field, sorted)
	return res
}

func (r *Resolver) checkDisagreement(boardKey, field string, rows []types.SpecSource) {
	manuVal, hasManu := "", false
	for _, row := range rows {
		if types.SourceType(row.Source) == types.SourceTypeManufacturer {
			manuVal, hasManu = normalizeValue(field, row.Value), true
			break
		}
	}
	if !hasManu {
		return
	}
	cv, ok := consensus(field, rows)
	if !ok || cv == manuVal {
		return
	}
	d := Disagreement{
		BoardKey:          boardKey,
		Field:             field,
		ManufacturerValue: manuVal,
		ConsensusValue:    cv,
	}
	if r.OnDisagreement != nil {
		r.OnDisagreement(d)
	}
	r.logger.Debug("Spec disagreement",
		zap.String("board_key", boardKey),
		zap.String("field", field),
		zap.String("manufacturer", manuVal),
		zap.String("consensus", cv))
}

// consensus finds a value backed by at least two distinct sources, counting
// only sources that are neither the manufacturer nor an opinion channel.
func consensus(field string, rows []types.SpecSource) (string, bool) {
	backers := make(map[string]map[string]bool)
	for _, row := range rows {
		switch types.SourceType(row.Source) {
		case types.SourceTypeManufacturer, "llm", "judgment":
			continue
		}
		v := normalizeValue(field, row.Value)
		if backers[v] == nil {
			backers[v] = make(map[string]bool)
		}
		backers[v][row.Source] = true
	}
	best, bestN := "", 0
	for v, srcs := range backers {
		if n := len(srcs); n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	if bestN < 2 {
		return "", false
	}
	return best, true
}

// normalizeValue maps a raw claim onto the comparable form for its field.
// Flex compares after rounding to the nearest integer; enums compare by
// their canonical spelling; anything unrecognized compares lowercased.
func normalizeValue(field, raw string) string {
	switch field {
	case types.FieldFlex:
		if v, ok := normalize.Flex(raw); ok {
			return strconv.Itoa(int(math.Round(v)))
		}
	case types.FieldProfile:
		if p, ok := normalize.Profile(raw); ok {
			return string(p)
		}
	case types.FieldShape:
		if s, ok := normalize.Shape(raw); ok {
			return string(s)
		}
	case types.FieldCategory:
		if c, ok := normalize.Category(raw, ""); ok {
			return string(c)
		}
	case types.FieldAbilityLevel:
		if min, max := normalize.AbilityRange(raw); min != nil {
			if *min == *max {
				return string(*min)
			}
			return string(*min) + "-" + string(*max)
		}
	default:
		if strings.HasPrefix(field, "terrain_") {
			if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				if v < 0 {
					v = 0
				}
				if v > 3 {
					v = 3
				}
				return strconv.Itoa(v)
			}
		}
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// ResolveBoard fills b's spec fields from its provenance rows and computes
// the beginner score. Returns the per-field resolutions keyed by field.
func (r *Resolver) ResolveBoard(b *types.Board, rows []types.SpecSource) map[string]Resolution {
	byField := make(map[string][]types.SpecSource)
	for _, row := range rows {
		byField[row.Field] = append(byField[row.Field], row)
	}
	fields := make([]string, 0, len(byField))
	for f := range byField {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make(map[string]Resolution, len(byField))
	for _, field := range fields {
		res := r.ResolveField(b.Key, field, byField[field])
		out[field] = res
		apply(b, field, res)
	}
	b.BeginnerScore = BeginnerScore(b)
	return out
}

func apply(b *types.Board, field string, res Resolution) {
	if res.Value == "" {
		return
	}
	switch field {
	case types.FieldFlex:
		if v, err := strconv.ParseFloat(res.Value, 64); err == nil {
			b.Flex = &v
		}
	case types.FieldProfile:
		switch p := types.Profile(res.Value); p {
		case types.ProfileCamber, types.ProfileRocker, types.ProfileFlat,
			types.ProfileHybridCamber, types.ProfileHybridRocker:
			b.Profile = &p
		}
	case types.FieldShape:
		switch s := types.Shape(res.Value); s {
		case types.ShapeTrueTwin, types.ShapeDirectionalTwin,
			types.ShapeDirectional, types.ShapeTapered:
			b.Shape = &s
		}
	case types.FieldCategory:
		switch c := types.Category(res.Value); c {
		case types.CategoryAllMountain, types.CategoryFreestyle,
			types.CategoryFreeride, types.CategoryPowder, types.CategoryPark:
			b.Category = &c
		}
	case types.FieldAbilityLevel:
		if min, max := normalize.AbilityRange(res.Value); min != nil {
			b.AbilityLevelMin, b.AbilityLevelMax = min, max
		}
	default:
		if strings.HasPrefix(field, "terrain_") {
			if v, err := strconv.Atoi(res.Value); err == nil {
				if b.Terrain == nil {
					b.Terrain = &types.TerrainScores{}
				}
				setTerrain(b.Terrain, field, v)
			}
		}
	}
}

func setTerrain(t *types.TerrainScores, field string, v int) {
	switch field {
	case "terrain_piste":
		t.Piste = v
	case "terrain_powder":
		t.Powder = v
	case "terrain_park":
		t.Park = v
	case "terrain_freeride":
		t.Freeride = v
	case "terrain_freestyle":
		t.Freestyle = v
	}
}
