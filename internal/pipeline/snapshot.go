package pipeline

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/store"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// resolvedSpecs is the JSON shape cached in spec_cache rows. Only resolver
// output belongs here; commercial fields stay live.
type resolvedSpecs struct {
	Flex            *float64             `json:"flex,omitempty"`
	Profile         *types.Profile       `json:"profile,omitempty"`
	Shape           *types.Shape         `json:"shape,omitempty"`
	Category        *types.Category      `json:"category,omitempty"`
	AbilityLevelMin *types.Ability       `json:"abilityLevelMin,omitempty"`
	AbilityLevelMax *types.Ability       `json:"abilityLevelMax,omitempty"`
	Terrain         *types.TerrainScores `json:"terrainScores,omitempty"`
	BeginnerScore   *float64             `json:"beginnerScore,omitempty"`
}

// resolveBoard fills b's spec fields from its provenance rows, reusing the
// cached resolution when the rows have not changed since it was computed.
// force skips the reuse, for the resolve mode whose whole point is a fresh
// pass. Snapshot trouble never fails the board; the resolver just runs.
func (p *Pipeline) resolveBoard(b *types.Board, force bool) error {
	rows, err := p.store.SpecSourcesForBoard(b.Key)
	if err != nil {
		return fmt.Errorf("load spec sources for %s: %w", b.Key, err)
	}
	hash := store.SourcesHash(rows)

	if !force {
		snap, err := p.store.GetSpecSnapshot(b.Key)
		if err != nil {
			p.logger.Warn("Spec snapshot read failed",
				zap.String("board", b.Key), zap.Error(err))
		} else if snap != nil && snap.SourcesHash == hash && applySnapshot(b, snap.ResolvedJSON) {
			p.logger.Debug("Reused spec snapshot", zap.String("board", b.Key))
			return nil
		}
	}

	p.resolver.ResolveBoard(b, rows)

	raw, err := json.Marshal(specsFrom(b))
	if err != nil {
		p.logger.Warn("Spec snapshot encode failed",
			zap.String("board", b.Key), zap.Error(err))
		return nil
	}
	if err := p.store.UpsertSpecSnapshot(store.SpecSnapshot{
		BoardKey:     b.Key,
		SourcesHash:  hash,
		ResolvedJSON: string(raw),
	}); err != nil {
		p.logger.Warn("Spec snapshot write failed",
			zap.String("board", b.Key), zap.Error(err))
	}
	return nil
}

// applySnapshot copies a cached resolution onto the board. A snapshot that
// fails to decode reports false so the resolver runs fresh.
func applySnapshot(b *types.Board, raw string) bool {
	var specs resolvedSpecs
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return false
	}
	b.Flex = specs.Flex
	b.Profile = specs.Profile
	b.Shape = specs.Shape
	b.Category = specs.Category
	b.AbilityLevelMin = specs.AbilityLevelMin
	b.AbilityLevelMax = specs.AbilityLevelMax
	b.Terrain = specs.Terrain
	b.BeginnerScore = specs.BeginnerScore
	return true
}

func specsFrom(b *types.Board) resolvedSpecs {
	return resolvedSpecs{
		Flex:            b.Flex,
		Profile:         b.Profile,
		Shape:           b.Shape,
		Category:        b.Category,
		AbilityLevelMin: b.AbilityLevelMin,
		AbilityLevelMax: b.AbilityLevelMax,
		Terrain:         b.Terrain,
		BeginnerScore:   b.BeginnerScore,
	}
}
