// Package types provides shared type definitions used across the pipeline.
// This package exists to break import cycles between scraping, coalescence,
// and persistence. Types here are foundational data structures with no
// behavior beyond key derivation and simple accessors.
package types

import (
	"strings"
	"time"
)

// Board is one physical snowboard model (a SKU family, independent of size),
// unique within (brand, model, gender). Spec fields stay nil until the
// resolver has chosen a value from the provenance rows.
type Board struct {
	Key             string         `json:"boardKey"`
	Brand           string         `json:"brand"`
	Model           string         `json:"model"`
	Gender          Gender         `json:"gender"`
	Year            *int           `json:"year,omitempty"`
	Flex            *float64       `json:"flex,omitempty"`
	Profile         *Profile       `json:"profile,omitempty"`
	Shape           *Shape         `json:"shape,omitempty"`
	Category        *Category      `json:"category,omitempty"`
	AbilityLevelMin *Ability       `json:"abilityLevelMin,omitempty"`
	AbilityLevelMax *Ability       `json:"abilityLevelMax,omitempty"`
	Terrain         *TerrainScores `json:"terrainScores,omitempty"`
	MSRPUSD         *float64       `json:"msrpUsd,omitempty"`
	ManufacturerURL string         `json:"manufacturerUrl,omitempty"`
	Description     string         `json:"description,omitempty"`
	BeginnerScore   *float64       `json:"beginnerScore,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// BoardKey derives the canonical identity string lower(brand)|lower(model)|gender.
// Callers must pass the normalized model; the key is what ties listings and
// spec provenance to a board, so it has to be byte-stable.
func BoardKey(brand, model string, gender Gender) string {
	return strings.ToLower(brand) + "|" + strings.ToLower(model) + "|" + string(gender)
}

// BoardWithListings is a Board joined to its listings, the reply shape of
// the run action.
type BoardWithListings struct {
	Board
	Listings []Listing `json:"listings"`
}
