package coalesce

import "github.com/ryanrhee/snowboard-db-sub000/internal/types"

// terrainByCategory supplies default terrain scores when a source says
// nothing about terrain. A category scores 3 on its home terrain and
// tapers off elsewhere.
var terrainByCategory = map[types.Category]types.TerrainScores{
	types.CategoryAllMountain: {Piste: 3, Powder: 1, Park: 2, Freeride: 2, Freestyle: 2},
	types.CategoryFreestyle:   {Piste: 2, Powder: 0, Park: 3, Freeride: 1, Freestyle: 3},
	types.CategoryPark:        {Piste: 1, Powder: 0, Park: 3, Freeride: 0, Freestyle: 3},
	types.CategoryFreeride:    {Piste: 2, Powder: 2, Park: 0, Freeride: 3, Freestyle: 1},
	types.CategoryPowder:      {Piste: 1, Powder: 3, Park: 0, Freeride: 3, Freestyle: 1},
}

// terrainValues flattens scores in types.TerrainFields order.
func terrainValues(s types.TerrainScores) []int {
	return []int{s.Piste, s.Powder, s.Park, s.Freeride, s.Freestyle}
}
