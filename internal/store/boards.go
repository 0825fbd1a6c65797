package store

import (
	"database/sql"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

const boardColumns = `board_key, brand, model, gender, year, flex, profile, shape, category,
	ability_level_min, ability_level_max,
	terrain_piste, terrain_powder, terrain_park, terrain_freeride, terrain_freestyle,
	msrp_usd, manufacturer_url, description, beginner_score, created_at, updated_at`

// UpsertBoard inserts or refreshes a board. created_at survives updates;
// updated_at always moves.
func (s *Store) UpsertBoard(b *types.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertBoard(s.db, b)
}

func upsertBoard(e execer, b *types.Board) error {
	var piste, powder, park, freeride, freestyle interface{}
	if b.Terrain != nil {
		piste, powder, park = b.Terrain.Piste, b.Terrain.Powder, b.Terrain.Park
		freeride, freestyle = b.Terrain.Freeride, b.Terrain.Freestyle
	}

	_, err := e.Exec(
		`INSERT INTO boards (board_key, brand, model, gender, year, flex, profile, shape, category,
			ability_level_min, ability_level_max,
			terrain_piste, terrain_powder, terrain_park, terrain_freeride, terrain_freestyle,
			msrp_usd, manufacturer_url, description, beginner_score, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(board_key) DO UPDATE SET
		 brand = excluded.brand,
		 model = excluded.model,
		 gender = excluded.gender,
		 year = excluded.year,
		 flex = excluded.flex,
		 profile = excluded.profile,
		 shape = excluded.shape,
		 category = excluded.category,
		 ability_level_min = excluded.ability_level_min,
		 ability_level_max = excluded.ability_level_max,
		 terrain_piste = excluded.terrain_piste,
		 terrain_powder = excluded.terrain_powder,
		 terrain_park = excluded.terrain_park,
		 terrain_freeride = excluded.terrain_freeride,
		 terrain_freestyle = excluded.terrain_freestyle,
		 msrp_usd = excluded.msrp_usd,
		 manufacturer_url = excluded.manufacturer_url,
		 description = excluded.description,
		 beginner_score = excluded.beginner_score,
		 updated_at = CURRENT_TIMESTAMP`,
		b.Key, b.Brand, b.Model, string(b.Gender), b.Year, b.Flex,
		enumOrNil(b.Profile), enumOrNil(b.Shape), enumOrNil(b.Category),
		enumOrNil(b.AbilityLevelMin), enumOrNil(b.AbilityLevelMax),
		piste, powder, park, freeride, freestyle,
		b.MSRPUSD, b.ManufacturerURL, b.Description, b.BeginnerScore,
	)
	return err
}

// GetBoard loads one board by key; nil when absent.
func (s *Store) GetBoard(key string) (*types.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+boardColumns+" FROM boards WHERE board_key = ?", key)
	b, err := scanBoard(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBoards returns every board ordered by key.
func (s *Store) ListBoards() ([]types.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT " + boardColumns + " FROM boards ORDER BY board_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []types.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			continue
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// CountBoards returns the number of boards on record.
func (s *Store) CountBoards() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM boards").Scan(&n)
	return n, err
}

// DeleteOrphanBoards removes boards with no listings and reports how many
// went.
func (s *Store) DeleteOrphanBoards() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteOrphanBoards(s.db)
}

func deleteOrphanBoards(e execer) (int64, error) {
	res, err := e.Exec("DELETE FROM boards WHERE board_key NOT IN (SELECT DISTINCT board_key FROM listings)")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBoard(r rowScanner) (types.Board, error) {
	var b types.Board
	var gender string
	var year sql.NullInt64
	var flex, msrp, score sql.NullFloat64
	var profile, shape, category, abilityMin, abilityMax sql.NullString
	var piste, powder, park, freeride, freestyle sql.NullInt64

	err := r.Scan(&b.Key, &b.Brand, &b.Model, &gender, &year, &flex,
		&profile, &shape, &category, &abilityMin, &abilityMax,
		&piste, &powder, &park, &freeride, &freestyle,
		&msrp, &b.ManufacturerURL, &b.Description, &score,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return types.Board{}, err
	}

	b.Gender = types.Gender(gender)
	if year.Valid {
		v := int(year.Int64)
		b.Year = &v
	}
	if flex.Valid {
		b.Flex = &flex.Float64
	}
	if profile.Valid {
		p := types.Profile(profile.String)
		b.Profile = &p
	}
	if shape.Valid {
		v := types.Shape(shape.String)
		b.Shape = &v
	}
	if category.Valid {
		v := types.Category(category.String)
		b.Category = &v
	}
	if abilityMin.Valid {
		v := types.Ability(abilityMin.String)
		b.AbilityLevelMin = &v
	}
	if abilityMax.Valid {
		v := types.Ability(abilityMax.String)
		b.AbilityLevelMax = &v
	}
	if piste.Valid || powder.Valid || park.Valid || freeride.Valid || freestyle.Valid {
		b.Terrain = &types.TerrainScores{
			Piste:     int(piste.Int64),
			Powder:    int(powder.Int64),
			Park:      int(park.Int64),
			Freeride:  int(freeride.Int64),
			Freestyle: int(freestyle.Int64),
		}
	}
	if msrp.Valid {
		b.MSRPUSD = &msrp.Float64
	}
	if score.Valid {
		b.BeginnerScore = &score.Float64
	}
	return b, nil
}
