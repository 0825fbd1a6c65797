package store

import (
	"database/sql"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

const listingColumns = `id, board_key, run_id, retailer, region, url, image_url,
	length_cm, width_mm, original_price, sale_price, currency,
	original_price_usd, sale_price_usd, discount_percent,
	availability, condition, gender, stock_count, combo_contents, scraped_at`

// InsertListing writes one listing. The deterministic id makes re-scrapes
// of the same offer replace the previous row.
func (s *Store) InsertListing(l *types.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertListing(s.db, l)
}

func insertListing(e execer, l *types.Listing) error {
	_, err := e.Exec(
		`INSERT OR REPLACE INTO listings (id, board_key, run_id, retailer, region, url, image_url,
			length_cm, width_mm, original_price, sale_price, currency,
			original_price_usd, sale_price_usd, discount_percent,
			availability, condition, gender, stock_count, combo_contents, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.BoardKey, nullIfEmpty(l.RunID), l.Retailer, l.Region, l.URL, l.ImageURL,
		l.LengthCm, l.WidthMm, l.OriginalPrice, l.SalePrice, l.Currency,
		l.OriginalPriceUSD, l.SalePriceUSD, l.DiscountPercent,
		string(l.Availability), string(l.Condition), string(l.Gender),
		l.StockCount, l.ComboContents, l.ScrapedAt.UTC(),
	)
	return err
}

// ListingsForBoard returns a board's listings, cheapest first.
func (s *Store) ListingsForBoard(boardKey string) ([]types.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryListings("SELECT "+listingColumns+" FROM listings WHERE board_key = ? ORDER BY sale_price_usd ASC", boardKey)
}

// ListingsForRun returns every listing a run produced.
func (s *Store) ListingsForRun(runID string) ([]types.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryListings("SELECT "+listingColumns+" FROM listings WHERE run_id = ? ORDER BY board_key, id", runID)
}

// CountListings returns the number of listings on record.
func (s *Store) CountListings() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM listings").Scan(&n)
	return n, err
}

func (s *Store) queryListings(query string, args ...interface{}) ([]types.Listing, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []types.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			continue
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func scanListing(r rowScanner) (types.Listing, error) {
	var l types.Listing
	var runID sql.NullString
	var lengthCm, widthMm, origPrice, salePrice, origUSD, saleUSD sql.NullFloat64
	var discount, stock sql.NullInt64
	var availability, condition, gender string
	var scrapedAt sql.NullTime

	err := r.Scan(&l.ID, &l.BoardKey, &runID, &l.Retailer, &l.Region, &l.URL, &l.ImageURL,
		&lengthCm, &widthMm, &origPrice, &salePrice, &l.Currency,
		&origUSD, &saleUSD, &discount,
		&availability, &condition, &gender, &stock, &l.ComboContents, &scrapedAt)
	if err != nil {
		return types.Listing{}, err
	}

	l.RunID = runID.String
	if lengthCm.Valid {
		l.LengthCm = &lengthCm.Float64
	}
	if widthMm.Valid {
		l.WidthMm = &widthMm.Float64
	}
	if origPrice.Valid {
		l.OriginalPrice = &origPrice.Float64
	}
	if salePrice.Valid {
		l.SalePrice = &salePrice.Float64
	}
	if origUSD.Valid {
		l.OriginalPriceUSD = &origUSD.Float64
	}
	if saleUSD.Valid {
		l.SalePriceUSD = &saleUSD.Float64
	}
	if discount.Valid {
		v := int(discount.Int64)
		l.DiscountPercent = &v
	}
	if stock.Valid {
		v := int(stock.Int64)
		l.StockCount = &v
	}
	l.Availability = types.Availability(availability)
	l.Condition = types.Condition(condition)
	l.Gender = types.Gender(gender)
	if scrapedAt.Valid {
		l.ScrapedAt = scrapedAt.Time
	}
	return l, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
