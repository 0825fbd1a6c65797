package scrape

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// Run fans the scrapers out with at most limit in flight and joins their
// output. Adapter failures land in the returned error list, never abort the
// batch; the context only cancels through the caller.
func Run(ctx context.Context, scrapers []Scraper, scope *types.SearchScope, limit int, logger *zap.Logger) ([]*types.ScrapedBoard, []types.RunError) {
	if limit <= 0 {
		limit = 1
	}

	var (
		mu     sync.Mutex
		boards []*types.ScrapedBoard
		errs   []types.RunError
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, s := range scrapers {
		s := s
		g.Go(func() error {
			logger.Info("Scraper started", zap.String("scraper", s.Name()))
			got, err := s.Scrape(ctx, scope)
			if err != nil {
				logger.Warn("Scraper failed",
					zap.String("scraper", s.Name()),
					zap.Error(err))
			} else {
				logger.Info("Scraper finished",
					zap.String("scraper", s.Name()),
					zap.Int("boards", len(got)))
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, types.RunError{Scraper: s.Name(), Message: err.Error()})
			}
			// Partial output still counts; an adapter that failed midway
			// keeps what it collected before the error.
			boards = append(boards, got...)
			return nil
		})
	}
	_ = g.Wait()
	return boards, errs
}

// RetailerListings counts listings contributed by retailer sources; the seed
// fallback keys off this being zero.
func RetailerListings(boards []*types.ScrapedBoard) int {
	n := 0
	for _, sb := range boards {
		if types.SourceType(sb.Source) == types.SourceTypeRetailer {
			n += len(sb.Listings)
		}
	}
	return n
}
