package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/review"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// runResolve re-runs the resolver over every stored board without touching
// the network, then persists the refreshed specs. Snapshots are bypassed
// and rewritten.
func (p *Pipeline) runResolve(ctx context.Context, scope types.SearchScope) (*types.RunResult, error) {
	start := p.now()

	boards, err := p.store.ListBoards()
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	p.logger.Info("Re-resolving stored boards", zap.Int("boards", len(boards)))

	if err := p.resolveStored(ctx, boards, true); err != nil {
		return nil, err
	}

	run := p.bookkeep(start, scope, len(boards), 0)
	if err := p.store.InsertSearchRun(&run); err != nil {
		return nil, fmt.Errorf("insert search run: %w", err)
	}
	return p.assembleStored(run, boards, nil)
}

// runReviewSites refreshes review-site provenance for boards already on
// record, then re-resolves them. The enricher's output is coalesced only
// for its provenance rows; boards and listings come from the store.
func (p *Pipeline) runReviewSites(ctx context.Context, scope types.SearchScope) (*types.RunResult, error) {
	start := p.now()

	boards, err := p.store.ListBoards()
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	var errs []types.RunError
	if len(boards) > 0 {
		targets := reviewTargets(boards)
		enricher := review.NewEnricher(p.fetcher, p.cache, p.delay, p.logger, targets)
		got, err := enricher.Scrape(ctx, &scope)
		if err != nil {
			errs = append(errs, types.RunError{Scraper: enricher.Name(), Message: err.Error()})
		}
		if len(got) > 0 {
			if _, err := p.coal.Coalesce(got, p.store); err != nil {
				return nil, fmt.Errorf("coalesce review records: %w", err)
			}
		}
	}

	if err := p.resolveStored(ctx, boards, false); err != nil {
		return nil, err
	}

	run := p.bookkeep(start, scope, len(boards), 0)
	if err := p.store.InsertSearchRun(&run); err != nil {
		return nil, fmt.Errorf("insert search run: %w", err)
	}
	return p.assembleStored(run, boards, errs)
}

// resolveStored resolves and upserts boards loaded from the store.
func (p *Pipeline) resolveStored(ctx context.Context, boards []types.Board, force bool) error {
	for i := range boards {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.resolveBoard(&boards[i], force); err != nil {
			return err
		}
		if err := p.store.UpsertBoard(&boards[i]); err != nil {
			return fmt.Errorf("upsert board %s: %w", boards[i].Key, err)
		}
	}
	return nil
}

// reviewTargets collapses stored boards to distinct (brand, model) pairs.
func reviewTargets(boards []types.Board) []review.Target {
	seen := make(map[string]bool, len(boards))
	var targets []review.Target
	for _, b := range boards {
		pair := strings.ToLower(b.Brand) + "|" + strings.ToLower(b.Model)
		if seen[pair] {
			continue
		}
		seen[pair] = true
		targets = append(targets, review.Target{Brand: b.Brand, Model: b.Model})
	}
	return targets
}

func (p *Pipeline) bookkeep(start time.Time, scope types.SearchScope, boardCount, retailers int) types.SearchRun {
	return types.SearchRun{
		ID:               p.newID(),
		Timestamp:        start.UTC(),
		ConstraintsJSON:  scopeJSON(scope),
		BoardCount:       boardCount,
		RetailersQueried: retailers,
		DurationMs:       p.now().Sub(start).Milliseconds(),
	}
}

// assembleStored builds the reply from stored boards, loading each board's
// listings back out of the store.
func (p *Pipeline) assembleStored(run types.SearchRun, boards []types.Board, errs []types.RunError) (*types.RunResult, error) {
	out := &types.RunResult{Run: run, Errors: errs}
	for _, b := range boards {
		listings, err := p.store.ListingsForBoard(b.Key)
		if err != nil {
			return nil, fmt.Errorf("listings for %s: %w", b.Key, err)
		}
		out.Boards = append(out.Boards, types.BoardWithListings{Board: b, Listings: listings})
	}
	return out, nil
}
