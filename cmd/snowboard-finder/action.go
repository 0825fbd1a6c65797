package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/browser"
	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
	"github.com/ryanrhee/snowboard-db-sub000/internal/pipeline"
	"github.com/ryanrhee/snowboard-db-sub000/internal/store"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// actionRequest is the debug-surface document {action, ...params}. The
// scope fields belong to run, the crawl options to slow-scrape;
// scrape-status takes none.
type actionRequest struct {
	Action string `json:"action" validate:"required"`
	types.SearchScope
	pipeline.SlowScrapeOptions
}

// Older operator scripts used task-specific action names; they all ran the
// same pipeline.
var legacyActions = map[string]string{
	"metadata-check":    "run",
	"run-full":          "run",
	"full-pipeline":     "run",
	"scrape-specs":      "run",
	"run-manufacturers": "run",
}

func parseAction(raw []byte) (*actionRequest, error) {
	var req actionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("failed to parse action document: %w", err)
	}
	if canonical, ok := legacyActions[req.Action]; ok {
		req.Action = canonical
	}
	if err := validator.New().Struct(&req); err != nil {
		return nil, fmt.Errorf("invalid action document: %w", err)
	}
	return &req, nil
}

func runAction(ctx context.Context, raw []byte) error {
	req, err := parseAction(raw)
	if err != nil {
		return err
	}
	switch req.Action {
	case "run":
		return executeRun(ctx, req.SearchScope)
	case "slow-scrape":
		return executeSlowScrape(ctx, req.SlowScrapeOptions)
	case "scrape-status":
		return executeStatus()
	default:
		return fmt.Errorf("unknown action %q", req.Action)
	}
}

// buildPipeline opens both databases and the browser pool. The cleanup
// must run after the pipeline finishes, including on signal cancellation,
// so the pool drains its contexts.
func buildPipeline() (*pipeline.Pipeline, func(), error) {
	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	cache, err := store.OpenCache(cfg.CacheDBPath, logger)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if err := store.MigrateLegacyCache(st, cache, logger); err != nil {
		logger.Warn("Legacy cache migration failed", zap.Error(err))
	}

	pool := browser.NewPool(cfg.BrowserTimeout(), logger)
	p := pipeline.New(pipeline.Deps{
		Store:                  st,
		Cache:                  cache,
		Client:                 fetch.New(cfg.PlainTimeout(), logger),
		Pool:                   pool,
		Rates:                  cfg.CurrencyRates(),
		Delay:                  cfg.ScrapeDelay(),
		MaxConcurrentRetailers: cfg.MaxConcurrentRetailers,
		Logger:                 logger,
	})

	cleanup := func() {
		pool.Shutdown()
		if err := cache.Close(); err != nil {
			logger.Warn("Cache close failed", zap.Error(err))
		}
		if err := st.Close(); err != nil {
			logger.Warn("Store close failed", zap.Error(err))
		}
	}
	return p, cleanup, nil
}

func executeRun(ctx context.Context, scope types.SearchScope) error {
	p, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := p.Run(ctx, scope)
	if err != nil {
		return err
	}
	return emit(res)
}

func executeSlowScrape(ctx context.Context, opts pipeline.SlowScrapeOptions) error {
	p, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := p.SlowScrape(ctx, opts)
	if err != nil {
		return err
	}
	return emit(res)
}

func executeStatus() error {
	p, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := p.Status()
	if err != nil {
		return err
	}
	return emit(report)
}

// emit writes the reply document to stdout.
func emit(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
