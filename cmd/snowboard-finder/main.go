// Command snowboard-finder scrapes retailer and manufacturer sites,
// reconciles what they say about each board, and persists canonical boards
// with their listings and spec provenance.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/config"
	"github.com/ryanrhee/snowboard-db-sub000/internal/logging"
	"github.com/ryanrhee/snowboard-db-sub000/internal/pipeline"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

var (
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "snowboard-finder",
	Short: "Snowboard market database builder",
	Long: `snowboard-finder runs a reconciliation pipeline over snowboard shops,
manufacturer catalogs and a review site: scraped records are identified,
merged onto canonical boards, and every spec claim is adjudicated by source
priority before persisting.

The reply is JSON on stdout; logs go to stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	runSites         []string
	runRetailers     []string
	runManufacturers []string
	runRegions       []string
	runFrom          string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one pipeline pass",
	Long: `Runs the scrape, coalesce, resolve, persist pipeline and prints the
{run, boards, errors} reply. --from selects a partial mode: review-sites
refreshes review provenance for stored boards, resolve re-runs the resolver
without touching the network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := types.SearchScope{From: runFrom}
		// An untouched flag means "all"; scope distinguishes nil from empty.
		if cmd.Flags().Changed("sites") {
			scope.Sites = runSites
		}
		if cmd.Flags().Changed("retailers") {
			scope.Retailers = runRetailers
		}
		if cmd.Flags().Changed("manufacturers") {
			scope.Manufacturers = runManufacturers
		}
		if cmd.Flags().Changed("regions") {
			scope.Regions = runRegions
		}
		return executeRun(cmd.Context(), scope)
	},
}

var (
	slowDelayMs  int
	slowMaxPages int
	slowSystem   bool
)

var slowScrapeCmd = &cobra.Command{
	Use:   "slow-scrape",
	Short: "Prime the HTTP cache at a crawl pace",
	Long: `Walks each retailer's category pages with a long delay between
requests, filling the HTTP cache so a later run is cache-hot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeSlowScrape(cmd.Context(), pipeline.SlowScrapeOptions{
			DelayMs:         slowDelayMs,
			MaxPages:        slowMaxPages,
			UseSystemChrome: slowSystem,
		})
	},
}

var scrapeStatusCmd = &cobra.Command{
	Use:   "scrape-status",
	Short: "Report cache coverage per retailer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeStatus()
	},
}

var actionCmd = &cobra.Command{
	Use:   "action [json]",
	Short: "Execute one JSON action document",
	Long: `Accepts {"action": ..., ...params} as the argument or on stdin and
dispatches it. Actions: run, slow-scrape, scrape-status. Legacy action
names (metadata-check, run-full, full-pipeline, scrape-specs,
run-manufacturers) all map to run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		if len(args) == 1 {
			raw = []byte(args[0])
		} else {
			var err error
			raw, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
		}
		return runAction(cmd.Context(), raw)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "Config file path")

	runCmd.Flags().StringSliceVar(&runSites, "sites", nil, "Exact scraper names to run")
	runCmd.Flags().StringSliceVar(&runRetailers, "retailers", nil, "Retailers to include")
	runCmd.Flags().StringSliceVar(&runManufacturers, "manufacturers", nil, "Manufacturers to include")
	runCmd.Flags().StringSliceVar(&runRegions, "regions", nil, "Regions to include (us, kr)")
	runCmd.Flags().StringVar(&runFrom, "from", "", "Pipeline mode: scrape, review-sites or resolve")

	slowScrapeCmd.Flags().IntVar(&slowDelayMs, "delay-ms", 0, "Delay between requests in ms (default 8000)")
	slowScrapeCmd.Flags().IntVar(&slowMaxPages, "max-pages", 0, "Stop after this many pages (0 = unlimited)")
	slowScrapeCmd.Flags().BoolVar(&slowSystem, "use-system-chrome", false, "Use the host Chrome instead of the managed browser")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(slowScrapeCmd)
	rootCmd.AddCommand(scrapeStatusCmd)
	rootCmd.AddCommand(actionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
