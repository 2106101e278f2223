package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitegraph/internal/config"
	"github.com/nao1215/sitegraph/internal/crawler"
	"github.com/nao1215/sitegraph/internal/log"
	"github.com/nao1215/sitegraph/internal/model"
	"github.com/nao1215/sitegraph/internal/pipeline"
	"github.com/nao1215/sitegraph/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url> [url...]",
		Short: "Crawl a website and report its link structure and broken links",
		Long: `Crawl traverses a website breadth-first from the seed URL, following
internal links only, and builds the directed link graph.

Every page that returns HTTP 404 is recorded together with the traversal
path that reached it, and the records are written to a 404 log file.
Completed crawls are saved to a local database for later rendering with
"sitegraph map" and "sitegraph export".

Examples:
  # Crawl a site and print a summary
  sitegraph crawl https://example.com

  # Stop at the first broken link (skips the 404 log and the database)
  sitegraph crawl --stop-on-404 https://example.com

  # Crawl multiple sites concurrently
  sitegraph crawl -b 4 https://a.example.com https://b.example.com

  # Output a Markdown report to a file
  sitegraph crawl -m -o report.md https://example.com

Configuration file (.sitegraph) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Request timeout for each page fetch")
	cmd.Flags().Bool("stop-on-404", false,
		"Stop crawling at the first 404 and skip the 404 log and database")
	cmd.Flags().String("error-log", config.DefaultErrorLogFile,
		"File path for the 404 log")

	// Batch crawling flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent crawls when multiple seeds are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitegraph in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.StopOnFirst404, err = cmd.Flags().GetBool("stop-on-404")
	if err != nil {
		return nil, err
	}

	cfg.ErrorLogPath, err = cmd.Flags().GetString("error-log")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Get positional arguments (seed URLs)
	cfg.Seeds = args

	return cfg, nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seeds", cfg.Seeds,
		"batchSize", cfg.BatchSize,
		"stopOnFirst404", cfg.StopOnFirst404,
	)

	// Use batch processor for parallel crawling if multiple seeds
	if len(cfg.Seeds) > 1 && cfg.BatchSize > 1 {
		return runBatchCrawl(ctx, cfg, logger)
	}

	// Single seed or sequential crawling
	return runSequentialCrawl(ctx, cfg, logger)
}

// runSequentialCrawl crawls seeds one at a time.
func runSequentialCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	for _, seed := range cfg.Seeds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Get site-specific configuration
		siteConfig := getSiteConfig(cfg, seed)

		// Create pipeline with site-specific options
		p := createPipelineForSeed(cfg, siteConfig, logger)

		crawlReport := model.NewCrawlReport(model.Normalize(seed))

		fmt.Printf("Crawling %s...\n", seed)
		startTime := time.Now()

		// Execute the pipeline
		if err := p.Execute(ctx, crawlReport); err != nil {
			logger.Error("crawl failed", "seed", seed, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", seed, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Crawl completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, crawlReport); err != nil {
			logger.Error("report failed", "seed", seed, "error", err)
		}
	}

	return nil
}

// runBatchCrawl crawls multiple seeds concurrently using BatchProcessor.
func runBatchCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	fmt.Printf("Starting batch crawl of %d seeds (concurrency: %d)...\n\n",
		len(cfg.Seeds), cfg.BatchSize)

	startTime := time.Now()

	// Warn user about batch processing limitation
	if cfg.SiteConfigs != nil && len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch processing uses default site config only; site-specific configs (cookies, headers) are ignored",
			"siteCount", len(cfg.SiteConfigs.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use sequential mode (--batch 1) to apply per-site settings.\n\n")
	}

	// Create batch processor with pipeline factory
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			// Note: For batch processing, we use default site config
			// Site-specific configs would require per-seed pipeline creation
			var siteConfig config.SiteConfig
			if cfg.SiteConfigs != nil {
				siteConfig = cfg.SiteConfigs.Defaults
			}
			return createPipelineForSeed(cfg, siteConfig, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Seeds, func(rep *model.CrawlReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Crawl completed: %s\n", index+1, len(cfg.Seeds), rep.Seed)

		// Generate and output report
		if err := outputReport(cfg, rep); err != nil {
			logger.Error("report failed", "seed", rep.Seed, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch crawl completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// getSiteConfig returns the site-specific configuration for a seed URL.
// Falls back to defaults if no site-specific config exists.
func getSiteConfig(cfg *config.Config, seed string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}
	return cfg.SiteConfigs.GetSiteConfig(model.URL(seed).Host())
}

// createPipelineForSeed creates a crawl pipeline with the given configuration.
// The pipeline runs the traversal, writes the 404 log, and persists the
// crawl; the latter two steps skip themselves for early-stopped crawls.
func createPipelineForSeed(cfg *config.Config, siteConfig config.SiteConfig, logger *slog.Logger) *pipeline.Pipeline {
	fetcherOpts := []crawler.FetcherOption{
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithUserAgent(cfg.UserAgent),
	}
	if cfg.MaxBodySize > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithMaxBodySize(cfg.MaxBodySize))
	}
	if siteConfig.Cookie != "" {
		fetcherOpts = append(fetcherOpts, crawler.WithCookie(siteConfig.Cookie))
	}
	if len(siteConfig.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithHeaders(siteConfig.Headers))
	}

	var classifierOpts []crawler.ClassifierOption
	if len(siteConfig.IgnoredExtensions) > 0 {
		classifierOpts = append(classifierOpts,
			crawler.WithIgnoredExtensions(siteConfig.IgnoredExtensions))
	}

	spider := crawler.NewSpider(
		crawler.NewFetcher(fetcherOpts...),
		crawler.NewClassifier(classifierOpts...),
		crawler.WithStopOnFirst404(cfg.StopOnFirst404),
		crawler.WithSpiderLogger(logger),
	)

	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddSteps(
		pipeline.NewCrawlStep(spider),
		pipeline.NewErrorLogStep(report.NewNotFoundLog(cfg.ErrorLogPath),
			pipeline.WithErrorLogLogger(logger)),
		pipeline.NewPersistStep(cfg.DBDir,
			pipeline.WithPersistLogger(logger)),
	)
	return p
}

// outputReport outputs the crawl report in the requested format.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with secure permissions (0600)
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = f.Close() //nolint:errcheck // Best effort cleanup
		}()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output
	if cfg.JSONReport {
		_, err := report.NewJSONWriter(output, report.WithPrettyPrint()).Write(crawlReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		_, err := report.NewMarkdownWriter(output).Write(crawlReport)
		return err
	}

	// Human-readable report (default)
	_, err := report.NewSimpleWriter(output).Write(crawlReport)
	return err
}
