package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/sitegraph/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent crawling of multiple seed URLs.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-crawl execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each crawl.
	// We use a factory to ensure each crawl gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent crawls.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed crawl reports.
	// Access is synchronized via mutex.
	results []*model.CrawlReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent crawls.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each crawl to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// crawls and allows for per-crawl customization if needed.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.CrawlReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch crawls multiple seeds concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each seed gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports collected, in the same order as the input seeds,
// even for crawls that failed. The error return indicates if the batch
// was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, seeds []string) ([]*model.CrawlReport, error) {
	bp.logger.Info("starting batch processing",
		"total_seeds", len(seeds),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.CrawlReport, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("crawling seed",
				"seed", seed,
				"index", i+1,
				"total", len(seeds),
			)

			// Create report for this seed
			report := model.NewCrawlReport(model.Normalize(seed))

			// Create and execute pipeline
			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, report)

			// Store result regardless of error
			// The report contains error information if the crawl failed
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("crawl failed",
					"seed", seed,
					"error", err,
				)
				// Don't return error to errgroup - we want to continue other crawls
				// The error is recorded in the report
				return nil
			}

			bp.logger.Info("crawl completed",
				"seed", seed,
			)

			return nil
		})
	}

	// Wait for all crawls to complete
	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch processing complete",
		"total_seeds", len(seeds),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// ProcessBatchWithCallback crawls multiple seeds and calls a callback
// for each completed crawl. This is useful for streaming results.
//
// The callback receives the report and the index of the seed in the
// original slice. The callback is called from the goroutine that completed
// the crawl, so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	seeds []string,
	callback func(report *model.CrawlReport, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_seeds", len(seeds),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewCrawlReport(model.Normalize(seed))
			pipeline := bp.pipelineFactory()
			_ = pipeline.Execute(ctx, report) //nolint:errcheck // Error is stored in report

			// Call the callback with the result
			callback(report, i)

			return nil
		})
	}

	return g.Wait()
}
