package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/sitegraph/internal/crawler"
	"github.com/nao1215/sitegraph/internal/database"
	"github.com/nao1215/sitegraph/internal/model"
	"github.com/nao1215/sitegraph/internal/report"
)

// CrawlStep traverses the site rooted at the report's seed and fills in
// the link graph, status counts, and broken-link records.
//
// Design decision: The spider builds its own report so it stays usable
// without a pipeline; this step copies the result into the pipeline's
// report so subsequent steps observe the crawl outcome.
type CrawlStep struct {
	// spider performs the traversal.
	spider *crawler.Spider
}

// NewCrawlStep creates a crawl step using the given spider.
func NewCrawlStep(spider *crawler.Spider) *CrawlStep {
	return &CrawlStep{spider: spider}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl.
func (s *CrawlStep) Do(ctx context.Context, rep *model.CrawlReport) error {
	result, err := s.spider.Crawl(ctx, string(rep.Seed))
	if result != nil {
		steps := rep.PerformedSteps
		*rep = *result
		rep.PerformedSteps = steps
	}
	if err != nil {
		return fmt.Errorf("crawl of %s failed: %w", rep.Seed, err)
	}
	return nil
}

// ErrorLogStep writes the 404 diagnostic log after a completed crawl.
//
// Early-stopped crawls skip the log entirely: the single 404 that stopped
// the crawl is already in the report, and the run is considered aborted
// rather than completed.
type ErrorLogStep struct {
	// log is the destination file writer.
	log *report.NotFoundLog

	// logger for structured logging.
	logger *slog.Logger
}

// ErrorLogStepOption configures an ErrorLogStep.
type ErrorLogStepOption func(*ErrorLogStep)

// WithErrorLogLogger sets a custom logger for the error log step.
func WithErrorLogLogger(logger *slog.Logger) ErrorLogStepOption {
	return func(s *ErrorLogStep) {
		s.logger = logger
	}
}

// NewErrorLogStep creates an error log step writing to the given log.
func NewErrorLogStep(log *report.NotFoundLog, opts ...ErrorLogStepOption) *ErrorLogStep {
	s := &ErrorLogStep{
		log:    log,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ErrorLogStep) Name() string {
	return "error_log"
}

// Do writes the 404 log unless the crawl was early-stopped.
func (s *ErrorLogStep) Do(_ context.Context, rep *model.CrawlReport) error {
	if rep.EarlyStopped {
		s.logger.Debug("skipping 404 log for early-stopped crawl", "seed", rep.Seed)
		return nil
	}

	if !rep.HasBrokenLinks() {
		return nil
	}

	if err := s.log.Write(rep.NotFound); err != nil {
		return err
	}

	s.logger.Info("404 log written",
		"path", s.log.Path(),
		"records", len(rep.NotFound),
	)
	return nil
}

// PersistStep saves the crawl to the SQLite database.
//
// Early-stopped crawls are not persisted; their partial graphs would
// pollute the crawl history that map and export read from.
type PersistStep struct {
	// dbDir is the directory holding the database file.
	dbDir string

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// NewPersistStep creates a persist step writing to a database in dbDir.
func NewPersistStep(dbDir string, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		dbDir:  dbDir,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves the crawl unless it was early-stopped.
func (s *PersistStep) Do(ctx context.Context, rep *model.CrawlReport) error {
	if rep.EarlyStopped {
		s.logger.Debug("skipping persistence for early-stopped crawl", "seed", rep.Seed)
		return nil
	}

	db, err := database.Open(s.dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			s.logger.Warn("failed to close database", "error", closeErr)
		}
	}()

	crawlID, err := db.SaveCrawl(ctx, rep)
	if err != nil {
		return fmt.Errorf("failed to save crawl: %w", err)
	}

	s.logger.Info("crawl persisted",
		"crawl_id", crawlID,
		"seed", rep.Seed,
		"nodes", rep.Graph.NodeCount(),
		"edges", rep.Graph.EdgeCount(),
	)
	return nil
}
