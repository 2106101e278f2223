package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/sitegraph/internal/model"
)

// Step is one stage of processing a single seed: crawling it, writing the
// 404 log, or persisting the snapshot. Steps run in sequence and share the
// seed's CrawlReport, which earlier steps fill in and later steps read.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry collaborators (Spider, GraphDB, log path)
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., report upload steps)
type Step interface {
	// Do executes the step against the seed's report.
	// It receives the context for cancellation, and the report to modify.
	// Returns an error if the step fails critically; non-critical errors
	// should be recorded in the report and return nil.
	Do(ctx context.Context, report *model.CrawlReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline runs the steps for one seed in order. A typical pipeline is
// crawl, then 404 log, then persist.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and their errors
// are recorded in the report, but subsequent steps still execute.
//
// Design decision: This option exists because some failures (e.g., an
// unwritable 404 log) shouldn't prevent persisting the crawl. However,
// the default is to stop on error because early failures often indicate
// fundamental problems (e.g., an invalid seed URL).
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline with the given options.
// Steps are added afterwards with AddStep or AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	// Apply options
	for _, opt := range opts {
		opt(p)
	}

	// Set default logger if not provided
	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps for the seed in sequence.
//
// Design decision: We check context.Done() between steps rather than
// interrupting one mid-flight. The crawl step already observes the context
// per fetch, and the 404-log and persist steps are short; cancellation
// between steps is enough to stop a run without leaving a half-written
// database transaction.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete (errors are recorded in report).
func (p *Pipeline) Execute(ctx context.Context, report *model.CrawlReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"seed", report.Seed,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"seed", report.Seed,
				"error", err,
			)

			// The report carries the error so that batch callers can
			// surface per-seed failures without aborting the whole run.
			report.Error = err
			report.ErrorMessage = err.Error()

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"seed", report.Seed,
			)
		}

		// Track which steps were performed
		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
