package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/sitegraph/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, report *model.CrawlReport) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, report *model.CrawlReport) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, report)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("adds single step", func(t *testing.T) {
		t.Parallel()

		p := New()
		step := &mockStep{name: "test-step"}

		p.AddStep(step)

		if p.StepCount() != 1 {
			t.Errorf("expected 1 step, got %d", p.StepCount())
		}
	})

	t.Run("adds multiple steps with AddSteps", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(
			&mockStep{name: "step-1"},
			&mockStep{name: "step-2"},
			&mockStep{name: "step-3"},
		)

		if p.StepCount() != 3 {
			t.Errorf("expected 3 steps, got %d", p.StepCount())
		}
	})

	t.Run("maintains step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddStep(&mockStep{name: "second"})
		p.AddStep(&mockStep{name: "third"})

		names := p.StepNames()
		want := []string{"first", "second", "third"}
		for i, name := range want {
			if names[i] != name {
				t.Errorf("expected step %d to be %q, got %q", i, name, names[i])
			}
		}
	})
}

// TestPipelineExecute tests pipeline execution behavior.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		for _, name := range []string{"a", "b", "c"} {
			p.AddStep(&mockStep{
				name: name,
				doFunc: func(_ context.Context, _ *model.CrawlReport) error {
					order = append(order, name)
					return nil
				},
			})
		}

		report := model.NewCrawlReport("https://example.com")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
			t.Errorf("expected execution order [a b c], got %v", order)
		}
	})

	t.Run("records performed steps in report", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(&mockStep{name: "crawl"}, &mockStep{name: "persist"})

		report := model.NewCrawlReport("https://example.com")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if len(report.PerformedSteps) != 2 {
			t.Fatalf("expected 2 performed steps, got %v", report.PerformedSteps)
		}
		if report.PerformedSteps[0] != "crawl" || report.PerformedSteps[1] != "persist" {
			t.Errorf("expected [crawl persist], got %v", report.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("step failed")
		failing := &mockStep{
			name: "failing",
			doFunc: func(_ context.Context, _ *model.CrawlReport) error {
				return wantErr
			},
		}
		skipped := &mockStep{name: "skipped"}

		p := New()
		p.AddSteps(failing, skipped)

		report := model.NewCrawlReport("https://example.com")
		err := p.Execute(context.Background(), report)
		if !errors.Is(err, wantErr) {
			t.Errorf("expected step error, got %v", err)
		}
		if skipped.callCount != 0 {
			t.Errorf("expected subsequent step not to run, ran %d times", skipped.callCount)
		}
		if report.ErrorMessage != "step failed" {
			t.Errorf("expected error recorded in report, got %q", report.ErrorMessage)
		}
	})

	t.Run("continues after error when configured", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{
			name: "failing",
			doFunc: func(_ context.Context, _ *model.CrawlReport) error {
				return errors.New("step failed")
			},
		}
		next := &mockStep{name: "next"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, next)

		report := model.NewCrawlReport("https://example.com")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if next.callCount != 1 {
			t.Errorf("expected next step to run once, ran %d times", next.callCount)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never-runs"}
		p := New()
		p.AddStep(step)

		report := model.NewCrawlReport("https://example.com")
		err := p.Execute(ctx, report)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Errorf("expected step not to run, ran %d times", step.callCount)
		}
	})
}
