package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/parsescope/parsescope/internal/model"
)

// Step is one stage of loading a file view.
type Step interface {
	// Do fills in part of view. On error the view keeps whatever earlier
	// steps set.
	Do(ctx context.Context, view *model.FileView) error

	// Name identifies the step in logs and in FileView.PerformedSteps.
	Name() string
}

// StepError records which step failed. Its message is the step's own, so
// that errors.Is and errors.As see through it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Err.Error() }

// Unwrap returns the step's error.
func (e *StepError) Unwrap() error { return e.Err }

// Pipeline runs steps in order against one FileView.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps running after a failed step; the last failure
	// stays recorded in the view.
	continueOnError bool

	// stepTimeout bounds each step. Zero leaves steps to the caller's
	// context.
	stepTimeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing the remaining steps after one
// fails.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// WithStepTimeout bounds every step by d. Non-positive values disable it.
func WithStepTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.stepTimeout = max(d, 0)
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order. The context is checked before each
// step; a canceled context marks the view TimedOut and returns ctx.Err().
//
// A failing step's error is recorded in the view as a *StepError. It is
// returned unless the pipeline continues on error.
func (p *Pipeline) Execute(ctx context.Context, view *model.FileView) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"file_id", view.FileID,
				"reason", err,
			)
			view.TimedOut = true
			return err
		}

		start := time.Now()
		err := p.run(ctx, step, view)
		elapsed := time.Since(start)

		if err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"file_id", view.FileID,
				"elapsed", elapsed,
				"error", err,
			)
			view.Error = &StepError{Step: step.Name(), Err: err}
			view.ErrorMessage = err.Error()
			if !p.continueOnError {
				return view.Error
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"file_id", view.FileID,
				"elapsed", elapsed,
			)
		}

		view.PerformedSteps = append(view.PerformedSteps, step.Name())
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, step Step, view *model.FileView) error {
	if p.stepTimeout <= 0 {
		return step.Do(ctx, view)
	}
	stepCtx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	defer cancel()
	return step.Do(stepCtx, view)
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
