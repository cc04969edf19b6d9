// Where: internal/usecase/pipeline/pipeline.go
// What: Ordered step execution with progress reporting.
// Why: Workflows are linear task lists that stop at the first failure.
package pipeline

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Step is one labelled unit of work.
type Step struct {
	Label string
	Run   func(ctx context.Context) error
}

// Result is the outcome of a step: Ok when Err is nil.
type Result struct {
	Label string
	Err   error
}

// Ok returns a successful result.
func Ok(label string) Result {
	return Result{Label: label}
}

// Err returns a failed result.
func Err(label string, err error) Result {
	return Result{Label: label, Err: err}
}

// OK reports whether the step succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// StepError is returned by Runner.Run for the failing step. The cause keeps
// its failure marks.
type StepError struct {
	Result
}

func (e *StepError) Error() string {
	return e.Label + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error { return e.Err }

// Reporter renders step progress.
type Reporter interface {
	Start(label string)
	Finish(result Result)
}

// Runner executes steps in order.
type Runner struct {
	Reporter Reporter
	Logger   *zap.Logger
}

// Run executes steps in order and stops at the first failure. Completed
// steps are not rolled back.
func (r Runner) Run(ctx context.Context, steps ...Step) ([]Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, "pipeline cancelled")
		}
		if r.Reporter != nil {
			r.Reporter.Start(step.Label)
		}
		started := time.Now()
		result := Ok(step.Label)
		if step.Run != nil {
			if err := step.Run(ctx); err != nil {
				result = Err(step.Label, err)
			}
		}
		if r.Reporter != nil {
			r.Reporter.Finish(result)
		}
		logger.Debug("pipeline step finished",
			zap.String("step", step.Label),
			zap.Bool("ok", result.OK()),
			zap.Duration("elapsed", time.Since(started)),
		)
		results = append(results, result)
		if !result.OK() {
			return results, &StepError{Result: result}
		}
	}
	return results, nil
}
