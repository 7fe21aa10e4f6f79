// Package pipeline implements the invertible adapter pipeline: an ordered
// chain of steps, each exposing fit/transform and optionally an inverse, that
// composes into a single fittable, invertible transform.
//
// Fitting is an explicit state transition. A Pipeline holds only the step
// list; Fit runs fit-then-transform through every step in order and returns a
// FittedPipeline that owns the per-step fitted state. The fitted value is
// immutable: re-fitting produces a new FittedPipeline and never updates an
// existing one. This makes the "inverse must use the same fit" invariant
// structural instead of a caller obligation.
//
// Data flows through steps as untyped values (any). Each step asserts the
// shape it expects and reports a shape mismatch error when the collection
// flowing in does not match; no step recovers or retries.
package pipeline

import (
	"fmt"

	"github.com/shapefit/shapefit/errs"
)

// Step is one unit of a pipeline before fitting. Fit learns whatever state
// the step needs from the training data and returns the fitted step.
// Stateless steps may return themselves.
type Step interface {
	Fit(data any) (FittedStep, error)
}

// FittedStep is a step with frozen fitted state. Transform applies the
// forward mapping using that state and must not mutate it.
type FittedStep interface {
	Transform(data any) (any, error)
}

// Inverter is implemented by fitted steps whose forward transform can be
// undone, exactly or approximately. Steps without an inverse simply do not
// implement it; the pipeline surfaces errs.ErrNotInvertible lazily when a
// reverse walk reaches such a step.
type Inverter interface {
	Inverse(data any) (any, error)
}

// Pipeline is an ordered list of steps. Its shape is fixed at construction:
// steps cannot be added or removed afterwards.
type Pipeline struct {
	steps []Step
}

// New creates a pipeline from the given steps in execution order.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Fit fits every step in order, feeding the transformed output of step i into
// step i+1, and returns the fitted pipeline. Each Fit call builds fitted
// state from scratch; nothing carries over from previous fits.
func (p *Pipeline) Fit(data any) (*FittedPipeline, error) {
	fitted, _, err := p.FitTransform(data)
	return fitted, err
}

// FitTransform fits every step in order and additionally returns the output
// of the final step, saving a redundant forward pass when the caller needs
// the transformed training data (for example to fit a downstream regressor).
func (p *Pipeline) FitTransform(data any) (*FittedPipeline, any, error) {
	fittedSteps := make([]FittedStep, len(p.steps))

	cur := data
	for i, step := range p.steps {
		fs, err := step.Fit(cur)
		if err != nil {
			return nil, nil, fmt.Errorf("fit step %d (%T): %w", i, step, err)
		}

		cur, err = fs.Transform(cur)
		if err != nil {
			return nil, nil, fmt.Errorf("transform step %d (%T) during fit: %w", i, step, err)
		}

		fittedSteps[i] = fs
	}

	return &FittedPipeline{Steps: fittedSteps}, cur, nil
}

// FittedPipeline is the immutable result of fitting a Pipeline. The Steps
// slice is exported for snapshotting; callers must not modify it.
type FittedPipeline struct {
	Steps []FittedStep
}

// Transform replays the fitted steps in order without refitting.
func (fp *FittedPipeline) Transform(data any) (any, error) {
	cur := data
	for i, fs := range fp.Steps {
		var err error
		cur, err = fs.Transform(cur)
		if err != nil {
			return nil, fmt.Errorf("transform step %d (%T): %w", i, fs, err)
		}
	}

	return cur, nil
}

// Inverse replays the fitted steps in reverse order, calling each step's
// inverse with its own fitted state. The walk fails at the first step that
// does not implement Inverter, so pipelines with a non-invertible prefix can
// still be used forward-only.
func (fp *FittedPipeline) Inverse(data any) (any, error) {
	cur := data
	for i := len(fp.Steps) - 1; i >= 0; i-- {
		inv, ok := fp.Steps[i].(Inverter)
		if !ok {
			return nil, fmt.Errorf("%w: step %d (%T)", errs.ErrNotInvertible, i, fp.Steps[i])
		}

		var err error
		cur, err = inv.Inverse(cur)
		if err != nil {
			return nil, fmt.Errorf("inverse step %d (%T): %w", i, fp.Steps[i], err)
		}
	}

	return cur, nil
}
