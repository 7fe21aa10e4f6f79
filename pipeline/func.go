package pipeline

import (
	"fmt"

	"github.com/shapefit/shapefit/errs"
)

// TransformFunc is a plain transform function adaptable into a pipeline step.
type TransformFunc func(data any) (any, error)

// Func wraps a pair of plain functions as a stateless pipeline step with an
// explicit forward and an explicit (possibly absent) inverse. A nil Forward
// acts as identity; a nil Backward makes the step forward-only, so a reverse
// walk through it fails with errs.ErrNotInvertible.
type Func struct {
	Forward  TransformFunc
	Backward TransformFunc
}

var (
	_ Step       = (*Func)(nil)
	_ FittedStep = (*Func)(nil)
	_ Inverter   = (*Func)(nil)
)

// NewFunc creates a function step. Pass nil for either direction to make it
// identity (forward) or unavailable (backward).
func NewFunc(forward, backward TransformFunc) *Func {
	return &Func{Forward: forward, Backward: backward}
}

// Fit returns the step itself; function steps carry no fitted state.
func (f *Func) Fit(any) (FittedStep, error) {
	return f, nil
}

// Transform applies the forward function, or passes the data through when no
// forward function was supplied.
func (f *Func) Transform(data any) (any, error) {
	if f.Forward == nil {
		return data, nil
	}

	return f.Forward(data)
}

// Inverse applies the backward function. It fails with errs.ErrNotInvertible
// when the step was constructed without one.
func (f *Func) Inverse(data any) (any, error) {
	if f.Backward == nil {
		return nil, fmt.Errorf("%w: function step has no inverse", errs.ErrNotInvertible)
	}

	return f.Backward(data)
}
