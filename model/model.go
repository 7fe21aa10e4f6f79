// Package model defines the model and factory contracts at the boundary of
// the regression pipelines, plus simple indexed data accessors that satisfy
// them: constant output, list lookup, table-row lookup and MRI slice lookup.
//
// A Model is anything that predicts from an input; accessors implement the
// same contract over stored data so drivers can mix fitted regressors and raw
// lookups behind one interface.
package model

import (
	"fmt"

	"github.com/shapefit/shapefit/errs"
)

// Model is the minimal prediction capability: anything implementing Predict.
type Model interface {
	Predict(x any) (any, error)
}

// Factory creates a fitted Model, typically by running a data pipeline and a
// fit pass.
type Factory interface {
	Create() (Model, error)
}

// Constant is a Model that ignores its input and returns a fixed value.
// Useful as a debugging stand-in.
type Constant struct {
	Value any
}

var _ Model = (*Constant)(nil)

// NewConstant creates a constant model.
func NewConstant(value any) *Constant {
	return &Constant{Value: value}
}

// Predict returns the stored value regardless of input.
func (c *Constant) Predict(any) (any, error) {
	return c.Value, nil
}

// indexOf extracts an integer index from index-like input: an int, a float64,
// or the first element of an int/float64 slice.
func indexOf(x any) (int, error) {
	switch v := x.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case []int:
		if len(v) == 0 {
			return 0, fmt.Errorf("%w: empty index input", errs.ErrEmptyInput)
		}

		return v[0], nil
	case []float64:
		if len(v) == 0 {
			return 0, fmt.Errorf("%w: empty index input", errs.ErrEmptyInput)
		}

		return int(v[0]), nil
	default:
		return 0, fmt.Errorf("%w: want an index-like input, got %T", errs.ErrShapeMismatch, x)
	}
}
