package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/pipeline"
)

// ToMatrix coerces numeric input into a *mat.Dense with one row per sample.
// It is the forward-only head of the input-preprocessing chain, the analogue
// of forcing raw caller input into an at-least-2D numeric array.
//
// Accepted inputs: *mat.Dense and mat.Matrix (copied through), [][]float64
// (rows as samples), []float64 and []int (column vector, one feature), and
// float64/int scalars (a single 1x1 sample).
type ToMatrix struct{}

var (
	_ pipeline.Step       = (*ToMatrix)(nil)
	_ pipeline.FittedStep = (*ToMatrix)(nil)
)

// NewToMatrix creates the input coercion step.
func NewToMatrix() *ToMatrix {
	return &ToMatrix{}
}

// Fit returns the step itself; coercion carries no fitted state.
func (s *ToMatrix) Fit(any) (pipeline.FittedStep, error) {
	return s, nil
}

// Transform coerces the input into a dense matrix.
func (s *ToMatrix) Transform(data any) (any, error) {
	return CoerceMatrix(data)
}

// GobEncode emits an empty payload; coercion has no state to persist.
func (s *ToMatrix) GobEncode() ([]byte, error) {
	return nil, nil
}

// GobDecode accepts any payload; coercion has no state to restore.
func (s *ToMatrix) GobDecode([]byte) error {
	return nil
}

// CoerceMatrix converts supported numeric inputs into a *mat.Dense. The
// result never aliases the input, so later pipeline stages cannot observe
// or cause mutations of caller-owned data.
func CoerceMatrix(data any) (*mat.Dense, error) {
	switch v := data.(type) {
	case *mat.Dense:
		return mat.DenseCopyOf(v), nil
	case mat.Matrix:
		return mat.DenseCopyOf(v), nil
	case [][]float64:
		if len(v) == 0 || len(v[0]) == 0 {
			return nil, fmt.Errorf("%w: empty row matrix", errs.ErrEmptyInput)
		}
		cols := len(v[0])
		out := mat.NewDense(len(v), cols, nil)
		for i, row := range v {
			if len(row) != cols {
				return nil, fmt.Errorf("%w: row %d has %d values, want %d", errs.ErrShapeMismatch, i, len(row), cols)
			}
			out.SetRow(i, row)
		}

		return out, nil
	case []float64:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty vector", errs.ErrEmptyInput)
		}
		out := mat.NewDense(len(v), 1, nil)
		for i, x := range v {
			out.Set(i, 0, x)
		}

		return out, nil
	case []int:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty vector", errs.ErrEmptyInput)
		}
		out := mat.NewDense(len(v), 1, nil)
		for i, x := range v {
			out.Set(i, 0, float64(x))
		}

		return out, nil
	case float64:
		return mat.NewDense(1, 1, []float64{v}), nil
	case int:
		return mat.NewDense(1, 1, []float64{float64(v)}), nil
	default:
		return nil, fmt.Errorf("%w: cannot coerce %T into a matrix", errs.ErrShapeMismatch, data)
	}
}

// asDense asserts that pipeline data reaching a numeric step is a matrix.
// Unlike CoerceMatrix it passes a *mat.Dense through unchanged: it runs on
// intermediates between steps, which the steps only read and never retain,
// while caller-owned input is copied once at the CoerceMatrix boundary.
func asDense(data any) (*mat.Dense, error) {
	switch v := data.(type) {
	case *mat.Dense:
		return v, nil
	case mat.Matrix:
		return mat.DenseCopyOf(v), nil
	default:
		return nil, fmt.Errorf("%w: want a matrix, got %T", errs.ErrShapeMismatch, data)
	}
}
