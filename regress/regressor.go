package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/shapefit/shapefit/errs"
)

// Regressor is the opaque base-regression capability: fit on a numeric
// design matrix against numeric (possibly multi-output) targets, then
// predict. Any conforming implementation is interchangeable.
type Regressor interface {
	Fit(x, y mat.Matrix) error
	Predict(x mat.Matrix) (*mat.Dense, error)
}

// Cloner is an optional Regressor capability: producing a fresh unfitted
// copy. The target-transforming regressor clones its base before each fit
// when possible, so one configuration can be fitted repeatedly without the
// resulting fitted handles sharing state.
type Cloner interface {
	Clone() Regressor
}

// LinearRegression is ordinary least squares with intercept, supporting
// multi-output targets. It is the default base regressor.
type LinearRegression struct {
	beta *mat.Dense // (features+1) x outputs, first row is the intercepts
}

var (
	_ Regressor = (*LinearRegression)(nil)
	_ Cloner    = (*LinearRegression)(nil)
)

// NewLinearRegression creates an unfitted OLS regressor.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Clone returns a fresh unfitted OLS regressor.
func (l *LinearRegression) Clone() Regressor {
	return NewLinearRegression()
}

// Fit solves the least squares problem for x (samples x features) against
// y (samples x outputs).
func (l *LinearRegression) Fit(x, y mat.Matrix) error {
	xr, _ := x.Dims()
	yr, _ := y.Dims()
	if xr == 0 {
		return fmt.Errorf("%w: no samples", errs.ErrEmptyInput)
	}
	if xr != yr {
		return fmt.Errorf("%w: %d input rows, %d target rows", errs.ErrShapeMismatch, xr, yr)
	}

	design := withIntercept(x)

	var beta mat.Dense
	if err := beta.Solve(design, y); err != nil {
		return fmt.Errorf("least squares solve: %w", err)
	}
	l.beta = &beta

	return nil
}

// Predict applies the fitted coefficients to new samples.
func (l *LinearRegression) Predict(x mat.Matrix) (*mat.Dense, error) {
	if l.beta == nil {
		return nil, fmt.Errorf("%w: linear regression", errs.ErrNotFitted)
	}

	br, _ := l.beta.Dims()
	_, xc := x.Dims()
	if xc+1 != br {
		return nil, fmt.Errorf("%w: %d features, fitted on %d", errs.ErrShapeMismatch, xc, br-1)
	}

	var out mat.Dense
	out.Mul(withIntercept(x), l.beta)

	return &out, nil
}

// Coefficients returns the fitted (features+1) x outputs coefficient matrix,
// intercept row first, or nil before fitting.
func (l *LinearRegression) Coefficients() *mat.Dense {
	return l.beta
}

// GobEncode serializes the fitted coefficients. An unfitted regressor
// encodes as an empty payload.
func (l *LinearRegression) GobEncode() ([]byte, error) {
	if l.beta == nil {
		return nil, nil
	}

	return l.beta.MarshalBinary()
}

// GobDecode restores the fitted coefficients.
func (l *LinearRegression) GobDecode(data []byte) error {
	if len(data) == 0 {
		l.beta = nil
		return nil
	}

	var beta mat.Dense
	if err := beta.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("decode coefficients: %w", err)
	}
	l.beta = &beta

	return nil
}

// withIntercept prepends a ones column to the design matrix.
func withIntercept(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, 1)
		for j := 0; j < cols; j++ {
			out.Set(i, j+1, x.At(i, j))
		}
	}

	return out
}
