package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/internal/options"
	"github.com/shapefit/shapefit/pipeline"
)

// Scaler is standard per-column mean/variance normalization. Variance scaling
// can be disabled, leaving a mean-only centering step. Both variants invert
// exactly.
type Scaler struct {
	withStd bool
}

var _ pipeline.Step = (*Scaler)(nil)

// ScalerOption is a functional option for Scaler.
type ScalerOption = options.Option[*Scaler]

// WithStdScaling enables or disables division by the per-column standard
// deviation. Disabled means mean-only centering.
func WithStdScaling(enabled bool) ScalerOption {
	return options.NoError(func(s *Scaler) {
		s.withStd = enabled
	})
}

// NewScaler creates a scaler with variance scaling enabled unless overridden.
func NewScaler(opts ...ScalerOption) (*Scaler, error) {
	s := &Scaler{withStd: true}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Fit computes the per-column mean and, when enabled, standard deviation.
// Constant columns scale by 1 so the transform stays invertible.
func (s *Scaler) Fit(data any) (pipeline.FittedStep, error) {
	m, err := asDense(data)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: nothing to scale", errs.ErrEmptyInput)
	}

	mean := make([]float64, cols)
	std := make([]float64, cols)
	col := make([]float64, rows)

	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		mu, sigma := stat.MeanStdDev(col, nil)
		mean[j] = mu

		if !s.withStd || sigma == 0 || rows < 2 {
			std[j] = 1
		} else {
			std[j] = sigma
		}
	}

	return &FittedScaler{Mean: mean, Std: std}, nil
}

// FittedScaler holds per-column centering and scaling factors. Std is all
// ones when variance scaling is disabled.
type FittedScaler struct {
	Mean []float64
	Std  []float64
}

var (
	_ pipeline.FittedStep = (*FittedScaler)(nil)
	_ pipeline.Inverter   = (*FittedScaler)(nil)
)

// Transform centers each column and divides by its scaling factor.
func (f *FittedScaler) Transform(data any) (any, error) {
	m, err := asDense(data)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	if cols != len(f.Mean) {
		return nil, fmt.Errorf("%w: %d columns, scaler fitted on %d", errs.ErrShapeMismatch, cols, len(f.Mean))
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (m.At(i, j)-f.Mean[j])/f.Std[j])
		}
	}

	return out, nil
}

// Inverse rescales and restores the column means exactly.
func (f *FittedScaler) Inverse(data any) (any, error) {
	m, err := asDense(data)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	if cols != len(f.Mean) {
		return nil, fmt.Errorf("%w: %d columns, scaler fitted on %d", errs.ErrShapeMismatch, cols, len(f.Mean))
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(i, j)*f.Std[j]+f.Mean[j])
		}
	}

	return out, nil
}
