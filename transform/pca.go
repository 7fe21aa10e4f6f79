package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/internal/options"
	"github.com/shapefit/shapefit/pipeline"
)

// PCA is the dimensionality-reduction step: a linear projection onto the
// leading principal components of the centered training matrix, computed via
// thin SVD. The inverse reconstructs an approximate full vector from reduced
// coordinates; reconstruction error is expected and not an error condition.
type PCA struct {
	components int
}

var _ pipeline.Step = (*PCA)(nil)

// PCAOption is a functional option for PCA.
type PCAOption = options.Option[*PCA]

// WithComponents sets the number of components to keep. Zero (the default)
// keeps the full rank min(samples, features).
func WithComponents(r int) PCAOption {
	return options.New(func(p *PCA) error {
		if r < 0 {
			return fmt.Errorf("%w: component count must be non-negative, got %d", errs.ErrInvalidConfig, r)
		}
		p.components = r

		return nil
	})
}

// NewPCA creates a PCA step, full rank by default.
func NewPCA(opts ...PCAOption) (*PCA, error) {
	p := &PCA{}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// Fit centers the training matrix and factorizes it with a thin SVD, keeping
// the requested number of right singular vectors as the projection basis.
func (p *PCA) Fit(data any) (pipeline.FittedStep, error) {
	m, err := asDense(data)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: nothing to decompose", errs.ErrEmptyInput)
	}

	maxRank := min(rows, cols)
	r := p.components
	if r == 0 {
		r = maxRank
	}
	if r > maxRank {
		return nil, fmt.Errorf("%w: %d components exceed max rank %d", errs.ErrInvalidConfig, r, maxRank)
	}

	mean := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		sum := 0.0
		for _, x := range col {
			sum += x
		}
		mean[j] = sum / float64(rows)
	}

	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, m.At(i, j)-mean[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, fmt.Errorf("pca: SVD factorization failed")
	}

	var v mat.Dense
	svd.VTo(&v)

	components := mat.DenseCopyOf(v.Slice(0, cols, 0, r))

	variance := make([]float64, r)
	sv := svd.Values(nil)
	denom := float64(rows - 1)
	if rows < 2 {
		denom = 1
	}
	for i := 0; i < r; i++ {
		variance[i] = sv[i] * sv[i] / denom
	}

	return &FittedPCA{
		Mean:              mean,
		Components:        components.RawMatrix().Data,
		Features:          cols,
		Rank:              r,
		ExplainedVariance: variance,
	}, nil
}

// FittedPCA holds the projection basis. Components is the row-major
// Features x Rank matrix of right singular vectors; Mean is the training
// column mean restored by the inverse.
type FittedPCA struct {
	Mean              []float64
	Components        []float64
	Features          int
	Rank              int
	ExplainedVariance []float64
}

var (
	_ pipeline.FittedStep = (*FittedPCA)(nil)
	_ pipeline.Inverter   = (*FittedPCA)(nil)
)

// basis rebuilds the component matrix from its stored raw data.
func (f *FittedPCA) basis() *mat.Dense {
	return mat.NewDense(f.Features, f.Rank, f.Components)
}

// Transform projects centered rows onto the principal components.
func (f *FittedPCA) Transform(data any) (any, error) {
	m, err := asDense(data)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	if cols != f.Features {
		return nil, fmt.Errorf("%w: %d columns, pca fitted on %d", errs.ErrShapeMismatch, cols, f.Features)
	}

	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, m.At(i, j)-f.Mean[j])
		}
	}

	var out mat.Dense
	out.Mul(centered, f.basis())

	return &out, nil
}

// Inverse reconstructs approximate full-dimensional rows and restores the
// training mean. The inverse of the zero vector is exactly the mean.
func (f *FittedPCA) Inverse(data any) (any, error) {
	m, err := asDense(data)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	if cols != f.Rank {
		return nil, fmt.Errorf("%w: %d columns, pca keeps %d components", errs.ErrShapeMismatch, cols, f.Rank)
	}

	var rec mat.Dense
	rec.Mul(m, f.basis().T())

	out := mat.NewDense(rows, f.Features, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < f.Features; j++ {
			out.Set(i, j, rec.At(i, j)+f.Mean[j])
		}
	}

	return out, nil
}
