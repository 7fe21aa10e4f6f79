package transform

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/shapefit/shapefit/errs"
)

// lowRankMatrix builds 5 samples of a 9-feature signal living on a 2D
// subspace plus a constant offset.
func lowRankMatrix() *mat.Dense {
	base := []float64{1, 0, 2, 0, 1, 0, 2, 0, 1}
	dirA := []float64{1, 2, 0, -1, 1, 0, 2, 1, -1}
	dirB := []float64{0, 1, 1, 2, -1, 1, 0, -2, 1}

	out := mat.NewDense(5, 9, nil)
	coefA := []float64{-2, -1, 0, 1, 2}
	coefB := []float64{1, 0, 2, -1, -2}
	for i := 0; i < 5; i++ {
		row := make([]float64, 9)
		for j := range row {
			row[j] = base[j] + coefA[i]*dirA[j] + coefB[i]*dirB[j]
		}
		out.SetRow(i, row)
	}

	return out
}

func TestPCA_InverseOfZeroIsMean(t *testing.T) {
	p, err := NewPCA(WithComponents(2))
	require.NoError(t, err)

	data := lowRankMatrix()
	fitted, err := p.Fit(data)
	require.NoError(t, err)

	fp := fitted.(*FittedPCA)
	back, err := fp.Inverse(mat.NewDense(1, 2, []float64{0, 0}))
	require.NoError(t, err)

	rec := back.(*mat.Dense)
	for j := 0; j < 9; j++ {
		require.InDelta(t, fp.Mean[j], rec.At(0, j), 1e-12)
	}
}

func TestPCA_RoundTripOnLowRankData(t *testing.T) {
	// Rank-2 data reconstructs exactly from 2 components.
	p, err := NewPCA(WithComponents(2))
	require.NoError(t, err)

	data := lowRankMatrix()
	fitted, err := p.Fit(data)
	require.NoError(t, err)

	out, err := fitted.Transform(data)
	require.NoError(t, err)

	back, err := fitted.(*FittedPCA).Inverse(out)
	require.NoError(t, err)

	rec := back.(*mat.Dense)
	for i := 0; i < 5; i++ {
		for j := 0; j < 9; j++ {
			require.InDelta(t, data.At(i, j), rec.At(i, j), 1e-9)
		}
	}
}

func TestPCA_FullRankDefault(t *testing.T) {
	p, err := NewPCA()
	require.NoError(t, err)

	data := lowRankMatrix()
	fitted, err := p.Fit(data)
	require.NoError(t, err)

	fp := fitted.(*FittedPCA)
	require.Equal(t, 5, fp.Rank) // min(5 samples, 9 features)
	require.Len(t, fp.ExplainedVariance, 5)

	// Variance concentrates in the first two components for rank-2 data.
	require.Greater(t, fp.ExplainedVariance[0], fp.ExplainedVariance[2])
	require.InDelta(t, 0, fp.ExplainedVariance[2], 1e-9)
}

func TestPCA_ComponentCountValidation(t *testing.T) {
	_, err := NewPCA(WithComponents(-1))
	require.ErrorIs(t, err, errs.ErrInvalidConfig)

	p, err := NewPCA(WithComponents(7))
	require.NoError(t, err)

	_, err = p.Fit(lowRankMatrix()) // max rank is 5
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestPCA_TransformShapeMismatch(t *testing.T) {
	p, err := NewPCA(WithComponents(2))
	require.NoError(t, err)

	fitted, err := p.Fit(lowRankMatrix())
	require.NoError(t, err)

	_, err = fitted.Transform(mat.NewDense(1, 4, nil))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = fitted.(*FittedPCA).Inverse(mat.NewDense(1, 3, nil))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}
