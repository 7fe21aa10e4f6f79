package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/internal/options"
	"github.com/shapefit/shapefit/pipeline"
	"github.com/shapefit/shapefit/transform"
)

// DefaultInverseCheckTol is the tolerance used by the inverse-consistency
// check when enabled without an explicit tolerance.
const DefaultInverseCheckTol = 1e-6

// TargetRegressor wraps a base regressor so it is fitted in transformed
// target space but predicts back in object space: fitting first fits the
// target pipeline on the raw target objects, then fits the base regressor
// against the numeric result; predicting pushes the base regressor's output
// back through the inverse of that same fitted pipeline.
type TargetRegressor struct {
	base         Regressor
	chain        *pipeline.Pipeline
	checkInverse bool
	tol          float64
}

// TargetRegressorOption is a functional option for TargetRegressor.
type TargetRegressorOption = options.Option[*TargetRegressor]

// WithInverseCheck enables verification, at fit time, that the fitted target
// pipeline round-trips the training targets: transform, inverse, transform
// again, and compare within tol. The check is off by default because it costs
// a full extra pass over the training targets; pass tol <= 0 to use
// DefaultInverseCheckTol.
func WithInverseCheck(tol float64) TargetRegressorOption {
	return options.NoError(func(r *TargetRegressor) {
		r.checkInverse = true
		if tol > 0 {
			r.tol = tol
		}
	})
}

// NewTargetRegressor creates a target-transforming regressor. A nil base
// selects ordinary least squares; a nil chain means the targets are already
// numeric and used as-is.
func NewTargetRegressor(base Regressor, chain *pipeline.Pipeline, opts ...TargetRegressorOption) (*TargetRegressor, error) {
	if base == nil {
		base = NewLinearRegression()
	}
	if chain == nil {
		chain = pipeline.New()
	}

	r := &TargetRegressor{base: base, chain: chain, tol: DefaultInverseCheckTol}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// Fit fits the target pipeline on the target objects, then the base regressor
// on (x, transformed targets), and returns both fitted states paired in one
// value. The base is cloned first when it supports cloning, so repeated fits
// of one configuration yield independent fitted handles.
func (r *TargetRegressor) Fit(x mat.Matrix, targets any) (*FittedTargetRegressor, error) {
	fittedChain, yAny, err := r.chain.FitTransform(targets)
	if err != nil {
		return nil, fmt.Errorf("fit target pipeline: %w", err)
	}

	y, err := transform.CoerceMatrix(yAny)
	if err != nil {
		return nil, fmt.Errorf("target pipeline output: %w", err)
	}

	if r.checkInverse {
		if err := verifyInverse(fittedChain, y, r.tol); err != nil {
			return nil, err
		}
	}

	base := r.base
	if c, ok := base.(Cloner); ok {
		base = c.Clone()
	}

	if err := base.Fit(x, y); err != nil {
		return nil, fmt.Errorf("fit base regressor: %w", err)
	}

	return &FittedTargetRegressor{Base: base, Chain: fittedChain}, nil
}

// verifyInverse round-trips the transformed targets through the fitted chain
// and compares against the original numeric targets.
func verifyInverse(chain *pipeline.FittedPipeline, y *mat.Dense, tol float64) error {
	objs, err := chain.Inverse(y)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInverseCheck, err)
	}

	againAny, err := chain.Transform(objs)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInverseCheck, err)
	}

	again, err := transform.CoerceMatrix(againAny)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInverseCheck, err)
	}

	yr, yc := y.Dims()
	ar, ac := again.Dims()
	if yr != ar || yc != ac {
		return fmt.Errorf("%w: round trip changed shape from %dx%d to %dx%d", errs.ErrInverseCheck, yr, yc, ar, ac)
	}

	worst := 0.0
	for i := 0; i < yr; i++ {
		for j := 0; j < yc; j++ {
			if d := math.Abs(y.At(i, j) - again.At(i, j)); d > worst {
				worst = d
			}
		}
	}
	if worst > tol {
		return fmt.Errorf("%w: max deviation %g exceeds tolerance %g", errs.ErrInverseCheck, worst, tol)
	}

	return nil
}

// FittedTargetRegressor pairs a fitted base regressor with the fitted target
// pipeline produced in the same Fit call. Predictions always invert through
// this exact pipeline; there is no way to combine states from different fits.
type FittedTargetRegressor struct {
	Base  Regressor
	Chain *pipeline.FittedPipeline
}

// Predict runs the base regressor and inverts its numeric output back into
// object space. For an input batch of P rows it returns P predicted objects.
func (f *FittedTargetRegressor) Predict(x mat.Matrix) (any, error) {
	yhat, err := f.Base.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("base regressor predict: %w", err)
	}

	objs, err := f.Chain.Inverse(yhat)
	if err != nil {
		return nil, fmt.Errorf("invert target pipeline: %w", err)
	}

	return objs, nil
}
