package regress

import (
	"fmt"

	"github.com/shapefit/shapefit/pipeline"
	"github.com/shapefit/shapefit/transform"

	"github.com/shapefit/shapefit/model"
)

// ObjectRegressor binds an input-preprocessing chain (numeric coercion plus
// optional scaling) and a target-transforming regressor into one fit/predict
// unit mapping raw inputs to geometric objects.
type ObjectRegressor struct {
	input  *pipeline.Pipeline
	target *TargetRegressor
}

// NewObjectRegressor assembles an object regressor. A nil input pipeline
// defaults to bare numeric coercion; target must be non-nil.
func NewObjectRegressor(input *pipeline.Pipeline, target *TargetRegressor) *ObjectRegressor {
	if input == nil {
		input = pipeline.New(transform.NewToMatrix())
	}

	return &ObjectRegressor{input: input, target: target}
}

// Fit fits the input chain on x, the target regressor on the preprocessed
// inputs against the target objects, and returns the paired fitted value.
func (r *ObjectRegressor) Fit(x any, targets any) (*FittedObjectRegressor, error) {
	fittedInput, xAny, err := r.input.FitTransform(x)
	if err != nil {
		return nil, fmt.Errorf("fit input pipeline: %w", err)
	}

	xm, err := transform.CoerceMatrix(xAny)
	if err != nil {
		return nil, fmt.Errorf("input pipeline output: %w", err)
	}

	fittedTarget, err := r.target.Fit(xm, targets)
	if err != nil {
		return nil, err
	}

	return &FittedObjectRegressor{Input: fittedInput, Target: fittedTarget}, nil
}

// FittedObjectRegressor is the fitted object regressor: the fitted input
// chain and the fitted target-transforming regressor from one training pass.
// It satisfies model.Model.
type FittedObjectRegressor struct {
	Input  *pipeline.FittedPipeline
	Target *FittedTargetRegressor
}

var _ model.Model = (*FittedObjectRegressor)(nil)

// Predict preprocesses the inputs and predicts objects. P input rows yield
// exactly P predicted objects.
func (f *FittedObjectRegressor) Predict(x any) (any, error) {
	xAny, err := f.Input.Transform(x)
	if err != nil {
		return nil, fmt.Errorf("input pipeline: %w", err)
	}

	xm, err := transform.CoerceMatrix(xAny)
	if err != nil {
		return nil, fmt.Errorf("input pipeline output: %w", err)
	}

	return f.Target.Predict(xm)
}
