package regress

import (
	"github.com/shapefit/shapefit/model"
)

// RegressorFactory implements model.Factory by fitting a configured object
// regressor on stored training data. Create runs the full pipeline-then-fit
// pass and returns the fitted regressor as a model.Model.
type RegressorFactory struct {
	Regressor *ObjectRegressor
	X         any
	Targets   any
}

var _ model.Factory = (*RegressorFactory)(nil)

// NewRegressorFactory creates a factory over the given regressor and
// training data.
func NewRegressorFactory(r *ObjectRegressor, x, targets any) *RegressorFactory {
	return &RegressorFactory{Regressor: r, X: x, Targets: targets}
}

// Create fits the regressor and returns the fitted model.
func (f *RegressorFactory) Create() (model.Model, error) {
	return f.Regressor.Fit(f.X, f.Targets)
}
