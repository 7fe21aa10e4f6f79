// Package regress implements the object regressor family: a base-regressor
// capability contract, an ordinary least squares default, the
// target-transforming regressor that fits in transformed target space and
// predicts back in object space, and preconfigured mesh regressors.
//
// # Fitted values
//
// Fitting never mutates the configuration values. TargetRegressor.Fit returns
// a FittedTargetRegressor pairing the fitted base regressor with the fitted
// target pipeline produced in the same pass; predictions always invert
// through that exact pipeline, so states from different fits cannot be mixed.
//
// # Preconfigured regressors
//
// Two constructors cover the common mesh cases:
//
//	// vertex-based: mesh -> vertices -> smoothing -> flatten
//	reg, err := regress.NewVertexMeshRegressor()
//
//	// dimension-reduced: ... -> flatten -> mean-centering -> PCA
//	reg, err := regress.NewPCAMeshRegressor(regress.WithComponents(4))
//
// Individual defaults (neighbour count, components, target scaler) are
// overridable per instantiation. Supplying a whole custom target chain via
// WithTargetChain replaces those defaults, and combining it with any of the
// individual options is a construction-time error rather than a silently
// ignored parameter.
package regress
