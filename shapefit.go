// Package shapefit provides invertible regression from scalar predictors to
// geometric objects such as triangle meshes and point clouds.
//
// The core idea is a pipeline of invertible transforms: target objects are
// pushed forward through the pipeline into a numeric matrix, a base regressor
// is fitted in that space, and predictions are pulled back through the
// inverse of the exact same fitted pipeline into object space. Fitting never
// mutates a configured pipeline or regressor; it returns an immutable fitted
// value that can be snapshotted, shared and predicted from concurrently.
//
// # Core Features
//
//   - Invertible transform pipelines with per-step fitted state
//   - Mesh and point cloud transforms: vertex extraction, neighborhood
//     smoothing, flattening, standardization, PCA
//   - Ordinary least squares base regression with pluggable alternatives
//   - Preconfigured mesh regressors (vertex-space and PCA-reduced)
//   - Lookup models for precomputed meshes and MRI volume slices
//   - Binary model snapshots with compression and checksum verification
//
// # Basic Usage
//
// Fitting a mesh regressor on scalar inputs:
//
//	import "github.com/shapefit/shapefit"
//
//	reg, _ := shapefit.NewVertexMeshRegressor()
//	fitted, _ := reg.Fit(ages, meshes)
//
//	out, _ := fitted.Predict([]float64{27.5})
//	predicted := out.([]geom.Mesh)[0]
//
// Persisting and restoring a fitted model:
//
//	var buf bytes.Buffer
//	_ = shapefit.SaveModel(&buf, fitted)
//
//	var restored regress.FittedObjectRegressor
//	_ = shapefit.LoadModel(&buf, &restored)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the subpackages,
// covering the most common use cases. For fine-grained control use the
// subpackages directly: pipeline (transform chains), transform (mesh and
// numeric steps), regress (regressors), model (lookup models), persist
// (snapshots) and geom (geometry types).
package shapefit

import (
	"io"

	"github.com/shapefit/shapefit/compress"
	"github.com/shapefit/shapefit/persist"
	"github.com/shapefit/shapefit/regress"
)

// NewVertexMeshRegressor creates a regressor predicting mesh vertices
// directly: mesh -> vertices -> smoothing -> flatten, ordinary least squares
// in vertex space. See regress.NewVertexMeshRegressor for options.
func NewVertexMeshRegressor(opts ...regress.MeshRegressorOption) (*regress.ObjectRegressor, error) {
	return regress.NewVertexMeshRegressor(opts...)
}

// NewPCAMeshRegressor creates a regressor predicting in a reduced principal
// component space: mesh -> vertices -> smoothing -> flatten -> centering ->
// PCA. See regress.NewPCAMeshRegressor for options.
func NewPCAMeshRegressor(opts ...regress.MeshRegressorOption) (*regress.ObjectRegressor, error) {
	return regress.NewPCAMeshRegressor(opts...)
}

// SaveModel writes a fitted pipeline or regressor as a compressed, checksummed
// snapshot. The default codec is S2; pass persist.WithCompression to change it.
func SaveModel(w io.Writer, v any, opts ...persist.Option) error {
	return persist.Save(w, v, opts...)
}

// SaveModelZstd writes a snapshot with Zstandard compression, trading save
// speed for the smallest snapshot size.
func SaveModelZstd(w io.Writer, v any) error {
	return persist.Save(w, v, persist.WithCompression(compress.TypeZstd))
}

// LoadModel reads a snapshot into v, which must be a pointer to the saved
// fitted type.
func LoadModel(r io.Reader, v any) error {
	return persist.Load(r, v)
}
