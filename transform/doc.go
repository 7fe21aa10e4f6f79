// Package transform implements the object-domain pipeline steps that turn
// variable-shaped geometric collections into fixed-size numeric matrices and
// back: mesh-to-vertices extraction, registered point-cloud smoothing,
// stack-and-flatten, mean/variance scaling and PCA dimensionality reduction.
//
// Every step follows the pipeline contract: Fit consumes a training
// collection and returns an immutable fitted step; Transform applies the
// frozen state; invertible steps additionally implement pipeline.Inverter.
// Fitted state lives in exported-field structs so fitted chains can be
// snapshotted by the persist package.
//
// Numeric stages exchange *mat.Dense matrices with one row per object;
// geometric stages exchange []geom.Mesh or []geom.PointCloud collections.
// A step that receives a value of the wrong shape fails immediately with a
// shape mismatch error.
package transform
