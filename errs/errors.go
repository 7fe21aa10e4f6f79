// Package errs defines sentinel errors shared across shapefit packages.
//
// Errors are wrapped at the failure site with fmt.Errorf("%w: ...") so callers
// can match on the sentinel with errors.Is while still seeing the context of
// the specific fit, transform or inverse call that failed.
package errs

import "errors"

var (
	// ErrNotInvertible indicates that inverse traversal reached a step without
	// an inverse transform. It surfaces lazily at the first such step during a
	// reverse walk, never at pipeline construction.
	ErrNotInvertible = errors.New("step not invertible")

	// ErrNotFitted indicates that an operation requiring fitted state was
	// invoked on a value that never went through a fit pass.
	ErrNotFitted = errors.New("not fitted")

	// ErrNoReference indicates that an inverse transform was invoked before a
	// forward/fit pass captured the reference state it needs (for example mesh
	// connectivity or registration correspondences).
	ErrNoReference = errors.New("no reference state captured")

	// ErrShapeMismatch indicates that object counts or shapes disagree across
	// a collection, or that a step received data of an unexpected shape.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmptyInput indicates a degenerate empty collection or zero-length
	// feature vector.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidConfig indicates an invalid or mutually-exclusive
	// configuration detected at construction time.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInverseCheck indicates that the optional transform->inverse
	// round-trip verification on training targets exceeded its tolerance.
	ErrInverseCheck = errors.New("inverse consistency check failed")

	// ErrSnapshotCorrupt indicates a persisted model snapshot with a bad
	// magic number, unsupported version or checksum mismatch.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)
