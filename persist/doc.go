// Package persist stores fitted pipelines and regressors as compact binary
// snapshots.
//
// A snapshot is a gob payload compressed by a compress.Codec and framed with
// a fixed header: magic, format version, codec identifier, payload length and
// an xxHash64 checksum of the compressed payload. Load verifies the frame
// before decoding, so truncated or bit-flipped snapshots fail with
// errs.ErrSnapshotCorrupt instead of producing a silently wrong model.
//
// The built-in fitted step and regressor types are registered for gob on
// package init. Custom Step or Regressor implementations must be registered
// once with Register before saving or loading values that contain them.
// Function-backed steps (pipeline.Func) hold closures and cannot be
// persisted.
package persist
