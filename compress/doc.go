// Package compress provides the payload codecs used when persisting fitted
// pipelines and regressors.
//
// A snapshot payload is a single gob-encoded byte slice, typically a few
// kilobytes to a few megabytes depending on the training set. The codecs
// trade speed against ratio:
//
//   - TypeS2: fast with a reasonable ratio, the default for snapshots
//   - TypeZstd: best ratio, for archived models
//   - TypeLZ4: fastest decompression
//   - TypeNone: passthrough, for debugging or already-compressed stores
//
// All codecs are safe for concurrent use.
package compress
