package compress

// ZstdCodec compresses snapshot payloads with Zstandard. It has the best
// ratio of the built-in codecs and suits archived or cold-stored models.
//
// The implementation is selected at build time: the default pure-Go backend
// (klauspost/compress/zstd) needs no cgo, and the cgozstd build tag swaps in
// the libzstd binding (valyala/gozstd) for deployments that already link
// against it. Both produce standard zstd frames and are wire compatible.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a Zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
