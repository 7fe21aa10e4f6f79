package compress

// NoOpCodec passes payloads through unmodified. Useful when the surrounding
// store already compresses, or when inspecting raw snapshot bytes.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a passthrough codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns the input slice as-is. The result shares memory with the
// input.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is. The result shares memory with the
// input.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
