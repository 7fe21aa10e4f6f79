package compress

import (
	"fmt"

	"github.com/shapefit/shapefit/errs"
)

// Type identifies a payload compression algorithm. The byte value is stored
// in snapshot headers, so existing values must never be renumbered.
type Type byte

const (
	TypeNone Type = 0
	TypeS2   Type = 1
	TypeZstd Type = 2
	TypeLZ4  Type = 3
)

// String returns the canonical lowercase name of the compression type.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeS2:
		return "s2"
	case TypeZstd:
		return "zstd"
	case TypeLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// Valid reports whether t names a supported compression type.
func (t Type) Valid() bool {
	switch t {
	case TypeNone, TypeS2, TypeZstd, TypeLZ4:
		return true
	default:
		return false
	}
}

// Compressor compresses a complete snapshot payload in one call.
//
// The returned slice is owned by the caller; the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload previously produced by the matching
// Compressor. It returns an error for corrupted or mismatched data.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression for one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Type]Codec{
	TypeNone: NewNoOpCodec(),
	TypeS2:   NewS2Codec(),
	TypeZstd: NewZstdCodec(),
	TypeLZ4:  NewLZ4Codec(),
}

// GetCodec returns the shared built-in codec for the given type. The built-in
// codecs are stateless or internally pooled and safe to share.
func GetCodec(t Type) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: unsupported compression type %s", errs.ErrInvalidConfig, t)
}
