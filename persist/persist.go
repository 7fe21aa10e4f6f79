package persist

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/shapefit/shapefit/compress"
	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/internal/options"
	"github.com/shapefit/shapefit/pipeline"
	"github.com/shapefit/shapefit/regress"
	"github.com/shapefit/shapefit/transform"
)

// Snapshot frame, little-endian:
//
//	offset 0  magic "SFSN" (4 bytes)
//	offset 4  format version (1 byte)
//	offset 5  compression type (1 byte)
//	offset 6  compressed payload length (uint64)
//	offset 14 xxHash64 of the compressed payload (uint64)
//	offset 22 payload
const (
	formatVersion = 1
	headerSize    = 22

	// maxPayloadSize caps a single snapshot payload. A length field beyond
	// this is treated as corruption rather than an allocation request.
	maxPayloadSize = 1 << 31
)

var snapshotMagic = [4]byte{'S', 'F', 'S', 'N'}

func init() {
	Register(
		&transform.ToMatrix{},
		&transform.FittedMeshVertices{},
		&transform.FittedSmoother{},
		&transform.FittedFlatten{},
		&transform.FittedScaler{},
		&transform.FittedPCA{},
		&pipeline.Squeeze{},
		&regress.LinearRegression{},
	)
}

// Register makes concrete types known to the snapshot encoding. Built-in
// fitted steps and regressors are pre-registered; call this once per custom
// type that appears behind a FittedStep or Regressor interface.
func Register(values ...any) {
	for _, v := range values {
		gob.Register(v)
	}
}

type config struct {
	codec compress.Type
}

// Option is a functional option for Save.
type Option = options.Option[*config]

// WithCompression selects the payload codec. Defaults to S2.
func WithCompression(t compress.Type) Option {
	return options.New(func(c *config) error {
		if !t.Valid() {
			return fmt.Errorf("%w: unsupported compression type %s", errs.ErrInvalidConfig, t)
		}
		c.codec = t

		return nil
	})
}

// Save writes v as a framed snapshot. The value is gob-encoded, compressed
// and prefixed with the verification header.
func Save(w io.Writer, v any, opts ...Option) error {
	cfg := &config{codec: compress.TypeS2}
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(v); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	codec, err := compress.GetCodec(cfg.codec)
	if err != nil {
		return err
	}

	compressed, err := codec.Compress(payload.Bytes())
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	header := make([]byte, headerSize)
	copy(header[0:4], snapshotMagic[:])
	header[4] = formatVersion
	header[5] = byte(cfg.codec)
	binary.LittleEndian.PutUint64(header[6:14], uint64(len(compressed)))
	binary.LittleEndian.PutUint64(header[14:22], xxhash.Sum64(compressed))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("write snapshot payload: %w", err)
	}

	return nil
}

// Load reads a framed snapshot and gob-decodes it into v, which must be a
// pointer to the saved type. The frame is fully verified before decoding.
func Load(r io.Reader, v any) error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("%w: short header: %v", errs.ErrSnapshotCorrupt, err)
	}

	if !bytes.Equal(header[0:4], snapshotMagic[:]) {
		return fmt.Errorf("%w: bad magic", errs.ErrSnapshotCorrupt)
	}
	if header[4] != formatVersion {
		return fmt.Errorf("%w: unsupported format version %d", errs.ErrSnapshotCorrupt, header[4])
	}

	codecType := compress.Type(header[5])
	if !codecType.Valid() {
		return fmt.Errorf("%w: unknown compression type %d", errs.ErrSnapshotCorrupt, header[5])
	}

	length := binary.LittleEndian.Uint64(header[6:14])
	if length > maxPayloadSize {
		return fmt.Errorf("%w: payload length %d exceeds limit", errs.ErrSnapshotCorrupt, length)
	}

	compressed := make([]byte, length)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return fmt.Errorf("%w: short payload: %v", errs.ErrSnapshotCorrupt, err)
	}

	wantSum := binary.LittleEndian.Uint64(header[14:22])
	if xxhash.Sum64(compressed) != wantSum {
		return fmt.Errorf("%w: checksum mismatch", errs.ErrSnapshotCorrupt)
	}

	codec, err := compress.GetCodec(codecType)
	if err != nil {
		return err
	}

	payload, err := codec.Decompress(compressed)
	if err != nil {
		return fmt.Errorf("%w: decompress: %v", errs.ErrSnapshotCorrupt, err)
	}

	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(v); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	return nil
}
