package storage

import (
	"fmt"
	"github.com/klauspost/compress/zstd"
	"trustive/internal/storage/interfaces"
)

// maxSnapshotSize caps how far a snapshot may inflate on restore, so a
// damaged file cannot exhaust memory.
const maxSnapshotSize = 256 << 20

// snapshotCodec compresses whole snapshot files. Snapshots are written from a
// single flush goroutine, so one encoder thread is enough.
type snapshotCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("snapshot encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxSnapshotSize))
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("snapshot decoder: %w", err)
	}
	return &snapshotCodec{encoder: encoder, decoder: decoder}, nil
}

func (c *snapshotCodec) Compress(snapshot []byte) ([]byte, error) {
	return c.encoder.EncodeAll(snapshot, nil), nil
}

func (c *snapshotCodec) Decompress(data []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	return out, nil
}

func (c *snapshotCodec) Close() {
	_ = c.encoder.Close()
	c.decoder.Close()
}
