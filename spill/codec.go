package spill

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a block compression algorithm.
type Codec uint8

const (
	// CodecNone stores payloads uncompressed.
	CodecNone Codec = 0
	// CodecLZ4 uses LZ4 block compression (fast, moderate ratio).
	CodecLZ4 Codec = 1
	// CodecZSTD uses ZSTD block compression (slower, better ratio).
	CodecZSTD Codec = 2
)

// String returns the codec's wire name.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// ByName resolves a codec from its wire name.
func ByName(name string) (Codec, error) {
	switch name {
	case "none", "":
		return CodecNone, nil
	case "lz4":
		return CodecLZ4, nil
	case "zstd":
		return CodecZSTD, nil
	default:
		return CodecNone, fmt.Errorf("spill: unknown codec %q", name)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compress returns data compressed with c, or nil when the codec is
// CodecNone or the payload is incompressible.
func (c Codec) compress(data []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return nil, nil
	case CodecLZ4:
		compressed := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("spill: lz4 compress: %w", err)
		}
		if n == 0 {
			return nil, nil // incompressible
		}
		return compressed[:n], nil
	case CodecZSTD:
		enc := getZstdEncoder()
		defer putZstdEncoder(enc)
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("spill: unknown codec %d", uint8(c))
	}
}

// decompress expands compressed into exactly uncompressedSize bytes.
func (c Codec) decompress(compressed []byte, uncompressedSize int) ([]byte, error) {
	result := make([]byte, uncompressedSize)

	switch c {
	case CodecLZ4:
		n, err := lz4.UncompressBlock(compressed, result)
		if err != nil {
			return nil, fmt.Errorf("spill: lz4 decompress: %w", err)
		}
		if n != uncompressedSize {
			return nil, fmt.Errorf("spill: decompressed %d bytes, header declared %d", n, uncompressedSize)
		}
		return result, nil
	case CodecZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(compressed, result[:0])
		if err != nil {
			return nil, fmt.Errorf("spill: zstd decompress: %w", err)
		}
		if len(decoded) != uncompressedSize {
			return nil, fmt.Errorf("spill: decompressed %d bytes, header declared %d", len(decoded), uncompressedSize)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("spill: unknown codec %d", uint8(c))
	}
}
