package spill

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/TJX2014/velox/internal/hash"
)

const (
	// Magic marks the start of every block.
	Magic uint32 = 0x53504c56 // "VLPS" little-endian

	// Version is the current block format version.
	Version uint8 = 1

	// blockHeaderSize covers magic, version, codec and both size fields.
	blockHeaderSize = 4 + 1 + 1 + 4 + 4

	trailerSize = 4
)

var (
	// ErrBadMagic is returned when block bytes do not start with Magic.
	ErrBadMagic = errors.New("spill: bad magic")
	// ErrTruncated is returned when block bytes end before the declared payload.
	ErrTruncated = errors.New("spill: truncated block")
	// ErrChecksum is returned when the CRC32C trailer does not match.
	ErrChecksum = errors.New("spill: checksum mismatch")
)

// incompressibleRatio stores the payload raw when compression saves less
// than 10 percent.
const incompressibleRatio = 0.9

// Encode frames payload into a block. A compressed-size field of zero
// means the payload is stored raw; Encode falls back to raw storage when
// the codec does not shrink the payload enough to matter.
func Encode(payload []byte, codec Codec) ([]byte, error) {
	compressed, err := codec.compress(payload)
	if err != nil {
		return nil, err
	}
	if compressed == nil || float64(len(compressed)) > float64(len(payload))*incompressibleRatio {
		compressed = nil
	}

	stored := payload
	storedSize := 0 // 0 = raw
	if compressed != nil {
		stored = compressed
		storedSize = len(compressed)
	}

	block := make([]byte, blockHeaderSize+len(stored)+trailerSize)
	binary.LittleEndian.PutUint32(block[0:], Magic)
	block[4] = Version
	block[5] = uint8(codec)
	binary.LittleEndian.PutUint32(block[6:], uint32(len(payload))) //nolint:gosec // payloads fit uint32 on the wire
	binary.LittleEndian.PutUint32(block[10:], uint32(storedSize)) //nolint:gosec // payloads fit uint32 on the wire
	copy(block[blockHeaderSize:], stored)

	body := block[:blockHeaderSize+len(stored)]
	binary.LittleEndian.PutUint32(block[len(body):], hash.CRC32C(body))

	return block, nil
}

// Decode verifies and unframes a single block, returning the payload and
// any bytes following the block.
func Decode(block []byte) (payload, rest []byte, err error) {
	if len(block) < blockHeaderSize+trailerSize {
		return nil, nil, ErrTruncated
	}
	if binary.LittleEndian.Uint32(block[0:]) != Magic {
		return nil, nil, ErrBadMagic
	}
	if v := block[4]; v != Version {
		return nil, nil, fmt.Errorf("spill: unsupported block version %d", v)
	}
	codec := Codec(block[5])
	uncompressedSize := int(binary.LittleEndian.Uint32(block[6:]))
	storedSize := int(binary.LittleEndian.Uint32(block[10:]))
	if storedSize == 0 {
		storedSize = uncompressedSize
	}

	end := blockHeaderSize + storedSize + trailerSize
	if len(block) < end {
		return nil, nil, ErrTruncated
	}

	body := block[:blockHeaderSize+storedSize]
	want := binary.LittleEndian.Uint32(block[blockHeaderSize+storedSize:])
	if hash.CRC32C(body) != want {
		return nil, nil, ErrChecksum
	}

	stored := block[blockHeaderSize : blockHeaderSize+storedSize]
	rest = block[end:]

	if binary.LittleEndian.Uint32(block[10:]) == 0 {
		return stored, rest, nil
	}
	payload, err = codec.decompress(stored, uncompressedSize)
	if err != nil {
		return nil, nil, err
	}
	return payload, rest, nil
}
