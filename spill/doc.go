// Package spill frames serialized accumulator payloads into
// self-describing blocks for transfer between operators. A block carries
// a magic number, format version, codec tag, both sizes, the optionally
// compressed payload and a CRC32C trailer over everything before it.
//
// Writing the blocks to disk or object storage is the caller's concern;
// the package only produces and consumes the block bytes.
package spill
