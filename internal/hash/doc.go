// Package hash provides checksum helpers for spill framing.
package hash
