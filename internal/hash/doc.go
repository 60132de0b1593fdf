// Package hash provides structural hashing helpers.
//
// All checksums use CRC32-Castagnoli (CRC32C), which Go's hash/crc32
// accelerates in hardware where available (SSE4.2, ARM CRC).
//
// # Usage
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For real-valued matrices (e.g. a distance weight matrix):
//
//	h := hash.Float64s(rows...)
package hash
