package hash

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
	"math"
)

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// Float64s computes the CRC32C of the IEEE-754 bit patterns of vals in order.
// Negative zero is folded into positive zero so that values comparing equal
// with == also hash equally.
func Float64s(vals ...[]float64) uint32 {
	h := NewCRC32C()
	var buf [8]byte
	for _, row := range vals {
		// Row boundaries are part of the hash.
		binary.LittleEndian.PutUint64(buf[:], uint64(len(row)))
		_, _ = h.Write(buf[:])
		for _, v := range row {
			if v == 0 {
				v = 0
			}
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = h.Write(buf[:])
		}
	}
	return h.Sum32()
}
