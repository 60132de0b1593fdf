package hash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat64s(t *testing.T) {
	a := Float64s([]float64{1, 2}, []float64{3, 4})
	b := Float64s([]float64{1, 2}, []float64{3, 4})
	assert.Equal(t, a, b)

	// Same values, different shape.
	c := Float64s([]float64{1, 2, 3, 4})
	assert.NotEqual(t, a, c)

	// Signed zero compares equal and must hash equal.
	assert.Equal(t, Float64s([]float64{0}), Float64s([]float64{math.Copysign(0, -1)}))
}

func TestCRC32C(t *testing.T) {
	h := NewCRC32C()
	_, _ = h.Write([]byte("rankeval"))
	assert.Equal(t, CRC32C([]byte("rankeval")), h.Sum32())
}
