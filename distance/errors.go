package distance

import (
	"errors"
	"fmt"
)

// ErrShape is returned when a weight matrix is not square.
var ErrShape = errors.New("weight matrix must be square")

// ErrDimensionMismatch indicates that two vectors (or a vector and a weight
// matrix) have different dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func checkDims(a, b []float64) error {
	if len(a) != len(b) {
		return &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return nil
}
