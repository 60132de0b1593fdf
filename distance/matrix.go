package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/rankeval/internal/hash"
)

// Compile-time check to ensure MatrixWeighted satisfies Metric.
var _ Metric = (*MatrixWeighted)(nil)

// MatrixWeighted is a Mahalanobis-style distance parameterized by a weight
// matrix W:
//
//	d(a, b) = sqrt((a-b)ᵗ · W · (a-b))
//
// W is expected to be symmetric positive semi-definite; only squareness is
// verified. The matrix is copied on construction and never mutated, so a
// MatrixWeighted is safe for concurrent use and its hash is computed once.
type MatrixWeighted struct {
	dim    int
	weight []float64 // row-major, dim*dim
	hash   uint32
}

// NewMatrixWeighted creates a weighted metric from a square matrix.
// It returns an error wrapping ErrShape if w is empty or not square.
func NewMatrixWeighted(w [][]float64) (*MatrixWeighted, error) {
	n := len(w)
	if n == 0 {
		return nil, fmt.Errorf("%w: got 0x0", ErrShape)
	}

	flat := make([]float64, 0, n*n)
	for i, row := range w {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), n)
		}
		flat = append(flat, row...)
	}

	return &MatrixWeighted{
		dim:    n,
		weight: flat,
		hash:   hashRows(flat, n),
	}, nil
}

// Identity returns a freshly allocated d×d identity matrix.
func Identity(d int) [][]float64 {
	m := make([][]float64, d)
	for i := range m {
		m[i] = make([]float64, d)
		m[i][i] = 1
	}
	return m
}

// Distance implements Metric. Both vectors must have the matrix dimension.
func (m *MatrixWeighted) Distance(a, b []float64) (float64, error) {
	if len(a) != m.dim {
		return 0, &ErrDimensionMismatch{Expected: m.dim, Actual: len(a)}
	}
	if len(b) != m.dim {
		return 0, &ErrDimensionMismatch{Expected: m.dim, Actual: len(b)}
	}

	var q float64
	for i := 0; i < m.dim; i++ {
		row := m.weight[i*m.dim : (i+1)*m.dim]
		var inner float64
		for j, w := range row {
			inner += w * (a[j] - b[j])
		}
		q += (a[i] - b[i]) * inner
	}

	// Rounding (or a matrix that is not PSD) can push q slightly below zero.
	if q < 0 {
		q = 0
	}
	return math.Sqrt(q), nil
}

// Name implements Metric.
func (m *MatrixWeighted) Name() string {
	return fmt.Sprintf("matrix-weighted(%dx%d)", m.dim, m.dim)
}

// Dim returns the dimensionality accepted by the metric.
func (m *MatrixWeighted) Dim() int { return m.dim }

// Matrix returns a copy of the weight matrix.
func (m *MatrixWeighted) Matrix() [][]float64 {
	out := make([][]float64, m.dim)
	for i := range out {
		out[i] = append([]float64(nil), m.weight[i*m.dim:(i+1)*m.dim]...)
	}
	return out
}

// Equal reports whether both metrics use element-wise equal matrices.
func (m *MatrixWeighted) Equal(other *MatrixWeighted) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil || m.dim != other.dim {
		return false
	}
	for i, w := range m.weight {
		if w != other.weight[i] {
			return false
		}
	}
	return true
}

// Hash returns the structural hash of the weight matrix. Equal metrics have
// equal hashes, which makes Hash usable as a map key.
func (m *MatrixWeighted) Hash() uint32 { return m.hash }

func hashRows(flat []float64, n int) uint32 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = flat[i*n : (i+1)*n]
	}
	return hash.Float64s(rows...)
}
