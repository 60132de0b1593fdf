package distance

import (
	"fmt"
	"math"
	"strings"
)

// Metric computes the dissimilarity of two feature vectors.
// Implementations must be safe for concurrent use.
type Metric interface {
	// Distance returns the distance between a and b.
	Distance(a, b []float64) (float64, error)
	// Name returns a stable, human-readable metric name.
	Name() string
}

// Kind represents one of the built-in, parameterless metrics.
type Kind int

const (
	KindEuclidean Kind = iota
	KindSquaredEuclidean
	KindManhattan
)

func (k Kind) String() string {
	switch k {
	case KindEuclidean:
		return "euclidean"
	case KindSquaredEuclidean:
		return "squared-euclidean"
	case KindManhattan:
		return "manhattan"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseKind parses a metric name as produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "euclidean", "l2":
		return KindEuclidean, nil
	case "squared-euclidean", "squaredl2", "sql2":
		return KindSquaredEuclidean, nil
	case "manhattan", "l1":
		return KindManhattan, nil
	default:
		return 0, fmt.Errorf("unsupported metric: %q", s)
	}
}

// Provider returns the metric for the given kind.
func Provider(k Kind) (Metric, error) {
	switch k {
	case KindEuclidean:
		return Euclidean{}, nil
	case KindSquaredEuclidean:
		return SquaredEuclidean{}, nil
	case KindManhattan:
		return Manhattan{}, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", k)
	}
}

// Euclidean is the Euclidean (L2) distance.
type Euclidean struct{}

// Distance implements Metric.
func (Euclidean) Distance(a, b []float64) (float64, error) {
	if err := checkDims(a, b); err != nil {
		return 0, err
	}
	return math.Sqrt(sumOfSquares(a, b)), nil
}

// Name implements Metric.
func (Euclidean) Name() string { return KindEuclidean.String() }

// SquaredEuclidean is the squared Euclidean distance. It produces the same
// ranking as Euclidean without the square root.
type SquaredEuclidean struct{}

// Distance implements Metric.
func (SquaredEuclidean) Distance(a, b []float64) (float64, error) {
	if err := checkDims(a, b); err != nil {
		return 0, err
	}
	return sumOfSquares(a, b), nil
}

// Name implements Metric.
func (SquaredEuclidean) Name() string { return KindSquaredEuclidean.String() }

// Manhattan is the Manhattan (L1, city-block) distance.
type Manhattan struct{}

// Distance implements Metric.
func (Manhattan) Distance(a, b []float64) (float64, error) {
	if err := checkDims(a, b); err != nil {
		return 0, err
	}
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum, nil
}

// Name implements Metric.
func (Manhattan) Name() string { return KindManhattan.String() }

func sumOfSquares(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
