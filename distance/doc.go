// Package distance provides pairwise dissimilarity functions over float64
// feature vectors.
//
// Every Metric is symmetric, non-negative and returns zero for identical
// vectors. Calling a metric on vectors of different dimensionality returns
// an *ErrDimensionMismatch.
//
// # Supported Metrics
//
//   - KindEuclidean: Euclidean (L2) distance (default)
//   - KindSquaredEuclidean: Squared Euclidean distance
//   - KindManhattan: Manhattan (L1) distance
//   - MatrixWeighted: Mahalanobis-style distance sqrt((a-b)ᵗ·W·(a-b))
//
// # Usage
//
//	m, _ := distance.Provider(distance.KindEuclidean)
//	d, err := m.Distance(a, b)
//
//	w, err := distance.NewMatrixWeighted(distance.Identity(3))
//	d, err = w.Distance(a, b)
package distance
