package centroid

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rankeval/distance"
	"github.com/hupe1980/rankeval/model"
)

// ErrEmptyGroup is returned when a centroid is requested for zero vectors.
var ErrEmptyGroup = errors.New("empty group")

// Compute returns the element-wise arithmetic mean of vectors.
//
// All vectors must share the dimensionality of the first one. The result is
// freshly allocated; the inputs are not modified.
//
// Floating-point sums depend on order, so callers that need the same bits for
// any listing of a group must pass the vectors in a canonical order (the
// evaluator uses ascending ID).
func Compute(vectors []model.Vector) (model.Vector, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyGroup
	}

	dim := len(vectors[0])
	sums := make(model.Vector, dim)

	for _, vec := range vectors {
		if len(vec) != dim {
			return nil, &distance.ErrDimensionMismatch{Expected: dim, Actual: len(vec)}
		}
		for d := 0; d < dim; d++ {
			sums[d] += vec[d]
		}
	}

	scale := float64(len(vectors))
	for d := range sums {
		sums[d] /= scale
	}

	return sums, nil
}

// OrderByDistance returns the members ordered ascending by their distance to
// center under metric, ties broken by ID. ids and vectors are parallel slices.
func OrderByDistance(ids []model.ID, vectors []model.Vector, center model.Vector, metric distance.Metric) ([]model.Neighbor, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("centroid: %d ids for %d vectors", len(ids), len(vectors))
	}

	dists := make([]model.Neighbor, len(ids))
	for i, id := range ids {
		d, err := metric.Distance(vectors[i], center)
		if err != nil {
			return nil, err
		}
		dists[i] = model.Neighbor{ID: id, Distance: d}
	}

	model.SortNeighbors(dists)

	return dists, nil
}
