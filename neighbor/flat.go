package neighbor

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/rankeval/dataset"
	"github.com/hupe1980/rankeval/distance"
	"github.com/hupe1980/rankeval/model"
)

// ErrEmptyStore is returned when ranking against a store with no points.
var ErrEmptyStore = errors.New("neighbor: empty store")

// checkEvery is the number of scanned points between context checks.
const checkEvery = 1024

// Ranker produces the full ranking of a dataset for one query.
type Ranker interface {
	// Rank returns every dataset ID once, ascending by m.Distance(query, point),
	// ties broken by ID.
	Rank(ctx context.Context, query model.Vector, m distance.Metric) ([]model.Neighbor, error)
}

// Compile-time check to ensure Flat satisfies Ranker.
var _ Ranker = (*Flat)(nil)

// Flat is a brute-force Ranker over an immutable snapshot of a store.
// It is safe for concurrent use.
type Flat struct {
	ids     []model.ID
	vectors []model.Vector
	dim     int
}

// NewFlat snapshots the IDs and vectors of s.
// The store must not be modified while the Flat is in use.
func NewFlat(s dataset.Store) (*Flat, error) {
	ids := s.IDs()
	if len(ids) == 0 {
		return nil, ErrEmptyStore
	}

	vectors := make([]model.Vector, len(ids))
	for i, id := range ids {
		v, err := s.Get(id)
		if err != nil {
			return nil, fmt.Errorf("neighbor: snapshot id %d: %w", id, err)
		}
		vectors[i] = v
	}

	return &Flat{ids: ids, vectors: vectors, dim: s.Dim()}, nil
}

// Name returns the ranker name.
func (*Flat) Name() string { return "Flat" }

// Len returns the number of points in the snapshot.
func (f *Flat) Len() int { return len(f.ids) }

// Rank implements Ranker.
func (f *Flat) Rank(ctx context.Context, query model.Vector, m distance.Metric) ([]model.Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != f.dim {
		return nil, &distance.ErrDimensionMismatch{Expected: f.dim, Actual: len(query)}
	}

	ranking := make([]model.Neighbor, len(f.ids))
	for i, id := range f.ids {
		if i > 0 && i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		d, err := m.Distance(query, f.vectors[i])
		if err != nil {
			return nil, err
		}
		ranking[i] = model.Neighbor{ID: id, Distance: d}
	}

	model.SortNeighbors(ranking)

	return ranking, nil
}

// Vector returns the snapshot vector of id.
func (f *Flat) Vector(id model.ID) (model.Vector, bool) {
	if i, ok := slices.BinarySearch(f.ids, id); ok {
		return f.vectors[i], true
	}
	return nil, false
}

// RankID ranks the dataset against the vector stored under id.
func (f *Flat) RankID(ctx context.Context, id model.ID, m distance.Metric) ([]model.Neighbor, error) {
	v, ok := f.Vector(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", dataset.ErrNotFound, id)
	}
	return f.Rank(ctx, v, m)
}
