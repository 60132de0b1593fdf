package dataset

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hupe1980/rankeval/distance"
	"github.com/hupe1980/rankeval/model"
)

var (
	// ErrNotFound is returned for an unknown ID.
	ErrNotFound = errors.New("id not found")

	// ErrDuplicateID is returned when adding an ID twice.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidDimension is returned for a non-positive store dimension.
	ErrInvalidDimension = errors.New("dimension must be positive")
)

// Store is a read-only view of a dataset.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the vector of id. Callers must not modify it.
	Get(id model.ID) (model.Vector, error)
	// IDs returns all IDs in ascending order.
	IDs() []model.ID
	// Dim returns the dimensionality shared by all vectors.
	Dim() int
	// Len returns the number of points.
	Len() int
}

// Compile-time check to ensure MemoryStore satisfies Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store with a fixed dimension.
// Vectors are copied on insert.
type MemoryStore struct {
	mu      sync.RWMutex
	dim     int
	vectors map[model.ID]model.Vector
	ids     []model.ID // sorted lazily
	sorted  bool
}

// NewMemoryStore creates an empty store for vectors of dimension dim.
func NewMemoryStore(dim int) (*MemoryStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	return &MemoryStore{
		dim:     dim,
		vectors: make(map[model.ID]model.Vector),
		sorted:  true,
	}, nil
}

// FromVectors creates a store with IDs 0..len(vectors)-1.
func FromVectors(vectors []model.Vector) (*MemoryStore, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no vectors", ErrInvalidDimension)
	}
	s, err := NewMemoryStore(len(vectors[0]))
	if err != nil {
		return nil, err
	}
	for i, v := range vectors {
		if err := s.Add(model.ID(i), v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add inserts a copy of v under id.
func (s *MemoryStore) Add(id model.ID, v model.Vector) error {
	if len(v) != s.dim {
		return &distance.ErrDimensionMismatch{Expected: s.dim, Actual: len(v)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vectors[id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	s.vectors[id] = v.Clone()
	if n := len(s.ids); n > 0 && s.ids[n-1] > id {
		s.sorted = false
	}
	s.ids = append(s.ids, id)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(id model.ID) (model.Vector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vectors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return v, nil
}

// IDs implements Store. The returned slice is a copy.
func (s *MemoryStore) IDs() []model.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sorted {
		slices.Sort(s.ids)
		s.sorted = true
	}
	return slices.Clone(s.ids)
}

// Dim implements Store.
func (s *MemoryStore) Dim() int { return s.dim }

// Len implements Store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}
