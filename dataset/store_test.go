package dataset

import (
	"errors"
	"testing"

	"github.com/hupe1980/rankeval/distance"
	"github.com/hupe1980/rankeval/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s, err := NewMemoryStore(2)
	require.NoError(t, err)

	require.NoError(t, s.Add(5, model.Vector{5, 5}))
	require.NoError(t, s.Add(1, model.Vector{1, 1}))
	require.NoError(t, s.Add(3, model.Vector{3, 3}))

	assert.Equal(t, []model.ID{1, 3, 5}, s.IDs())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Dim())

	v, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, model.Vector{3, 3}, v)

	_, err = s.Get(4)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Add(1, model.Vector{0, 0})
	assert.ErrorIs(t, err, ErrDuplicateID)

	err = s.Add(9, model.Vector{0})
	var dm *distance.ErrDimensionMismatch
	assert.True(t, errors.As(err, &dm))
}

func TestMemoryStore_CopiesOnInsert(t *testing.T) {
	s, err := NewMemoryStore(1)
	require.NoError(t, err)

	v := model.Vector{1}
	require.NoError(t, s.Add(0, v))
	v[0] = 2

	got, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, model.Vector{1}, got)

	ids := s.IDs()
	ids[0] = 42
	assert.Equal(t, []model.ID{0}, s.IDs())
}

func TestFromVectors(t *testing.T) {
	s, err := FromVectors([]model.Vector{{0}, {1}, {10}})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{0, 1, 2}, s.IDs())

	_, err = FromVectors(nil)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = NewMemoryStore(0)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}
