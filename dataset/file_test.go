package dataset

import (
	"context"
	"testing"

	"github.com/hupe1980/rankeval/blobstore"
	"github.com/hupe1980/rankeval/codec"
	"github.com/hupe1980/rankeval/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{ID: 0, Label: "a", Vector: model.Vector{0, 0.5}},
		{ID: 1, Label: "a", Vector: model.Vector{1, 0.25}},
		{ID: 10, Label: "b", Vector: model.Vector{10, -3}},
		{ID: 11, Label: "b", Vector: model.Vector{11, 1e-3}},
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"points.json", "points.json.zst", "points.json.lz4"} {
		for _, c := range []codec.Codec{nil, codec.JSON{}} {
			t.Run(name, func(t *testing.T) {
				store := blobstore.NewMemoryStore()
				require.NoError(t, Save(ctx, store, name, sampleRecords(), c))

				ds, labels, err := Load(ctx, store, name, c)
				require.NoError(t, err)

				assert.Equal(t, []model.ID{0, 1, 10, 11}, ds.IDs())
				assert.Equal(t, 2, ds.Dim())

				v, err := ds.Get(10)
				require.NoError(t, err)
				assert.Equal(t, model.Vector{10, -3}, v)

				groups, err := labels.Partition(ctx, ds)
				require.NoError(t, err)
				assert.Equal(t, []model.Group{
					{Label: "a", Members: []model.ID{0, 1}},
					{Label: "b", Members: []model.ID{10, 11}},
				}, groups)
			})
		}
	}
}

func TestSave_Compresses(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	records := make([]Record, 500)
	for i := range records {
		records[i] = Record{ID: model.ID(i), Label: "same", Vector: model.Vector{1, 1, 1, 1}}
	}

	require.NoError(t, Save(ctx, store, "plain.json", records, nil))
	require.NoError(t, Save(ctx, store, "small.json.zst", records, nil))
	require.NoError(t, Save(ctx, store, "small.json.lz4", records, nil))

	plain, err := store.Get(ctx, "plain.json")
	require.NoError(t, err)
	zst, err := store.Get(ctx, "small.json.zst")
	require.NoError(t, err)
	lz, err := store.Get(ctx, "small.json.lz4")
	require.NoError(t, err)

	assert.Less(t, len(zst), len(plain))
	assert.Less(t, len(lz), len(plain))
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, _, err := Load(ctx, store, "missing.json", nil)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "empty.json", []byte("[]")))
	_, _, err = Load(ctx, store, "empty.json", nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	require.NoError(t, store.Put(ctx, "bad.json", []byte("{")))
	_, _, err = Load(ctx, store, "bad.json", nil)
	assert.Error(t, err)

	require.NoError(t, store.Put(ctx, "bad.json.zst", []byte("not zstd")))
	_, _, err = Load(ctx, store, "bad.json.zst", nil)
	assert.Error(t, err)

	dup := []Record{{ID: 1, Vector: model.Vector{1}}, {ID: 1, Vector: model.Vector{2}}}
	require.NoError(t, Save(ctx, store, "dup.json", dup, nil))
	_, _, err = Load(ctx, store, "dup.json", nil)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestCompressionFor(t *testing.T) {
	assert.Equal(t, CompressionZstd, CompressionFor("x.json.zst"))
	assert.Equal(t, CompressionLZ4, CompressionFor("x.json.lz4"))
	assert.Equal(t, CompressionNone, CompressionFor("x.json"))
	assert.Equal(t, "zstd", CompressionZstd.String())
}
