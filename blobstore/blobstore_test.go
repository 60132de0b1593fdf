package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	stores := map[string]BlobStore{
		"Memory": NewMemoryStore(),
		"Local":  NewLocalStore(t.TempDir()),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing.json")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Put(ctx, "data/b.json", []byte("b")))
			require.NoError(t, store.Put(ctx, "data/a.json", []byte("a")))
			require.NoError(t, store.Put(ctx, "other.json", []byte("o")))

			got, err := store.Get(ctx, "data/a.json")
			require.NoError(t, err)
			assert.Equal(t, "a", string(got))

			// Put replaces.
			require.NoError(t, store.Put(ctx, "data/a.json", []byte("a2")))
			got, err = store.Get(ctx, "data/a.json")
			require.NoError(t, err)
			assert.Equal(t, "a2", string(got))

			names, err := store.List(ctx, "data/")
			require.NoError(t, err)
			assert.Equal(t, []string{"data/a.json", "data/b.json"}, names)

			all, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestLocalStore_MissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "nope"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	require.NoError(t, store.Put(context.Background(), "x.json", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x.json", entries[0].Name())
}

func TestTrimRoot(t *testing.T) {
	assert.Equal(t, "a.json", TrimRoot("prefix/a.json", "prefix"))
	assert.Equal(t, "a.json", TrimRoot("prefix/a.json", "prefix/"))
	assert.Equal(t, "a.json", TrimRoot("a.json", ""))
}
