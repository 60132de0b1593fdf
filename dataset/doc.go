// Package dataset provides the inputs of an evaluation run: a read-only
// store of feature vectors and a ground-truth partition of its IDs.
//
// # Stores
//
//	ds := dataset.NewMemoryStore(2)
//	_ = ds.Add(0, model.Vector{0, 0})
//
// # Partitions
//
// ByLabel groups IDs by caller-supplied labels; StaticPartition returns a
// fixed list of groups. Validate checks that groups cover every ID of a
// store exactly once.
//
// # Files
//
// Load and Save read and write datasets as codec-encoded record arrays
//
//	[{"id":0,"label":"a","vector":[0,0]}, ...]
//
// through a blobstore.BlobStore. Names ending in ".zst" or ".lz4" are
// transparently (de)compressed.
package dataset
