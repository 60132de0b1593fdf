// Package blobstore provides a storage abstraction for dataset files.
//
// A BlobStore holds named, immutable byte blobs. Datasets are small enough
// to be read whole, so the interface is object-shaped rather than
// range-read oriented. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: In-memory store for tests and tooling
//   - LocalStore: Local filesystem rooted at a directory
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Get(ctx, name) ([]byte, error)
//	    Put(ctx, name, data) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
