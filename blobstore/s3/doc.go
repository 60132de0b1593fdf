// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-1"))
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "datasets/")
//	ds, labels, err := dataset.Load(ctx, store, "iris.json.zst", nil)
//
// # Features
//
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
