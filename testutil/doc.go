// Package testutil provides testing utilities for rankeval.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, concurrency-safe random source and generators for
// uniform, Gaussian and clustered datasets with ground-truth groups.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(1000, 16)   // uniform [0, 1)
//	vecs = rng.GaussianVectors(1000, 16)   // standard normal
//
// # Clustered Datasets
//
//	store, groups := rng.ClusteredDataset(1000, 16, 10, 0.05)
package testutil
