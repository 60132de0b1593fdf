// Package stats provides the percentile binning and online mean/variance
// accumulators used to aggregate ranking-quality scores.
//
// # Binning
//
// A member at 0-based position ind of a group of size n falls into bin
//
//	clamp(floor(numBins*ind/n), 0, numBins-1)
//
// computed with integer arithmetic, so identical inputs always yield the same
// bin.
//
// # Accumulation
//
// MeanVariance uses Welford's single-pass update. Partial accumulators are
// exactly mergeable (Chan et al.), which lets workers accumulate locally and
// combine at the end without sharing state.
//
// # Empty Bins
//
// A bin without samples reports Count=0, Mean=0 and Variance=0. A bin with a
// single sample reports Variance=0.
package stats
