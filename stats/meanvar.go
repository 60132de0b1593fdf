package stats

// MeanVariance accumulates count, mean and the sum of squared deviations of
// a stream of samples. The zero value is ready to use.
//
// MeanVariance is not safe for concurrent use; give each goroutine its own
// accumulator and Merge them.
type MeanVariance struct {
	n    int64
	mean float64
	m2   float64
}

// Add folds x into the accumulator.
func (mv *MeanVariance) Add(x float64) {
	mv.n++
	delta := x - mv.mean
	mv.mean += delta / float64(mv.n)
	mv.m2 += delta * (x - mv.mean)
}

// Merge folds the samples of other into mv. The result equals accumulating
// both sample streams into a single accumulator, up to rounding.
func (mv *MeanVariance) Merge(other MeanVariance) {
	if other.n == 0 {
		return
	}
	if mv.n == 0 {
		*mv = other
		return
	}

	n := mv.n + other.n
	delta := other.mean - mv.mean
	na, nb := float64(mv.n), float64(other.n)

	mv.mean += delta * nb / float64(n)
	mv.m2 += other.m2 + delta*delta*na*nb/float64(n)
	mv.n = n
}

// Count returns the number of samples.
func (mv MeanVariance) Count() int64 { return mv.n }

// Mean returns the sample mean, or 0 without samples.
func (mv MeanVariance) Mean() float64 {
	if mv.n == 0 {
		return 0
	}
	return mv.mean
}

// Variance returns the unbiased sample variance (n-1 denominator), or 0 with
// fewer than two samples.
func (mv MeanVariance) Variance() float64 {
	if mv.n < 2 {
		return 0
	}
	return mv.m2 / float64(mv.n-1)
}

// PopulationVariance returns the population variance (n denominator), or 0
// without samples.
func (mv MeanVariance) PopulationVariance() float64 {
	if mv.n == 0 {
		return 0
	}
	return mv.m2 / float64(mv.n)
}
