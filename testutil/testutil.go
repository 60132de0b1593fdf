package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/rankeval/dataset"
	"github.com/hupe1980/rankeval/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call.
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) []model.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([]model.Vector, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}

	return vectors
}

// GaussianVectors generates random vectors with values from a standard normal distribution.
func (r *RNG) GaussianVectors(num int, dimensions int) []model.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([]model.Vector, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.NormFloat64()
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVectors generates L2-normalized random vectors (on the hypersphere).
func (r *RNG) UnitVectors(num int, dimensions int) []model.Vector {
	vectors := r.GaussianVectors(num, dimensions)

	for _, vec := range vectors {
		var norm float64
		for _, v := range vec {
			norm += v * v
		}
		if norm == 0 {
			continue
		}
		inv := 1 / math.Sqrt(norm)
		for j := range vec {
			vec[j] *= inv
		}
	}

	return vectors
}

// ClusteredVectors generates vectors clustered around random unit centroids.
// Vector i belongs to cluster i%clusters, which is returned alongside.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float64) ([]model.Vector, []int) {
	centroids := r.UnitVectors(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	vectors := make([]model.Vector, num)
	assign := make([]int, num)

	for i := range num {
		c := i % clusters
		centroid := centroids[c]
		vec := data[i*dim : (i+1)*dim : (i+1)*dim]

		for j := range dim {
			vec[j] = centroid[j] + r.rand.NormFloat64()*spread
		}
		vectors[i] = vec
		assign[i] = c
	}

	return vectors, assign
}

// ClusteredRecords generates labeled dataset records around random centroids.
// Labels are "c<cluster>" and IDs are 0..num-1.
func (r *RNG) ClusteredRecords(num, dim, clusters int, spread float64) []dataset.Record {
	vectors, assign := r.ClusteredVectors(num, dim, clusters, spread)

	records := make([]dataset.Record, num)
	for i, v := range vectors {
		records[i] = dataset.Record{
			ID:     model.ID(i),
			Label:  fmt.Sprintf("c%d", assign[i]),
			Vector: v,
		}
	}

	return records
}

// ClusteredDataset generates a clustered store and its ground-truth groups.
// It panics on invalid arguments.
func (r *RNG) ClusteredDataset(num, dim, clusters int, spread float64) (*dataset.MemoryStore, dataset.StaticPartition) {
	vectors, assign := r.ClusteredVectors(num, dim, clusters, spread)

	store, err := dataset.FromVectors(vectors)
	if err != nil {
		panic(err)
	}

	groups := make(dataset.StaticPartition, clusters)
	for c := range groups {
		groups[c].Label = fmt.Sprintf("c%d", c)
	}
	for i, c := range assign {
		groups[c].Members = append(groups[c].Members, model.ID(i))
	}

	return store, groups
}

// Line builds a one-dimensional store holding xs under IDs 0..len(xs)-1.
// It panics if xs is empty.
func Line(xs ...float64) *dataset.MemoryStore {
	vectors := make([]model.Vector, len(xs))
	for i, x := range xs {
		vectors[i] = model.Vector{x}
	}

	store, err := dataset.FromVectors(vectors)
	if err != nil {
		panic(err)
	}
	return store
}

// MeanVariance computes the mean and sample variance of xs in two passes.
// It is the reference for checking online accumulators.
func MeanVariance(xs []float64) (mean, variance float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	if len(xs) < 2 {
		return mean, 0
	}
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	return mean, variance / float64(len(xs)-1)
}

// RelativeError returns |got-want| relative to |want|, or the absolute error
// when want is zero.
func RelativeError(got, want float64) float64 {
	diff := math.Abs(got - want)
	if want == 0 {
		return diff
	}
	return diff / math.Abs(want)
}
