package stats

import (
	"errors"
	"fmt"
)

// DefaultNumBins is the number of percentile bins used when none is configured.
const DefaultNumBins = 100

var (
	// ErrInvalidBins is returned for a non-positive bin count.
	ErrInvalidBins = errors.New("number of bins must be positive")

	// ErrEmptyGroup is returned when binning a position within a group of size zero.
	ErrEmptyGroup = errors.New("group size must be positive")

	// ErrBinMismatch is returned when merging histograms of different sizes.
	ErrBinMismatch = errors.New("histogram bin count mismatch")
)

// BinIndex maps the 0-based position ind within a group of n members to a
// percentile bin: clamp(floor(numBins*ind/n), 0, numBins-1).
func BinIndex(numBins, n, ind int) (int, error) {
	if numBins <= 0 {
		return 0, ErrInvalidBins
	}
	if n <= 0 {
		return 0, ErrEmptyGroup
	}

	bin := int(int64(numBins) * int64(ind) / int64(n))
	if bin < 0 {
		return 0, nil
	}
	if bin >= numBins {
		return numBins - 1, nil
	}
	return bin, nil
}

// Row is one line of the evaluation output.
type Row struct {
	// Percentile is the lower edge of the bin, i/numBins.
	Percentile float64 `json:"percentile"`
	// Count is the number of scores in the bin.
	Count int64 `json:"count"`
	// Mean is the mean score of the bin (0 when empty).
	Mean float64 `json:"mean"`
	// Variance is the sample variance of the bin (0 with fewer than two scores).
	Variance float64 `json:"variance"`
}

func (r Row) String() string {
	return fmt.Sprintf("%.2f\t%d\t%.6f\t%.6f", r.Percentile, r.Count, r.Mean, r.Variance)
}

// Histogram is a fixed array of MeanVariance bins over normalized rank
// position. It is not safe for concurrent use.
type Histogram struct {
	bins []MeanVariance
}

// NewHistogram creates a histogram with numBins empty bins.
func NewHistogram(numBins int) (*Histogram, error) {
	if numBins <= 0 {
		return nil, ErrInvalidBins
	}
	return &Histogram{bins: make([]MeanVariance, numBins)}, nil
}

// NumBins returns the number of bins.
func (h *Histogram) NumBins() int { return len(h.bins) }

// Add folds score into the bin of position ind within a group of n members.
func (h *Histogram) Add(n, ind int, score float64) error {
	bin, err := BinIndex(len(h.bins), n, ind)
	if err != nil {
		return err
	}
	h.bins[bin].Add(score)
	return nil
}

// Bin returns the accumulator of bin i.
func (h *Histogram) Bin(i int) MeanVariance { return h.bins[i] }

// Count returns the total number of samples over all bins.
func (h *Histogram) Count() int64 {
	var total int64
	for _, b := range h.bins {
		total += b.n
	}
	return total
}

// Merge folds other into h bin by bin.
func (h *Histogram) Merge(other *Histogram) error {
	if other == nil {
		return nil
	}
	if len(other.bins) != len(h.bins) {
		return fmt.Errorf("%w: %d != %d", ErrBinMismatch, len(other.bins), len(h.bins))
	}
	for i := range h.bins {
		h.bins[i].Merge(other.bins[i])
	}
	return nil
}

// Rows returns exactly NumBins rows, ascending by percentile.
func (h *Histogram) Rows() []Row {
	rows := make([]Row, len(h.bins))
	for i, b := range h.bins {
		rows[i] = Row{
			Percentile: float64(i) / float64(len(h.bins)),
			Count:      b.Count(),
			Mean:       b.Mean(),
			Variance:   b.Variance(),
		}
	}
	return rows
}
