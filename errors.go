package rankeval

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rankeval/auc"
	"github.com/hupe1980/rankeval/dataset"
	"github.com/hupe1980/rankeval/distance"
	"github.com/hupe1980/rankeval/internal/centroid"
	"github.com/hupe1980/rankeval/internal/resource"
	"github.com/hupe1980/rankeval/stats"
)

var (
	// ErrInvalidOption is returned by New for an out-of-range option value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidPartition is returned when the groups do not cover every
	// dataset ID exactly once.
	ErrInvalidPartition = errors.New("invalid partition")

	// ErrEmptyGroup is returned for a group without members.
	ErrEmptyGroup = errors.New("empty group")

	// ErrDegenerateInput is returned when a group leaves no positives or no
	// negatives to score against, e.g. a single group spanning the dataset.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrIncompleteRanking is returned when a ranker does not return every
	// dataset point.
	ErrIncompleteRanking = errors.New("incomplete ranking")

	// ErrAlreadyRun is returned by a second call to Run.
	ErrAlreadyRun = errors.New("evaluator already run")

	// ErrShape is returned when a weight matrix is not square.
	ErrShape = distance.ErrShape
)

// ErrDimensionMismatch indicates a vector dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// GroupError reports the group a failure occurred in.
type GroupError struct {
	Label string
	Size  int
	cause error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("group %q (%d members): %v", e.Label, e.Size, e.cause)
}

func (e *GroupError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *distance.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	if errors.Is(err, dataset.ErrInvalidPartition) {
		return fmt.Errorf("%w: %w", ErrInvalidPartition, err)
	}
	if errors.Is(err, centroid.ErrEmptyGroup) || errors.Is(err, stats.ErrEmptyGroup) {
		return fmt.Errorf("%w: %w", ErrEmptyGroup, err)
	}
	if errors.Is(err, auc.ErrDegenerateInput) {
		return fmt.Errorf("%w: %w", ErrDegenerateInput, err)
	}
	if errors.Is(err, resource.ErrExceedsLimit) {
		return fmt.Errorf("%w: memory limit below one ranking: %w", ErrInvalidOption, err)
	}

	return err
}
