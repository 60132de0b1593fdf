package rankeval

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/rankeval/auc"
	"github.com/hupe1980/rankeval/dataset"
	"github.com/hupe1980/rankeval/distance"
	"github.com/hupe1980/rankeval/internal/centroid"
	"github.com/hupe1980/rankeval/internal/resource"
	"github.com/hupe1980/rankeval/model"
	"github.com/hupe1980/rankeval/neighbor"
	"github.com/hupe1980/rankeval/stats"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a successful run.
type Result struct {
	// Rows holds exactly NumBins rows ascending by percentile.
	Rows []stats.Row `json:"rows"`
	// NumBins is the number of percentile bins.
	NumBins int `json:"num_bins"`
	// Groups is the number of scored groups.
	Groups int `json:"groups"`
	// Points is the number of scored points.
	Points int `json:"points"`
	// SkippedGroups is the number of groups left out under PolicySkip.
	SkippedGroups int `json:"skipped_groups"`
	// Metric is the name of the evaluated metric.
	Metric string `json:"metric"`
	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`
}

// Evaluator measures how well a distance metric ranks the points of a
// point's own group ahead of all other points.
//
// An Evaluator runs once. Its state moves strictly forward from StateInit to
// StateDone, or to StateFailed on any error.
type Evaluator struct {
	store       dataset.Store
	partitioner dataset.Partitioner
	metric      distance.Metric
	opts        options

	// all holds every dataset ID; a ranking must cover it exactly.
	all *roaring.Bitmap

	started atomic.Bool
	state   atomic.Int32
}

// New creates an Evaluator for metric over the points of store grouped by
// partitioner.
func New(store dataset.Store, partitioner dataset.Partitioner, metric distance.Metric, optFns ...Option) (*Evaluator, error) {
	switch {
	case store == nil:
		return nil, fmt.Errorf("%w: nil store", ErrInvalidOption)
	case partitioner == nil:
		return nil, fmt.Errorf("%w: nil partitioner", ErrInvalidOption)
	case metric == nil:
		return nil, fmt.Errorf("%w: nil metric", ErrInvalidOption)
	}

	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	return &Evaluator{
		store:       store,
		partitioner: partitioner,
		metric:      metric,
		opts:        opts,
	}, nil
}

// State returns the current lifecycle state.
func (e *Evaluator) State() State {
	return State(e.state.Load())
}

func (e *Evaluator) advance(s State) {
	e.state.Store(int32(s))
}

// Run evaluates the metric over every group.
//
// Either the whole dataset is scored and a Result is returned, or an error
// is returned and no result is surfaced. Run returns ErrAlreadyRun when
// called more than once.
func (e *Evaluator) Run(ctx context.Context) (*Result, error) {
	if !e.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}

	start := time.Now()
	logger := e.opts.logger.WithMetric(e.metric.Name())

	res, err := e.run(ctx, logger)
	duration := time.Since(start)

	if err != nil {
		err = translateError(err)
		e.advance(StateFailed)
		e.opts.metricsCollector.RecordRun(0, 0, duration, err)
		logger.LogRun(ctx, 0, 0, 0, duration, err)
		return nil, err
	}

	res.Duration = duration
	e.advance(StateDone)
	e.opts.metricsCollector.RecordRun(res.Groups, res.Points, duration, nil)
	logger.LogRun(ctx, res.Groups, res.Points, res.SkippedGroups, duration, nil)

	return res, nil
}

func (e *Evaluator) run(ctx context.Context, logger *Logger) (*Result, error) {
	groups, err := e.partition(ctx)
	if err != nil {
		return nil, err
	}
	e.advance(StatePartitioned)

	logger.LogRunStart(ctx, e.store.Len(), len(groups), e.opts.numBins, e.opts.workers)

	plans, skipped, err := e.plan(ctx, logger, groups)
	if err != nil {
		return nil, err
	}
	e.advance(StateCentroidsComputed)

	ranker := e.opts.ranker
	if ranker == nil {
		flat, err := neighbor.NewFlat(e.store)
		if err != nil {
			return nil, err
		}
		ranker = flat
	}

	e.all = auc.Positives(e.store.IDs())
	e.advance(StateScoring)

	points := 0
	for _, p := range plans {
		points += len(p.order)
	}
	progress := newProgressReporter(e.opts.progress, points, e.opts.progressInterval)
	mem := resource.NewController(resource.Config{MemoryLimitBytes: e.opts.memoryLimit})

	hist, err := stats.NewHistogram(e.opts.numBins)
	if err != nil {
		return nil, err
	}

	for _, p := range plans {
		start := time.Now()
		gh, err := e.scoreGroup(ctx, ranker, mem, p, progress)
		duration := time.Since(start)

		e.opts.metricsCollector.RecordGroup(len(p.order), duration, err)
		logger.LogGroup(ctx, p.label, len(p.order), duration, err)

		if err != nil {
			return nil, &GroupError{Label: p.label, Size: len(p.order), cause: err}
		}
		if err := hist.Merge(gh); err != nil {
			return nil, err
		}
	}

	progress.finish()
	logger.DebugContext(ctx, "scoring finished", "peak_ranking_bytes", mem.PeakMemoryUsage())
	e.advance(StateAggregated)

	return &Result{
		Rows:          hist.Rows(),
		NumBins:       e.opts.numBins,
		Groups:        len(plans),
		Points:        points,
		SkippedGroups: skipped,
		Metric:        e.metric.Name(),
	}, nil
}

func (e *Evaluator) partition(ctx context.Context) ([]model.Group, error) {
	groups, err := e.partitioner.Partition(ctx, e.store)
	if err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}
	if err := dataset.Validate(e.store, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// groupPlan is a group whose centroid order is fixed and ready for scoring.
type groupPlan struct {
	label     string
	order     []model.ID     // ascending by distance to centroid, then ID
	vectors   []model.Vector // parallel to order
	positives *roaring.Bitmap
}

func (e *Evaluator) plan(ctx context.Context, logger *Logger, groups []model.Group) ([]groupPlan, int, error) {
	n := e.store.Len()
	plans := make([]groupPlan, 0, len(groups))
	skipped := 0

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		p, err := e.planGroup(g, n)
		if err != nil {
			if e.opts.policy == PolicySkip && isPolicyError(err) {
				skipped++
				logger.LogGroupSkipped(ctx, g.Label, g.Size(), err)
				e.opts.metricsCollector.RecordGroup(g.Size(), 0, err)
				continue
			}
			return nil, 0, &GroupError{Label: g.Label, Size: g.Size(), cause: err}
		}
		plans = append(plans, p)
	}

	return plans, skipped, nil
}

func (e *Evaluator) planGroup(g model.Group, n int) (groupPlan, error) {
	if g.Size() == 0 {
		return groupPlan{}, centroid.ErrEmptyGroup
	}
	if g.Size() >= n {
		return groupPlan{}, fmt.Errorf("%w: %d positives, 0 negatives", auc.ErrDegenerateInput, g.Size())
	}

	// Members are summed in ID order so the centroid does not depend on
	// the order the partitioner listed them in.
	ids := slices.Clone(g.Members)
	slices.Sort(ids)

	vectors := make([]model.Vector, len(ids))
	for i, id := range ids {
		v, err := e.store.Get(id)
		if err != nil {
			return groupPlan{}, err
		}
		vectors[i] = v
	}

	c, err := centroid.Compute(vectors)
	if err != nil {
		return groupPlan{}, err
	}

	ordered, err := centroid.OrderByDistance(ids, vectors, c, e.metric)
	if err != nil {
		return groupPlan{}, err
	}

	p := groupPlan{
		label:     g.Label,
		order:     make([]model.ID, len(ordered)),
		vectors:   make([]model.Vector, len(ordered)),
		positives: auc.Positives(ids),
	}
	for i, nb := range ordered {
		pos, _ := slices.BinarySearch(ids, nb.ID)
		p.order[i] = nb.ID
		p.vectors[i] = vectors[pos]
	}

	return p, nil
}

func isPolicyError(err error) bool {
	return errors.Is(err, centroid.ErrEmptyGroup) || errors.Is(err, auc.ErrDegenerateInput)
}

// rankingBytes is the memory reserved for one full ranking of size points.
func rankingBytes(size int) int64 {
	return int64(size) * int64(unsafe.Sizeof(model.Neighbor{}))
}

func (e *Evaluator) scoreGroup(ctx context.Context, ranker neighbor.Ranker, mem *resource.Controller, p groupPlan, progress *progressReporter) (*stats.Histogram, error) {
	n := len(p.order)
	size := e.store.Len()
	reserve := rankingBytes(size)
	bounds := splitByBin(n, e.opts.numBins, e.opts.workers)
	partials := make([]*stats.Histogram, len(bounds)-1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.workers)

	for c := range partials {
		lo, hi := bounds[c], bounds[c+1]
		g.Go(func() error {
			h, err := stats.NewHistogram(e.opts.numBins)
			if err != nil {
				return err
			}
			for ind := lo; ind < hi; ind++ {
				start := time.Now()

				if err := mem.AcquireMemory(gctx, reserve); err != nil {
					return err
				}
				score, err := e.scoreMember(gctx, ranker, p, ind, size)
				mem.ReleaseMemory(reserve)
				if err != nil {
					return err
				}
				if err := h.Add(n, ind, score); err != nil {
					return err
				}

				e.opts.metricsCollector.RecordQuery(time.Since(start))
				progress.add(1)
			}
			partials[c] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, err := stats.NewHistogram(e.opts.numBins)
	if err != nil {
		return nil, err
	}
	for _, h := range partials {
		if err := merged.Merge(h); err != nil {
			return nil, err
		}
	}

	return merged, nil
}

func (e *Evaluator) scoreMember(ctx context.Context, ranker neighbor.Ranker, p groupPlan, ind, size int) (float64, error) {
	ranking, err := ranker.Rank(ctx, p.vectors[ind], e.metric)
	if err != nil {
		return 0, err
	}
	if len(ranking) != size {
		return 0, fmt.Errorf("%w: %d of %d points", ErrIncompleteRanking, len(ranking), size)
	}

	seen := roaring.New()
	for _, nb := range ranking {
		seen.Add(uint32(nb.ID))
	}
	if !seen.Equals(e.all) {
		return 0, fmt.Errorf("%w: %d distinct of %d points", ErrIncompleteRanking, seen.GetCardinality(), size)
	}
	return auc.Score(ranking, p.positives)
}

// splitByBin cuts [0,n) into at most parts contiguous chunks of similar
// size. Boundaries fall on bin boundaries, so each bin of a group is filled
// by a single chunk in member order and the merged result does not depend
// on parts.
func splitByBin(n, numBins, parts int) []int {
	bounds := []int{0}
	next := 1
	prev := 0

	for ind := 1; ind < n && next < parts; ind++ {
		bin, _ := stats.BinIndex(numBins, n, ind) // n > 0
		if bin == prev {
			continue
		}
		prev = bin
		if ind*parts >= next*n {
			bounds = append(bounds, ind)
			for ind*parts >= next*n {
				next++
			}
		}
	}

	return append(bounds, n)
}
