package rankeval

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/rankeval/dataset"
	"github.com/hupe1980/rankeval/distance"
	"github.com/hupe1980/rankeval/model"
	"github.com/hupe1980/rankeval/stats"
	"github.com/hupe1980/rankeval/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func twoPairs() (*dataset.MemoryStore, dataset.StaticPartition) {
	return testutil.Line(0, 1, 10, 11), dataset.StaticPartition{
		{Label: "A", Members: []model.ID{0, 1}},
		{Label: "B", Members: []model.ID{2, 3}},
	}
}

func TestRun_TwoPairs(t *testing.T) {
	store, groups := twoPairs()

	ev, err := New(store, groups, distance.Euclidean{})
	require.NoError(t, err)
	assert.Equal(t, StateInit, ev.State())

	res, err := ev.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, ev.State())

	require.Len(t, res.Rows, 100)
	assert.Equal(t, 2, res.Groups)
	assert.Equal(t, 4, res.Points)
	assert.Equal(t, 0, res.SkippedGroups)
	assert.Equal(t, "euclidean", res.Metric)

	for i, row := range res.Rows {
		assert.InDelta(t, float64(i)/100, row.Percentile, 1e-15)
		switch i {
		case 0, 50:
			assert.Equal(t, int64(2), row.Count)
			assert.Equal(t, 1.0, row.Mean)
			assert.Equal(t, 0.0, row.Variance)
		default:
			assert.Equal(t, int64(0), row.Count)
			assert.Equal(t, 0.0, row.Mean)
			assert.Equal(t, 0.0, row.Variance)
		}
	}
}

func TestRun_IdentityWeightsMatchEuclidean(t *testing.T) {
	store, groups := testutil.NewRNG(11).ClusteredDataset(120, 3, 4, 0.4)

	w, err := distance.NewMatrixWeighted(distance.Identity(3))
	require.NoError(t, err)

	run := func(m distance.Metric) *Result {
		ev, err := New(store, groups, m, WithNumBins(10))
		require.NoError(t, err)
		res, err := ev.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	want := run(distance.Euclidean{})
	got := run(w)

	require.Len(t, got.Rows, len(want.Rows))
	for i := range want.Rows {
		assert.Equal(t, want.Rows[i].Count, got.Rows[i].Count)
		assert.InDelta(t, want.Rows[i].Mean, got.Rows[i].Mean, 1e-12)
		assert.InDelta(t, want.Rows[i].Variance, got.Rows[i].Variance, 1e-12)
	}
}

func TestRun_WorkersDoNotChangeResult(t *testing.T) {
	store, groups := testutil.NewRNG(5).ClusteredDataset(300, 4, 5, 0.6)

	run := func(workers int) *Result {
		ev, err := New(store, groups, distance.Manhattan{}, WithNumBins(10), WithWorkers(workers))
		require.NoError(t, err)
		res, err := ev.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	one := run(1)
	assert.Equal(t, one.Rows, run(3).Rows)
	assert.Equal(t, one.Rows, run(8).Rows)
	assert.Equal(t, one.Rows, run(64).Rows)
}

func TestRun_MemberOrderDoesNotChangeResult(t *testing.T) {
	rng := testutil.NewRNG(21)
	store, groups := rng.ClusteredDataset(150, 5, 3, 0.7)

	shuffled := make(dataset.StaticPartition, len(groups))
	for i, g := range groups {
		members := make([]model.ID, len(g.Members))
		for j, k := range rng.Perm(len(g.Members)) {
			members[j] = g.Members[k]
		}
		shuffled[i] = model.Group{Label: g.Label, Members: members}
	}

	run := func(p dataset.Partitioner) *Result {
		ev, err := New(store, p, distance.Euclidean{}, WithNumBins(10), WithWorkers(4))
		require.NoError(t, err)
		res, err := ev.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, run(groups).Rows, run(shuffled).Rows)
}

func TestRun_TightClustersScoreHigh(t *testing.T) {
	store, groups := testutil.NewRNG(9).ClusteredDataset(200, 8, 4, 0.01)

	ev, err := New(store, groups, distance.SquaredEuclidean{}, WithNumBins(4))
	require.NoError(t, err)
	res, err := ev.Run(context.Background())
	require.NoError(t, err)

	var total int64
	for _, row := range res.Rows {
		total += row.Count
		assert.Greater(t, row.Mean, 0.99)
	}
	assert.Equal(t, int64(200), total)
}

func TestRun_SingleGroupIsDegenerate(t *testing.T) {
	store := testutil.Line(0, 1, 10, 11)
	groups := dataset.StaticPartition{{Label: "all", Members: []model.ID{0, 1, 2, 3}}}

	ev, err := New(store, groups, distance.Euclidean{})
	require.NoError(t, err)

	res, err := ev.Run(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrDegenerateInput)
	assert.Equal(t, StateFailed, ev.State())

	var ge *GroupError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "all", ge.Label)
}

func TestRun_GroupPolicy(t *testing.T) {
	store, pairs := twoPairs()
	groups := append(pairs, model.Group{Label: "empty"})

	t.Run("Abort", func(t *testing.T) {
		ev, err := New(store, groups, distance.Euclidean{})
		require.NoError(t, err)

		_, err = ev.Run(context.Background())
		assert.ErrorIs(t, err, ErrEmptyGroup)
	})

	t.Run("Skip", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(slog.NewJSONHandler(&buf, nil))

		ev, err := New(store, groups, distance.Euclidean{}, WithGroupPolicy(PolicySkip), WithLogger(logger))
		require.NoError(t, err)

		res, err := ev.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, res.Groups)
		assert.Equal(t, 1, res.SkippedGroups)
		assert.Equal(t, 4, res.Points)
		assert.Contains(t, buf.String(), "group skipped")
		assert.Contains(t, buf.String(), `"label":"empty"`)
	})

	t.Run("SkipDegenerate", func(t *testing.T) {
		all := dataset.StaticPartition{{Label: "all", Members: []model.ID{0, 1, 2, 3}}}

		ev, err := New(store, all, distance.Euclidean{}, WithGroupPolicy(PolicySkip))
		require.NoError(t, err)

		res, err := ev.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, res.Groups)
		assert.Equal(t, 1, res.SkippedGroups)
		for _, row := range res.Rows {
			assert.Equal(t, int64(0), row.Count)
		}
	})
}

func TestRun_InvalidPartition(t *testing.T) {
	store := testutil.Line(0, 1, 10, 11)
	groups := dataset.StaticPartition{
		{Label: "A", Members: []model.ID{0, 1}},
		{Label: "B", Members: []model.ID{2}},
	}

	ev, err := New(store, groups, distance.Euclidean{})
	require.NoError(t, err)

	_, err = ev.Run(context.Background())
	assert.ErrorIs(t, err, ErrInvalidPartition)
	assert.ErrorIs(t, err, dataset.ErrInvalidPartition)
	assert.Equal(t, StateFailed, ev.State())
}

func TestRun_DimensionMismatch(t *testing.T) {
	store, groups := twoPairs()

	w, err := distance.NewMatrixWeighted(distance.Identity(2))
	require.NoError(t, err)

	ev, err := New(store, groups, w)
	require.NoError(t, err)

	_, err = ev.Run(context.Background())
	var dm *ErrDimensionMismatch
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 1, dm.Actual)
}

func TestRun_AlreadyRun(t *testing.T) {
	store, groups := twoPairs()

	ev, err := New(store, groups, distance.Euclidean{})
	require.NoError(t, err)

	_, err = ev.Run(context.Background())
	require.NoError(t, err)

	_, err = ev.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRun)
	assert.Equal(t, StateDone, ev.State())
}

func TestRun_Canceled(t *testing.T) {
	store, groups := twoPairs()

	ev, err := New(store, groups, distance.Euclidean{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ev.Run(ctx)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, ev.State())
}

func TestRun_Progress(t *testing.T) {
	store, groups := testutil.NewRNG(3).ClusteredDataset(50, 2, 2, 0.1)

	var (
		mu     sync.Mutex
		calls  []Progress
		states []State
	)

	var ev *Evaluator
	ev, err := New(store, groups, distance.Euclidean{},
		WithWorkers(4),
		WithProgressInterval(0),
		WithProgress(func(p Progress) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, p)
			states = append(states, ev.State())
		}),
	)
	require.NoError(t, err)

	_, err = ev.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, calls, 51)
	assert.Equal(t, Progress{Processed: 50, Total: 50}, calls[len(calls)-1])
	for i, p := range calls {
		assert.Equal(t, 50, p.Total)
		assert.LessOrEqual(t, p.Processed, 50)
		assert.Equal(t, StateScoring, states[i])
	}
}

func TestRun_BasicMetrics(t *testing.T) {
	store, groups := twoPairs()
	mc := &BasicMetricsCollector{}

	ev, err := New(store, groups, distance.Euclidean{}, WithMetricsCollector(mc))
	require.NoError(t, err)
	_, err = ev.Run(context.Background())
	require.NoError(t, err)

	s := mc.GetStats()
	assert.Equal(t, int64(2), s.GroupCount)
	assert.Equal(t, int64(4), s.GroupMembers)
	assert.Equal(t, int64(0), s.GroupErrors)
	assert.Equal(t, int64(4), s.QueryCount)
	assert.Equal(t, int64(1), s.RunCount)
	assert.Equal(t, int64(0), s.RunErrors)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) RecordGroup(size int, _ time.Duration, err error) {
	m.Called(size, err)
}

func (m *mockMetrics) RecordQuery(time.Duration) {
	m.Called()
}

func (m *mockMetrics) RecordRun(groups, points int, _ time.Duration, err error) {
	m.Called(groups, points, err)
}

func TestRun_MetricsOnSkip(t *testing.T) {
	store, pairs := twoPairs()
	groups := append(pairs, model.Group{Label: "empty"})

	mc := &mockMetrics{}
	mc.On("RecordGroup", 0, mock.MatchedBy(func(err error) bool { return err != nil })).Once()
	mc.On("RecordGroup", 2, nil).Twice()
	mc.On("RecordQuery").Times(4)
	mc.On("RecordRun", 2, 4, nil).Once()

	ev, err := New(store, groups, distance.Euclidean{}, WithGroupPolicy(PolicySkip), WithMetricsCollector(mc))
	require.NoError(t, err)
	_, err = ev.Run(context.Background())
	require.NoError(t, err)

	mc.AssertExpectations(t)
}

type mockRanker struct {
	mock.Mock
}

func (m *mockRanker) Rank(ctx context.Context, query model.Vector, metric distance.Metric) ([]model.Neighbor, error) {
	args := m.Called(ctx, query, metric)
	ns, _ := args.Get(0).([]model.Neighbor)
	return ns, args.Error(1)
}

func TestRun_RankerErrors(t *testing.T) {
	store, groups := twoPairs()

	t.Run("Incomplete", func(t *testing.T) {
		r := &mockRanker{}
		r.On("Rank", mock.Anything, mock.Anything, mock.Anything).
			Return([]model.Neighbor{{ID: 0}, {ID: 1}}, nil)

		ev, err := New(store, groups, distance.Euclidean{}, WithRanker(r))
		require.NoError(t, err)

		_, err = ev.Run(context.Background())
		assert.ErrorIs(t, err, ErrIncompleteRanking)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		r := &mockRanker{}
		r.On("Rank", mock.Anything, mock.Anything, mock.Anything).
			Return([]model.Neighbor{{ID: 0}, {ID: 1}, {ID: 2}, {ID: 2}}, nil)

		ev, err := New(store, groups, distance.Euclidean{}, WithRanker(r))
		require.NoError(t, err)

		_, err = ev.Run(context.Background())
		assert.ErrorIs(t, err, ErrIncompleteRanking)
	})

	t.Run("UnknownID", func(t *testing.T) {
		r := &mockRanker{}
		r.On("Rank", mock.Anything, mock.Anything, mock.Anything).
			Return([]model.Neighbor{{ID: 0}, {ID: 1}, {ID: 2}, {ID: 99}}, nil)

		ev, err := New(store, groups, distance.Euclidean{}, WithRanker(r))
		require.NoError(t, err)

		_, err = ev.Run(context.Background())
		assert.ErrorIs(t, err, ErrIncompleteRanking)
	})

	t.Run("Failure", func(t *testing.T) {
		boom := errors.New("boom")
		r := &mockRanker{}
		r.On("Rank", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

		ev, err := New(store, groups, distance.Euclidean{}, WithRanker(r), WithWorkers(2))
		require.NoError(t, err)

		res, err := ev.Run(context.Background())
		assert.Nil(t, res)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, StateFailed, ev.State())
	})
}

func TestNew_InvalidOptions(t *testing.T) {
	store, groups := twoPairs()

	tests := []struct {
		name string
		opt  Option
	}{
		{"ZeroBins", WithNumBins(0)},
		{"NegativeWorkers", WithWorkers(-1)},
		{"UnknownPolicy", WithGroupPolicy(GroupPolicy(7))},
		{"NegativeInterval", WithProgressInterval(-time.Second)},
		{"NegativeMemoryLimit", WithMemoryLimit(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(store, groups, distance.Euclidean{}, tt.opt)
			assert.ErrorIs(t, err, ErrInvalidOption)
		})
	}

	_, err := New(nil, groups, distance.Euclidean{})
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = New(store, nil, distance.Euclidean{})
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = New(store, groups, nil)
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestRun_MemoryLimit(t *testing.T) {
	store, groups := testutil.NewRNG(8).ClusteredDataset(40, 2, 2, 0.2)

	unlimited, err := New(store, groups, distance.Euclidean{}, WithNumBins(5))
	require.NoError(t, err)
	want, err := unlimited.Run(context.Background())
	require.NoError(t, err)

	t.Run("OneRankingAtATime", func(t *testing.T) {
		ev, err := New(store, groups, distance.Euclidean{}, WithNumBins(5), WithWorkers(4), WithMemoryLimit(rankingBytes(40)))
		require.NoError(t, err)

		res, err := ev.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want.Rows, res.Rows)
	})

	t.Run("BelowOneRanking", func(t *testing.T) {
		ev, err := New(store, groups, distance.Euclidean{}, WithMemoryLimit(rankingBytes(40)-1))
		require.NoError(t, err)

		_, err = ev.Run(context.Background())
		assert.ErrorIs(t, err, ErrInvalidOption)
		assert.Equal(t, StateFailed, ev.State())
	})
}

func TestSplitByBin(t *testing.T) {
	for _, tc := range []struct{ n, bins, parts int }{
		{1, 100, 8}, {2, 100, 1}, {4, 100, 8}, {7, 3, 2}, {1000, 10, 3}, {1000, 100, 16}, {5, 100, 64},
	} {
		bounds := splitByBin(tc.n, tc.bins, tc.parts)

		require.GreaterOrEqual(t, len(bounds), 2)
		assert.Equal(t, 0, bounds[0])
		assert.Equal(t, tc.n, bounds[len(bounds)-1])
		assert.LessOrEqual(t, len(bounds)-1, tc.parts)

		for i := 1; i < len(bounds); i++ {
			assert.Less(t, bounds[i-1], bounds[i])
		}
		for _, b := range bounds[1 : len(bounds)-1] {
			prev, _ := stats.BinIndex(tc.bins, tc.n, b-1)
			cur, _ := stats.BinIndex(tc.bins, tc.n, b)
			assert.NotEqual(t, prev, cur, "boundary %d splits a bin", b)
		}
	}
}

func TestGroupPolicy(t *testing.T) {
	p, err := ParseGroupPolicy("skip")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)
	assert.Equal(t, "skip", p.String())

	_, err = ParseGroupPolicy("retry")
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "centroids-computed", StateCentroidsComputed.String())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateScoring.Terminal())
}
