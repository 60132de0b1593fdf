package rankeval

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/hupe1980/rankeval/neighbor"
	"github.com/hupe1980/rankeval/stats"
)

// DefaultProgressInterval is the minimum time between progress callbacks.
const DefaultProgressInterval = time.Second

// GroupPolicy decides what happens to a group that cannot be scored
// because it is empty or degenerate.
type GroupPolicy int

const (
	// PolicyAbort fails the run. It is the default.
	PolicyAbort GroupPolicy = iota
	// PolicySkip leaves the group out of the result, logs a warning and
	// counts it in Result.SkippedGroups.
	PolicySkip
)

func (p GroupPolicy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicySkip:
		return "skip"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParseGroupPolicy parses "abort" or "skip".
func ParseGroupPolicy(s string) (GroupPolicy, error) {
	switch s {
	case "abort", "":
		return PolicyAbort, nil
	case "skip":
		return PolicySkip, nil
	default:
		return 0, fmt.Errorf("%w: group policy %q", ErrInvalidOption, s)
	}
}

// Progress reports how many group members have been scored.
type Progress struct {
	Processed int
	Total     int
}

type options struct {
	numBins          int
	workers          int
	policy           GroupPolicy
	progress         func(Progress)
	progressInterval time.Duration
	ranker           neighbor.Ranker
	memoryLimit      int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Evaluator.
type Option func(*options)

// WithNumBins sets the number of percentile bins of the result.
// Default: 100.
func WithNumBins(n int) Option {
	return func(o *options) {
		o.numBins = n
	}
}

// WithWorkers sets the number of goroutines scoring the members of a group.
// Default: runtime.GOMAXPROCS(0). The result does not depend on it.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithGroupPolicy sets how empty or degenerate groups are handled.
// Default: PolicyAbort.
func WithGroupPolicy(p GroupPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithProgress registers a progress callback.
//
// The callback is invoked at most once per progress interval from scoring
// goroutines, and once more with Processed == Total when scoring finishes.
// Calls are serialized.
func WithProgress(fn func(Progress)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithProgressInterval sets the minimum time between progress callbacks.
// Default: DefaultProgressInterval.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

// WithRanker replaces the brute-force neighbor.Flat ranker built over the
// store. The ranker must return exact full rankings.
func WithRanker(r neighbor.Ranker) Option {
	return func(o *options) {
		o.ranker = r
	}
}

// WithMemoryLimit bounds the memory held by rankings that are being scored
// at the same time. Each ranking holds one entry per dataset point; workers
// wait for memory when the limit is reached. Default: 0 (unlimited).
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &rankeval.BasicMetricsCollector{}
//	ev, _ := rankeval.New(store, groups, metric, rankeval.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := rankeval.NewJSONLogger(slog.LevelInfo)
//	ev, _ := rankeval.New(store, groups, metric, rankeval.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) (options, error) {
	o := options{
		numBins:          stats.DefaultNumBins,
		workers:          runtime.GOMAXPROCS(0),
		policy:           PolicyAbort,
		progressInterval: DefaultProgressInterval,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}

	switch {
	case o.numBins <= 0:
		return o, fmt.Errorf("%w: number of bins %d", ErrInvalidOption, o.numBins)
	case o.workers <= 0:
		return o, fmt.Errorf("%w: workers %d", ErrInvalidOption, o.workers)
	case o.policy != PolicyAbort && o.policy != PolicySkip:
		return o, fmt.Errorf("%w: group policy %s", ErrInvalidOption, o.policy)
	case o.memoryLimit < 0:
		return o, fmt.Errorf("%w: memory limit %d", ErrInvalidOption, o.memoryLimit)
	case o.progressInterval < 0:
		return o, fmt.Errorf("%w: progress interval %s", ErrInvalidOption, o.progressInterval)
	}

	return o, nil
}
