package prometheus

import (
	"time"

	"github.com/hupe1980/rankeval"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "rankeval"

// Compile-time check to ensure Collector satisfies rankeval.MetricsCollector.
var _ rankeval.MetricsCollector = (*Collector)(nil)

// Collector implements rankeval.MetricsCollector with Prometheus metrics.
type Collector struct {
	groups       *prom.CounterVec
	groupSize    prom.Histogram
	groupLatency prom.Histogram
	queryLatency prom.Histogram
	runs         *prom.CounterVec
	runLatency   prom.Histogram
	pointsScored prom.Counter
	groupsScored prom.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg leaves the metrics unregistered.
func NewCollector(reg prom.Registerer) (*Collector, error) {
	c := &Collector{
		groups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "groups_total",
			Help:      "Groups processed, by status (success, error, skipped).",
		}, []string{"status"}),
		groupSize: prom.NewHistogram(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "group_size",
			Help:      "Number of members per processed group.",
			Buckets:   prom.ExponentialBuckets(1, 4, 10),
		}),
		groupLatency: prom.NewHistogram(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "group_duration_seconds",
			Help:      "Time to score all members of a group.",
			Buckets:   prom.DefBuckets,
		}),
		queryLatency: prom.NewHistogram(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "query_duration_seconds",
			Help:      "Time to rank the dataset and score the ranking for one point.",
			Buckets:   prom.ExponentialBuckets(0.00001, 4, 12),
		}),
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Evaluation runs, by status (success, error).",
		}, []string{"status"}),
		runLatency: prom.NewHistogram(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of evaluation runs.",
			Buckets:   prom.ExponentialBuckets(0.01, 4, 10),
		}),
		pointsScored: prom.NewCounter(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "points_scored_total",
			Help:      "Points scored by successful runs.",
		}),
		groupsScored: prom.NewCounter(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "groups_scored_total",
			Help:      "Groups scored by successful runs.",
		}),
	}

	if reg != nil {
		for _, m := range c.collectors() {
			if err := reg.Register(m); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func (c *Collector) collectors() []prom.Collector {
	return []prom.Collector{
		c.groups,
		c.groupSize,
		c.groupLatency,
		c.queryLatency,
		c.runs,
		c.runLatency,
		c.pointsScored,
		c.groupsScored,
	}
}

// RecordGroup implements rankeval.MetricsCollector.
// Skipped groups are reported with a zero duration and a non-nil error.
func (c *Collector) RecordGroup(size int, duration time.Duration, err error) {
	switch {
	case err == nil:
		c.groups.WithLabelValues("success").Inc()
		c.groupLatency.Observe(duration.Seconds())
	case duration == 0:
		c.groups.WithLabelValues("skipped").Inc()
	default:
		c.groups.WithLabelValues("error").Inc()
	}
	c.groupSize.Observe(float64(size))
}

// RecordQuery implements rankeval.MetricsCollector.
func (c *Collector) RecordQuery(duration time.Duration) {
	c.queryLatency.Observe(duration.Seconds())
}

// RecordRun implements rankeval.MetricsCollector.
func (c *Collector) RecordRun(groups, points int, duration time.Duration, err error) {
	c.runLatency.Observe(duration.Seconds())
	if err != nil {
		c.runs.WithLabelValues("error").Inc()
		return
	}
	c.runs.WithLabelValues("success").Inc()
	c.groupsScored.Add(float64(groups))
	c.pointsScored.Add(float64(points))
}
