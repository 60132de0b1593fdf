package rankeval

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/prometheus package provides a Prometheus implementation.
//
// Methods may be called from several goroutines at once.
type MetricsCollector interface {
	// RecordGroup is called after each group is scored or skipped.
	// size is the number of members, err is nil if successful.
	RecordGroup(size int, duration time.Duration, err error)

	// RecordQuery is called after each member's ranking has been scored.
	RecordQuery(duration time.Duration)

	// RecordRun is called once at the end of Run.
	// groups and points count what was scored, err is nil if successful.
	RecordRun(groups, points int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGroup(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordQuery(time.Duration)                {}
func (NoopMetricsCollector) RecordRun(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GroupCount      atomic.Int64
	GroupErrors     atomic.Int64
	GroupMembers    atomic.Int64
	QueryCount      atomic.Int64
	QueryTotalNanos atomic.Int64
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	RunTotalNanos   atomic.Int64
}

// RecordGroup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGroup(size int, duration time.Duration, err error) {
	b.GroupCount.Add(1)
	b.GroupMembers.Add(int64(size))
	if err != nil {
		b.GroupErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(duration time.Duration) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(groups, points int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GroupCount:    b.GroupCount.Load(),
		GroupErrors:   b.GroupErrors.Load(),
		GroupMembers:  b.GroupMembers.Load(),
		QueryCount:    b.QueryCount.Load(),
		QueryAvgNanos: b.getAvgQueryNanos(),
		RunCount:      b.RunCount.Load(),
		RunErrors:     b.RunErrors.Load(),
		RunTotalNanos: b.RunTotalNanos.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GroupCount    int64
	GroupErrors   int64
	GroupMembers  int64
	QueryCount    int64
	QueryAvgNanos int64
	RunCount      int64
	RunErrors     int64
	RunTotalNanos int64
}
