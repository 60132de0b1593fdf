package rankeval

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// progressReporter counts scored members and throttles callbacks.
// A nil reporter is valid and does nothing.
type progressReporter struct {
	fn        func(Progress)
	total     int
	processed atomic.Int64
	sometimes rate.Sometimes
}

func newProgressReporter(fn func(Progress), total int, interval time.Duration) *progressReporter {
	if fn == nil {
		return nil
	}

	p := &progressReporter{fn: fn, total: total}
	if interval == 0 {
		p.sometimes = rate.Sometimes{Every: 1}
	} else {
		p.sometimes = rate.Sometimes{First: 1, Interval: interval}
	}
	return p
}

func (p *progressReporter) add(n int) {
	if p == nil {
		return
	}
	p.processed.Add(int64(n))
	p.sometimes.Do(func() {
		p.fn(Progress{Processed: int(p.processed.Load()), Total: p.total})
	})
}

// finish reports the final count. It must not race with add.
func (p *progressReporter) finish() {
	if p == nil {
		return
	}
	p.fn(Progress{Processed: int(p.processed.Load()), Total: p.total})
}
