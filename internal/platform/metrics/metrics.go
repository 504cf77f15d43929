package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps coarse request counters for the /metrics endpoint. Plain
// atomics; there is no label cardinality worth a metrics library here.
type Collector struct {
	requests    uint64
	serverErrs  uint64
	authFails   uint64
	rateLimited uint64
	durationMs  uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.requests, 1)
	atomic.AddUint64(&c.durationMs, uint64(duration.Milliseconds()))
	switch {
	case status >= 500:
		atomic.AddUint64(&c.serverErrs, 1)
	case status == 401 || status == 403:
		atomic.AddUint64(&c.authFails, 1)
	case status == 429:
		atomic.AddUint64(&c.rateLimited, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	requests := atomic.LoadUint64(&c.requests)
	durationMs := atomic.LoadUint64(&c.durationMs)
	avg := float64(0)
	if requests > 0 {
		avg = float64(durationMs) / float64(requests)
	}
	return map[string]any{
		"requestsTotal":     requests,
		"serverErrorsTotal": atomic.LoadUint64(&c.serverErrs),
		"authFailuresTotal": atomic.LoadUint64(&c.authFails),
		"rateLimitedTotal":  atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":     avg,
	}
}
