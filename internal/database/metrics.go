package database

import (
	"sync/atomic"
	"time"
)

// Metrics collects database performance counters
type Metrics struct {
	queryCount     int64
	queryDuration  int64 // nanoseconds
	errorCount     int64
	slowQueryCount int64
}

// MetricsSnapshot is a point-in-time view of accumulated metrics
type MetricsSnapshot struct {
	QueryCount       int64         `json:"query_count"`
	ErrorCount       int64         `json:"error_count"`
	SlowQueryCount   int64         `json:"slow_query_count"`
	AvgQueryDuration time.Duration `json:"avg_query_duration"`
}

// NewMetrics creates a metrics collector
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordQuery records a completed query
func (m *Metrics) RecordQuery(duration time.Duration, slow bool, err error) {
	atomic.AddInt64(&m.queryCount, 1)
	atomic.AddInt64(&m.queryDuration, int64(duration))
	if slow {
		atomic.AddInt64(&m.slowQueryCount, 1)
	}
	if err != nil {
		atomic.AddInt64(&m.errorCount, 1)
	}
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := atomic.LoadInt64(&m.queryCount)
	total := atomic.LoadInt64(&m.queryDuration)

	var avg time.Duration
	if count > 0 {
		avg = time.Duration(total / count)
	}

	return MetricsSnapshot{
		QueryCount:       count,
		ErrorCount:       atomic.LoadInt64(&m.errorCount),
		SlowQueryCount:   atomic.LoadInt64(&m.slowQueryCount),
		AvgQueryDuration: avg,
	}
}
