package slotstore

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see the
// promcollector package for a Prometheus implementation.
//
// Implementations are called on the hot path from many goroutines and must be
// safe for concurrent use and must not block.
type MetricsCollector interface {
	// RecordInsert is called after each insert.
	// retries is the number of lost CAS rounds, err is nil if successful.
	RecordInsert(duration time.Duration, retries int, err error)

	// RecordGet is called after each head read.
	RecordGet(hit bool, err error)

	// RecordSnapshotRead is called after each read against a snapshot token.
	RecordSnapshotRead(hit bool, err error)

	// RecordScan is called after each attribute scan.
	RecordScan(matched int, duration time.Duration)

	// RecordTrim is called after each history trim.
	RecordTrim(removed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, int, error) {}
func (NoopMetricsCollector) RecordGet(bool, error)                  {}
func (NoopMetricsCollector) RecordSnapshotRead(bool, error)         {}
func (NoopMetricsCollector) RecordScan(int, time.Duration)          {}
func (NoopMetricsCollector) RecordTrim(int, time.Duration)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	InsertCount       atomic.Int64
	InsertErrors      atomic.Int64
	InsertRetries     atomic.Int64
	InsertTotalNanos  atomic.Int64
	GetCount          atomic.Int64
	GetHits           atomic.Int64
	GetErrors         atomic.Int64
	SnapshotReadCount atomic.Int64
	SnapshotReadHits  atomic.Int64
	SnapshotReadErrs  atomic.Int64
	ScanCount         atomic.Int64
	ScanMatched       atomic.Int64
	ScanTotalNanos    atomic.Int64
	TrimCount         atomic.Int64
	TrimRemoved       atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, retries int, err error) {
	b.InsertCount.Add(1)
	b.InsertRetries.Add(int64(retries))
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(hit bool, err error) {
	b.GetCount.Add(1)
	if hit {
		b.GetHits.Add(1)
	}
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordSnapshotRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotRead(hit bool, err error) {
	b.SnapshotReadCount.Add(1)
	if hit {
		b.SnapshotReadHits.Add(1)
	}
	if err != nil {
		b.SnapshotReadErrs.Add(1)
	}
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(matched int, duration time.Duration) {
	b.ScanCount.Add(1)
	b.ScanMatched.Add(int64(matched))
	b.ScanTotalNanos.Add(duration.Nanoseconds())
}

// RecordTrim implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrim(removed int, _ time.Duration) {
	b.TrimCount.Add(1)
	b.TrimRemoved.Add(int64(removed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:       b.InsertCount.Load(),
		InsertErrors:      b.InsertErrors.Load(),
		InsertRetries:     b.InsertRetries.Load(),
		InsertAvgNanos:    avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		GetCount:          b.GetCount.Load(),
		GetHits:           b.GetHits.Load(),
		GetErrors:         b.GetErrors.Load(),
		SnapshotReadCount: b.SnapshotReadCount.Load(),
		SnapshotReadHits:  b.SnapshotReadHits.Load(),
		SnapshotReadErrs:  b.SnapshotReadErrs.Load(),
		ScanCount:         b.ScanCount.Load(),
		ScanMatched:       b.ScanMatched.Load(),
		ScanAvgNanos:      avg(b.ScanTotalNanos.Load(), b.ScanCount.Load()),
		TrimCount:         b.TrimCount.Load(),
		TrimRemoved:       b.TrimRemoved.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount       int64
	InsertErrors      int64
	InsertRetries     int64
	InsertAvgNanos    int64
	GetCount          int64
	GetHits           int64
	GetErrors         int64
	SnapshotReadCount int64
	SnapshotReadHits  int64
	SnapshotReadErrs  int64
	ScanCount         int64
	ScanMatched       int64
	ScanAvgNanos      int64
	TrimCount         int64
	TrimRemoved       int64
}
