// Package promcollector exposes slotstore metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	s := slotstore.New("subject", slotstore.WithMetricsCollector(promcollector.New(reg)))
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/slotstore"
)

const namespace = "slotstore"

// Collector implements slotstore.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency   *prometheus.HistogramVec
	ops         *prometheus.CounterVec
	casRetries  prometheus.Counter
	scanMatched prometheus.Histogram
	trimRemoved prometheus.Counter
}

// New creates a Collector and registers its metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of store operations",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}, []string{"op"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by outcome",
		}, []string{"op", "status"}),
		casRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cas_retries_total",
			Help:      "Lost compare-and-swap rounds while publishing inserts",
		}),
		scanMatched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_matched_nodes",
			Help:      "Nodes returned per attribute scan",
			Buckets:   prometheus.LinearBuckets(0, 1, slotstore.NumPositions+1),
		}),
		trimRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trimmed_revisions_total",
			Help:      "Revisions released by TrimBefore",
		}),
	}

	reg.MustRegister(c.opLatency, c.ops, c.casRetries, c.scanMatched, c.trimRemoved)
	return c
}

func status(hit bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case hit:
		return "hit"
	default:
		return "miss"
	}
}

// RecordInsert implements slotstore.MetricsCollector.
func (c *Collector) RecordInsert(duration time.Duration, retries int, err error) {
	st := "ok"
	if err != nil {
		st = "error"
	}
	c.ops.WithLabelValues("insert", st).Inc()
	c.opLatency.WithLabelValues("insert").Observe(duration.Seconds())
	c.casRetries.Add(float64(retries))
}

// RecordGet implements slotstore.MetricsCollector.
func (c *Collector) RecordGet(hit bool, err error) {
	c.ops.WithLabelValues("get", status(hit, err)).Inc()
}

// RecordSnapshotRead implements slotstore.MetricsCollector.
func (c *Collector) RecordSnapshotRead(hit bool, err error) {
	c.ops.WithLabelValues("get_from_snapshot", status(hit, err)).Inc()
}

// RecordScan implements slotstore.MetricsCollector.
func (c *Collector) RecordScan(matched int, duration time.Duration) {
	c.ops.WithLabelValues("scan", "ok").Inc()
	c.opLatency.WithLabelValues("scan").Observe(duration.Seconds())
	c.scanMatched.Observe(float64(matched))
}

// RecordTrim implements slotstore.MetricsCollector.
func (c *Collector) RecordTrim(removed int, duration time.Duration) {
	c.ops.WithLabelValues("trim", "ok").Inc()
	c.opLatency.WithLabelValues("trim").Observe(duration.Seconds())
	c.trimRemoved.Add(float64(removed))
}

var _ slotstore.MetricsCollector = (*Collector)(nil)
