package promcollector

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slotstore"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RecordInsert(time.Microsecond, 2, nil)
	c.RecordInsert(time.Microsecond, 0, errors.New("boom"))
	c.RecordGet(true, nil)
	c.RecordGet(false, nil)
	c.RecordSnapshotRead(false, slotstore.ErrSnapshotTrimmed)
	c.RecordScan(3, time.Microsecond)
	c.RecordTrim(5, time.Microsecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("insert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("insert", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("get", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("get", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("get_from_snapshot", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.casRetries))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.trimRemoved))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestCollector_WithStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	s := slotstore.New("prom", slotstore.WithMetricsCollector(c))

	for p := 0; p < slotstore.NumPositions; p++ {
		_, err := s.Insert(p, slotstore.Node{Position: p})
		require.NoError(t, err)
	}
	_, _, _ = s.Get(0)
	_ = s.ScanByAttribute("ethos", 0, 1)

	assert.Equal(t, float64(slotstore.NumPositions), testutil.ToFloat64(c.ops.WithLabelValues("insert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("get", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("scan", "ok")))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
