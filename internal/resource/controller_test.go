package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acquireWithin(c *Controller, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return c.AcquireWorker(ctx)
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.NoError(t, c.AcquireWorker(t.Context()))
	require.NoError(t, c.AcquireWorker(t.Context()))
	assert.Equal(t, int64(2), c.ActiveWorkers())

	// A third worker waits for a free slot.
	assert.ErrorIs(t, acquireWithin(c, 10*time.Millisecond), context.DeadlineExceeded)

	c.ReleaseWorker()
	assert.Equal(t, int64(1), c.ActiveWorkers())

	require.NoError(t, acquireWithin(c, time.Second))
	c.ReleaseWorker()
	c.ReleaseWorker()
	assert.Zero(t, c.ActiveWorkers())
}

func TestController_DefaultWorkers(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, acquireWithin(c, time.Second))
	assert.ErrorIs(t, acquireWithin(c, 10*time.Millisecond), context.DeadlineExceeded)
	c.ReleaseWorker()
}

func TestController_AcquireWorkerCanceled(t *testing.T) {
	c := NewController(Config{MaxWorkers: 1})
	require.NoError(t, c.AcquireWorker(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	err := c.AcquireWorker(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(1), c.ActiveWorkers())
}

func TestController_WaitOpUnlimited(t *testing.T) {
	c := NewController(Config{})

	for i := 0; i < 1000; i++ {
		require.NoError(t, c.WaitOp(t.Context()))
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.ErrorIs(t, c.WaitOp(ctx), context.Canceled)
}

func TestController_WaitOpLimited(t *testing.T) {
	c := NewController(Config{OpsPerSecond: 1000, Burst: 10})

	start := time.Now()
	for i := 0; i < 30; i++ {
		require.NoError(t, c.WaitOp(t.Context()))
	}
	// 10 from the burst, 20 paced at 1ms each.
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestController_Retention(t *testing.T) {
	c := NewController(Config{MaxRetained: 10})

	c.TrackRetained(10)
	assert.False(t, c.OverBudget())

	c.TrackRetained(1)
	assert.True(t, c.OverBudget())

	c.ReleaseRetained(5)
	assert.Equal(t, int64(6), c.Retained())
	assert.False(t, c.OverBudget())

	unlimited := NewController(Config{})
	unlimited.TrackRetained(1 << 40)
	assert.False(t, unlimited.OverBudget())
}
