package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the maximum number of concurrently running workers.
	// If 0, defaults to 1.
	MaxWorkers int64

	// OpsPerSecond is the maximum operation rate across all workers.
	// If 0, unlimited.
	OpsPerSecond float64

	// Burst is the token bucket size. If 0, defaults to max(1, OpsPerSecond).
	Burst int

	// MaxRetained is the number of revisions that may be retained before
	// OverBudget reports true. If 0, retention is only tracked.
	MaxRetained int64
}

// Controller manages worker concurrency, operation rate and retention.
type Controller struct {
	cfg Config

	workers *semaphore.Weighted
	active  atomic.Int64

	limiter *rate.Limiter // nil if unlimited

	retained atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.OpsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = max(1, int(cfg.OpsPerSecond))
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.OpsPerSecond), burst)
	}

	return c
}

// AcquireWorker reserves a worker slot.
// Blocks until a slot is free or ctx is canceled.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if err := c.workers.Acquire(ctx, 1); err != nil {
		return err
	}
	c.active.Add(1)
	return nil
}

// ReleaseWorker releases a worker slot.
func (c *Controller) ReleaseWorker() {
	c.active.Add(-1)
	c.workers.Release(1)
}

// ActiveWorkers returns the number of held worker slots.
func (c *Controller) ActiveWorkers() int64 {
	return c.active.Load()
}

// WaitOp blocks until the rate limit allows one more operation.
func (c *Controller) WaitOp(ctx context.Context) error {
	if c.limiter == nil {
		return ctx.Err()
	}
	return c.limiter.Wait(ctx)
}

// TrackRetained records n newly retained revisions.
func (c *Controller) TrackRetained(n int64) {
	c.retained.Add(n)
}

// ReleaseRetained records n released revisions.
func (c *Controller) ReleaseRetained(n int64) {
	c.retained.Add(-n)
}

// Retained returns the number of tracked revisions.
func (c *Controller) Retained() int64 {
	return c.retained.Load()
}

// OverBudget reports whether retained revisions exceed MaxRetained.
func (c *Controller) OverBudget() bool {
	return c.cfg.MaxRetained > 0 && c.retained.Load() > c.cfg.MaxRetained
}
