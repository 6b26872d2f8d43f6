// Package resource paces load generated against a store.
//
// The Controller governs three things for the stress harness:
//
//   - Concurrency: how many workers may run at once (weighted semaphore)
//   - Rate: how many operations per second are issued (token bucket)
//   - Retention: how many revisions may be retained before history is trimmed
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers:   4,
//	    OpsPerSecond: 10000,
//	})
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//	for ... {
//	    if err := rc.WaitOp(ctx); err != nil {
//	        return err
//	    }
//	    // issue one operation
//	}
package resource
