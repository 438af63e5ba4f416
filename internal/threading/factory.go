package threading

import (
	"github.com/MapColonies/cesium-standalone/internal/monitoring"
	"github.com/MapColonies/cesium-standalone/internal/threading/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Components holds the background machinery shared by the globe: the worker
// pool running tile loads and resource fetches and the frame monitor.
type Components struct {
	WorkerPool *core.WorkerPool
	Monitor    *monitoring.Monitor
}

// NewComponents starts a worker pool with the given number of workers, one
// per CPU when zero, and registers the monitor metrics on reg.
func NewComponents(workers int, reg prometheus.Registerer) *Components {
	pool := core.NewWorkerPool(workers)
	pool.Start()

	return &Components{
		WorkerPool: pool,
		Monitor:    monitoring.NewMonitor(reg),
	}
}

// MaximumConcurrentLoads is the number of jobs that can be submitted
// without blocking the caller: one running per worker plus the queue
// buffer, minus a slot kept free for resource fetches.
func (c *Components) MaximumConcurrentLoads() int {
	return 3*c.WorkerPool.GetNumWorkers() - 1
}

// Shutdown waits for the submitted jobs and stops the workers.
func (c *Components) Shutdown() {
	if c.WorkerPool != nil {
		c.WorkerPool.Wait()
		c.WorkerPool.Stop()
	}
}
