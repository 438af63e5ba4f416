package core

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Executor runs jobs off the frame loop. Implementations must not block the
// caller for the duration of the job unless they document otherwise.
type Executor interface {
	Submit(job func())
}

// WorkerPool manages a pool of worker goroutines for tile loads and resource
// fetches.
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup
	quit       chan bool
	pending    *SafeCounter
	completed  atomic.Uint64
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan bool),
		pending:    NewSafeCounter(),
	}
}

// Start initializes and starts all worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
			wp.pending.Decrement()
			wp.completed.Add(1)
			wp.wg.Done()
		case <-wp.quit:
			return
		}
	}
}

// Submit adds a job to the worker queue. It blocks while the queue buffer is full.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.pending.Increment()
	wp.jobQueue <- job
}

// Wait waits for all currently queued jobs to complete
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop shuts down the worker pool
func (wp *WorkerPool) Stop() {
	close(wp.quit)
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Pending returns the number of submitted jobs that have not finished.
func (wp *WorkerPool) Pending() int64 {
	return wp.pending.Get()
}

// Completed returns the number of jobs run since the pool was created.
func (wp *WorkerPool) Completed() uint64 {
	return wp.completed.Load()
}

// InlineExecutor runs every job synchronously inside Submit.
type InlineExecutor struct{}

func (InlineExecutor) Submit(job func()) { job() }

// SafeCounter provides thread-safe counter operations using lock-free atomics.
type SafeCounter struct {
	value atomic.Int64
}

// NewSafeCounter creates a new thread-safe counter initialized to zero
func NewSafeCounter() *SafeCounter {
	return &SafeCounter{}
}

func (c *SafeCounter) Increment() int64 { return c.value.Add(1) }
func (c *SafeCounter) Decrement() int64 { return c.value.Add(-1) }
func (c *SafeCounter) Get() int64       { return c.value.Load() }
