// Package parallel provides the bounded worker pool the kd-tree builder
// forks subtree construction across.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ============================================================================
// Worker Pool Configuration
// ============================================================================

// PoolConfig configures the worker pool behavior.
type PoolConfig struct {
	// MaxWorkers is the fixed number of worker goroutines.
	// Default: runtime.NumCPU().
	MaxWorkers int

	// TaskBufferSize is the buffer size for the task queue channel.
	// Default: MaxWorkers * 4.
	TaskBufferSize int

	// CollectMetrics enables collection of execution metrics.
	CollectMetrics bool
}

// DefaultPoolConfig returns a default pool configuration sized to detected
// hardware concurrency.
func DefaultPoolConfig() PoolConfig {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return PoolConfig{
		MaxWorkers:     workers,
		TaskBufferSize: workers * 4,
		CollectMetrics: false,
	}
}

// WithWorkers returns a new config with the specified number of workers.
func (c PoolConfig) WithWorkers(n int) PoolConfig {
	c.MaxWorkers = n
	return c
}

// WithMetrics returns a new config with metrics collection enabled.
func (c PoolConfig) WithMetrics() PoolConfig {
	c.CollectMetrics = true
	return c
}

// ============================================================================
// Execution Metrics
// ============================================================================

// PoolMetrics holds execution statistics.
type PoolMetrics struct {
	TotalTasks     int64
	CompletedTasks int64
	TotalDuration  time.Duration
	MaxTaskTime    time.Duration
}

// ============================================================================
// Future
// ============================================================================

// Future carries the result of a task submitted via BuildPool.Async. Get
// blocks until the task has run; once it has, every call to Get returns
// the same result immediately.
type Future[R any] struct {
	done chan struct{}
	val  R
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

func (f *Future[R]) resolve(v R) {
	f.val = v
	close(f.done)
}

// Get blocks until the task has run and returns its result.
func (f *Future[R]) Get() R {
	<-f.done
	return f.val
}

// ============================================================================
// Build Pool
// ============================================================================

// BuildPool is a fixed-size worker pool with a FIFO task queue, matching the
// thread pool spec §4.3: submit one task, submit a batch, wait for the
// queue to drain, run a function returning a value via a Future, and query
// how many workers are currently idle so the caller can decide whether to
// offload more work or recurse in the calling goroutine.
type BuildPool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	stopCh  chan struct{}
	idle    atomic.Int64
	inFlight atomic.Int64

	metrics *PoolMetrics
	collect bool
	mu      sync.Mutex
}

// NewBuildPool creates and starts a pool with the given configuration. It
// returns no error: a non-positive MaxWorkers falls back to
// DefaultPoolConfig's detected worker count (config.Validate is where the
// hard failure for an underivable worker count is enforced).
func NewBuildPool(config PoolConfig) *BuildPool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultPoolConfig().MaxWorkers
	}
	if config.TaskBufferSize <= 0 {
		config.TaskBufferSize = config.MaxWorkers * 4
	}

	p := &BuildPool{
		tasks:   make(chan func(), config.TaskBufferSize),
		stopCh:  make(chan struct{}),
		metrics: &PoolMetrics{},
		collect: config.CollectMetrics,
	}
	p.idle.Store(int64(config.MaxWorkers))

	for i := 0; i < config.MaxWorkers; i++ {
		p.wg.Add(1)
		go p.work()
	}

	return p
}

func (p *BuildPool) work() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.idle.Add(-1)
			start := time.Now()
			task()
			if p.collect {
				p.updateMetrics(time.Since(start))
			}
			p.idle.Add(1)
			p.inFlight.Add(-1)
		}
	}
}

// Submit enqueues a single task. It does not block on task completion.
func (p *BuildPool) Submit(task func()) {
	if p.collect {
		p.mu.Lock()
		p.metrics.TotalTasks++
		p.mu.Unlock()
	}
	p.inFlight.Add(1)
	p.tasks <- task
}

// SubmitBatch enqueues many tasks at once.
func (p *BuildPool) SubmitBatch(tasks []func()) {
	for _, t := range tasks {
		p.Submit(t)
	}
}

// Async submits fn and returns a Future carrying its result. This is the
// pool's equivalent of the spec's `async()`: always runs in a pool worker.
func Async[R any](p *BuildPool, fn func() R) *Future[R] {
	fut := newFuture[R]()
	p.Submit(func() {
		fut.resolve(fn())
	})
	return fut
}

// Wait blocks until the task queue is empty and no task is in flight.
func (p *BuildPool) Wait() {
	for {
		if len(p.tasks) == 0 && p.inFlight.Load() == 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// IdleWorkers returns a best-effort, non-blocking count of workers not
// currently executing a task (spec §4.3's idle_worker_count).
func (p *BuildPool) IdleWorkers() int {
	n := p.idle.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// Close stops all workers. Tasks queued but not yet started are discarded.
// It blocks until every worker has joined.
func (p *BuildPool) Close() {
	close(p.stopCh)
	p.wg.Wait()
}

func (p *BuildPool) updateMetrics(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics.CompletedTasks++
	p.metrics.TotalDuration += d
	if d > p.metrics.MaxTaskTime {
		p.metrics.MaxTaskTime = d
	}
}

// Metrics returns a snapshot of the current execution metrics.
func (p *BuildPool) Metrics() PoolMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.metrics
}
