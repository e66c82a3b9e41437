package core

import (
	"runtime/debug"
	"sync"
	"time"
)

const defaultPoolID = "thread-pool"

// ThreadPool runs submitted tasks on a fixed set of worker goroutines.
//
// One mutex guards the queue, the idle counter and the running flag. Two
// condition variables share it:
//   - scheduled wakes workers when the queue becomes non-empty or the pool stops
//   - completed wakes Wait callers when the queue is empty and every worker is idle
//
// The mutex is never held while a task runs.
type ThreadPool struct {
	id           string
	totalThreads int

	mu          sync.Mutex
	scheduled   *sync.Cond
	completed   *sync.Cond
	queue       *TaskQueue
	idleThreads int
	running     bool

	wg           sync.WaitGroup
	shutdownOnce sync.Once

	logger       Logger
	panicHandler PanicHandler
	metrics      Metrics
}

var _ Executor = (*ThreadPool)(nil)

// NewThreadPool creates a ThreadPool with n workers and the default config.
// It panics with an *EnforceError if n <= 0.
func NewThreadPool(n int) *ThreadPool {
	return NewThreadPoolWithConfig(n, nil)
}

// NewThreadPoolWithConfig creates a ThreadPool with n workers and starts them.
// It panics with an *EnforceError if n <= 0. A nil config uses the defaults.
func NewThreadPoolWithConfig(n int, config *ThreadPoolConfig) *ThreadPool {
	EnforcePositive("num_threads", n)
	cfg := config.withDefaults()

	p := &ThreadPool{
		id:           cfg.ID,
		totalThreads: n,
		queue:        NewTaskQueue(),
		idleThreads:  n,
		running:      true,
		logger:       cfg.Logger,
		panicHandler: cfg.PanicHandler,
		metrics:      cfg.Metrics,
	}
	p.scheduled = sync.NewCond(&p.mu)
	p.completed = sync.NewCond(&p.mu)

	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.workerLoop(i)
	}

	p.logger.Debug("thread pool started", F("pool", p.id), F("workers", n))
	return p
}

// WithThreadPool creates a pool, hands it to fn and shuts it down when fn
// returns or panics. Tasks still queued at that point are dropped; call Wait
// inside fn to drain.
func WithThreadPool(n int, config *ThreadPoolConfig, fn func(*ThreadPool) error) error {
	p := NewThreadPoolWithConfig(n, config)
	defer p.Shutdown()
	return fn(p)
}

// Submit appends task to the queue and wakes one idle worker.
//
// Submit never blocks beyond the enqueue critical section; the queue is
// unbounded. A nil task is ignored. After Shutdown the task is rejected and
// never runs.
func (p *ThreadPool) Submit(task Task) {
	if task == nil {
		return
	}

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		p.logger.Warn("task rejected", F("pool", p.id), F("reason", ErrPoolClosed.Error()))
		p.metrics.RecordTaskRejected(p.id, ErrPoolClosed.Error())
		return
	}
	p.queue.Push(task)
	depth := p.queue.Len()
	p.mu.Unlock()

	// One task was added, so one worker is enough.
	p.scheduled.Signal()
	p.metrics.RecordQueueDepth(p.id, depth)
}

// Wait blocks until the queue is empty and no task is running.
//
// Every concurrent caller is released once that holds. Wait does not fence
// out submissions from other goroutines: a caller may observe a momentary
// quiescent state that a concurrent Submit ends right after.
func (p *ThreadPool) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.doneLocked() {
		p.completed.Wait()
	}
}

// Shutdown stops the workers and waits for them to exit.
//
// Tasks already running finish; tasks still queued are dropped without
// running. Calling Shutdown again is a no-op that returns once the first call
// has finished. Shutdown must not be called from a task running on this pool.
func (p *ThreadPool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()

		// Every worker has to observe the stop flag.
		p.scheduled.Broadcast()
		p.wg.Wait()

		p.mu.Lock()
		dropped := p.queue.Clear()
		p.mu.Unlock()

		// Dropping the queue makes the pool quiescent; release any waiters.
		p.completed.Broadcast()

		if dropped > 0 {
			p.logger.Warn("queued tasks dropped at shutdown", F("pool", p.id), F("dropped", dropped))
			p.metrics.RecordTasksDropped(p.id, dropped)
		}
		p.metrics.RecordQueueDepth(p.id, 0)
		p.logger.Debug("thread pool stopped", F("pool", p.id))
	})
}

// Close implements io.Closer. It always returns nil.
func (p *ThreadPool) Close() error {
	p.Shutdown()
	return nil
}

// workerLoop is the main loop for each worker
func (p *ThreadPool) workerLoop(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.running && p.queue.IsEmpty() {
			p.scheduled.Wait()
		}
		if !p.running {
			p.mu.Unlock()
			return
		}

		task, _ := p.queue.Pop()
		p.idleThreads--
		depth := p.queue.Len()
		p.mu.Unlock()

		p.metrics.RecordQueueDepth(p.id, depth)
		p.runTask(id, task)

		p.mu.Lock()
		p.idleThreads++
		if p.doneLocked() {
			p.completed.Broadcast()
		}
		p.mu.Unlock()
	}
}

// runTask executes task and captures panic
func (p *ThreadPool) runTask(workerID int, task Task) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.metrics.RecordTaskPanic(p.id, r)
			p.panicHandler.HandlePanic(p.id, workerID, r, debug.Stack())
		}
		p.metrics.RecordTaskDuration(p.id, time.Since(start))
	}()
	task()
}

// doneLocked reports quiescence. p.mu must be held.
func (p *ThreadPool) doneLocked() bool {
	return p.queue.IsEmpty() && p.idleThreads == p.totalThreads
}

// ID returns the ID of the thread pool
func (p *ThreadPool) ID() string {
	return p.id
}

// WorkerCount returns the number of workers
func (p *ThreadPool) WorkerCount() int {
	return p.totalThreads
}

// IdleCount returns the number of workers not running a task.
func (p *ThreadPool) IdleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idleThreads
}

func (p *ThreadPool) QueuedTaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

func (p *ThreadPool) ActiveTaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalThreads - p.idleThreads
}

// IsRunning returns whether the thread pool is running
func (p *ThreadPool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Stats returns a consistent snapshot of the pool state.
func (p *ThreadPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		ID:      p.id,
		Workers: p.totalThreads,
		Idle:    p.idleThreads,
		Queued:  p.queue.Len(),
		Active:  p.totalThreads - p.idleThreads,
		Running: p.running,
	}
}
