// Package threadpool provides a fixed-size worker pool with a completion barrier,
// plus process-wide default and I/O pool instances.
//
// A ThreadPool owns N worker goroutines and an unbounded FIFO queue. Tasks are
// plain func() closures; Submit never blocks and never reports failure.
// Wait blocks until the queue is empty and every worker is idle.
//
// # Quick Start
//
// Use the process-wide pools:
//
//	pool := threadpool.GetDefaultInstance() // one worker per available CPU
//	for _, f := range files {
//		pool.Submit(func() { hash(f) })
//	}
//	pool.Wait()
//
// Blocking I/O goes to the separately sized I/O pool:
//
//	threadpool.GetIOInstance().Submit(func() { fetch(url) })
//
// Or own a pool for a bounded scope:
//
//	threadpool.WithThreadPool(8, nil, func(pool *threadpool.ThreadPool) error {
//		pool.Submit(work)
//		pool.Wait()
//		return nil
//	})
//
// # Key Concepts
//
// Quiescence: the queue is empty and no task is in flight. Wait returns on
// quiescence and releases every concurrent caller. Wait does not stop other
// goroutines from submitting, so it only means "all done" if nothing submits
// concurrently.
//
// Shutdown: stops the workers after their current task and drops anything
// still queued. Call Wait first if you need the queue drained.
//
// Panics: a panicking task is recovered on its worker and reported to the
// pool's PanicHandler and Metrics. The worker keeps running.
//
// # Sizing
//
// The default pool is sized by HardwareConcurrency, which on Linux counts the
// CPUs in the process affinity mask. The I/O pool defaults to
// DefaultIOThreadPoolSize workers; override it with SetIOThreadPoolSize or the
// THREADPOOL_IO_SIZE environment variable before first use. A size of zero or
// less panics: it is a configuration error, not a runtime condition.
//
// For Prometheus integration, see the observability/prometheus subpackage.
package threadpool
