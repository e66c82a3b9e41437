package core

// Task is the unit of work (Closure)
//
// A Task owns whatever it captures. Once submitted, the pool holds the only
// reference and runs it at most once.
type Task func()

// =============================================================================
// Executor: Define task submission interface
// =============================================================================

// Executor is the submission side of a pool.
type Executor interface {
	Submit(task Task)
	Wait()
}
