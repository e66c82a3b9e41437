package threadpool

import "github.com/Swind/go-threadpool/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the threadpool package for most use cases.

// Task is the unit of work (Closure)
type Task = core.Task

// ThreadPool is the fixed-size worker pool
type ThreadPool = core.ThreadPool

// ThreadPoolConfig holds the optional logger, panic handler and metrics of a pool
type ThreadPoolConfig = core.ThreadPoolConfig

// PoolStats is a point-in-time snapshot of a pool
type PoolStats = core.PoolStats

// Logger, Field, PanicHandler and Metrics are the pluggable collaborators of a pool
type (
	Logger       = core.Logger
	Field        = core.Field
	PanicHandler = core.PanicHandler
	Metrics      = core.Metrics
)

var (
	ErrInvalidThreadCount = core.ErrInvalidThreadCount
	ErrAlreadyInitialized = core.ErrAlreadyInitialized
	ErrPoolClosed         = core.ErrPoolClosed
)

// F creates a log Field
var F = core.F

// NewThreadPool creates a standalone pool with n workers. It panics if n <= 0.
func NewThreadPool(n int) *ThreadPool {
	return core.NewThreadPool(n)
}

// NewThreadPoolWithConfig creates a standalone pool with n workers and the given config.
func NewThreadPoolWithConfig(n int, config *ThreadPoolConfig) *ThreadPool {
	return core.NewThreadPoolWithConfig(n, config)
}

// WithThreadPool runs fn with a pool that is shut down when fn returns or panics.
func WithThreadPool(n int, config *ThreadPoolConfig, fn func(*ThreadPool) error) error {
	return core.WithThreadPool(n, config, fn)
}

// HardwareConcurrency returns the number of CPUs the process may run on.
func HardwareConcurrency() int {
	return core.HardwareConcurrency()
}
