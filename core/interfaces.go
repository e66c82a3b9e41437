package core

import (
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a task panics during execution.
// The worker that ran the task recovers, reports through the handler and
// keeps serving the queue.
//
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called when a task panics.
	//
	// Parameters:
	// - poolID: The ID of the pool that owns the worker
	// - workerID: The index of the worker that ran the task
	// - panicInfo: The panic value recovered from the task
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(poolID string, workerID int, panicInfo any, stackTrace []byte)
}

// LoggingPanicHandler reports panics through a Logger at Error level.
type LoggingPanicHandler struct {
	Logger Logger
}

// NewLoggingPanicHandler creates a LoggingPanicHandler. A nil logger uses NewDefaultLogger.
func NewLoggingPanicHandler(logger Logger) *LoggingPanicHandler {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &LoggingPanicHandler{Logger: logger}
}

// HandlePanic logs the panic value and stack.
func (h *LoggingPanicHandler) HandlePanic(poolID string, workerID int, panicInfo any, stackTrace []byte) {
	h.Logger.Error("task panicked",
		F("pool", poolID),
		F("worker", workerID),
		F("panic", panicInfo),
		F("stack", string(stackTrace)),
	)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting task execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods are called from worker goroutines and from Submit. They should be
// non-blocking and fast, and must never call back into the pool.
type Metrics interface {
	// RecordTaskDuration records how long a task took to execute.
	RecordTaskDuration(poolID string, duration time.Duration)

	// RecordTaskPanic records that a task panicked during execution.
	RecordTaskPanic(poolID string, panicInfo any)

	// RecordQueueDepth records the queue depth after a push or a pop.
	RecordQueueDepth(poolID string, depth int)

	// RecordTaskRejected records that a submission was refused (after shutdown).
	RecordTaskRejected(poolID string, reason string)

	// RecordTasksDropped records queued tasks discarded by shutdown.
	RecordTasksDropped(poolID string, count int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(poolID string, duration time.Duration) {}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(poolID string, panicInfo any) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(poolID string, depth int) {}

// RecordTaskRejected is a no-op.
func (m *NilMetrics) RecordTaskRejected(poolID string, reason string) {}

// RecordTasksDropped is a no-op.
func (m *NilMetrics) RecordTasksDropped(poolID string, count int) {}

// =============================================================================
// ThreadPoolConfig: Configuration for ThreadPool
// =============================================================================

// ThreadPoolConfig holds configuration options for ThreadPool.
// All fields are optional; if not provided, default implementations will be used.
type ThreadPoolConfig struct {
	// ID labels logs and metrics. Defaults to "thread-pool".
	ID string

	// Logger receives lifecycle, shutdown and rejection messages. Defaults to NewDefaultLogger.
	Logger Logger

	// PanicHandler is called when a task panics. Defaults to a LoggingPanicHandler on Logger.
	PanicHandler PanicHandler

	// Metrics is called to record task execution metrics. Defaults to NilMetrics.
	Metrics Metrics
}

// DefaultThreadPoolConfig returns a config with default handlers.
func DefaultThreadPoolConfig() *ThreadPoolConfig {
	logger := NewDefaultLogger()
	return &ThreadPoolConfig{
		ID:           defaultPoolID,
		Logger:       logger,
		PanicHandler: NewLoggingPanicHandler(logger),
		Metrics:      &NilMetrics{},
	}
}

// withDefaults returns a copy of c with every nil field filled in.
func (c *ThreadPoolConfig) withDefaults() ThreadPoolConfig {
	var out ThreadPoolConfig
	if c != nil {
		out = *c
	}
	if out.ID == "" {
		out.ID = defaultPoolID
	}
	if out.Logger == nil {
		out.Logger = NewDefaultLogger()
	}
	if out.PanicHandler == nil {
		out.PanicHandler = NewLoggingPanicHandler(out.Logger)
	}
	if out.Metrics == nil {
		out.Metrics = &NilMetrics{}
	}
	return out
}
