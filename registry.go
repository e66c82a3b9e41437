package threadpool

import (
	"os"
	"strconv"
	"sync"

	"github.com/Swind/go-threadpool/core"
)

const (
	// DefaultIOThreadPoolSize is the I/O pool size when nothing else is configured.
	DefaultIOThreadPoolSize = 100

	// IOThreadPoolSizeEnv overrides DefaultIOThreadPoolSize when set.
	IOThreadPoolSizeEnv = "THREADPOOL_IO_SIZE"

	DefaultPoolID = "default"
	IOPoolID      = "io"
)

// poolSlot owns one lazily built pool.
type poolSlot struct {
	once   sync.Once
	pool   *ThreadPool
	frozen bool // guarded by Registry.mu; set once construction has started
}

// Registry holds a lazily built default pool and a lazily built I/O pool.
//
// Each pool is constructed at most once, on first access, no matter how many
// goroutines race for it. Configuration is accepted only until the pool it
// affects has started construction.
type Registry struct {
	mu       sync.Mutex
	config   *ThreadPoolConfig
	ioSize   int
	cpuCount func() int
	newPool  func(n int, config *ThreadPoolConfig) *ThreadPool

	defaultSlot poolSlot
	ioSlot      poolSlot
}

// NewRegistry creates an empty Registry. Nothing is started until first access.
func NewRegistry() *Registry {
	return &Registry{
		cpuCount: core.HardwareConcurrency,
		newPool:  core.NewThreadPoolWithConfig,
	}
}

// SetConfig sets the logger, panic handler and metrics used by both pools.
// The ID field is ignored. Returns ErrAlreadyInitialized once either pool exists.
func (r *Registry) SetConfig(config *ThreadPoolConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaultSlot.frozen || r.ioSlot.frozen {
		return ErrAlreadyInitialized
	}
	r.config = config
	return nil
}

// SetIOThreadPoolSize sets the I/O pool size. It must be called before the
// first IO call; n must be positive.
func (r *Registry) SetIOThreadPoolSize(n int) error {
	if err := core.ValidateThreadCount("io_threadpool_size", n); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ioSlot.frozen {
		return ErrAlreadyInitialized
	}
	r.ioSize = n
	return nil
}

// IOThreadPoolSize returns the size the I/O pool has or will be built with.
func (r *Registry) IOThreadPoolSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveIOSizeLocked()
}

// resolveIOSizeLocked picks the explicit size, then the environment, then the default.
func (r *Registry) resolveIOSizeLocked() int {
	if r.ioSize != 0 {
		return r.ioSize
	}
	if v, ok := os.LookupEnv(IOThreadPoolSizeEnv); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		r.loggerLocked().Warn("ignoring invalid I/O pool size",
			core.F("env", IOThreadPoolSizeEnv), core.F("value", v), core.F("error", err))
	}
	return DefaultIOThreadPoolSize
}

func (r *Registry) loggerLocked() Logger {
	if r.config != nil && r.config.Logger != nil {
		return r.config.Logger
	}
	return core.NewDefaultLogger()
}

// poolConfigLocked copies the shared config and stamps the pool ID on it.
func (r *Registry) poolConfigLocked(id string) *ThreadPoolConfig {
	var cfg ThreadPoolConfig
	if r.config != nil {
		cfg = *r.config
	}
	cfg.ID = id
	return &cfg
}

// Default returns the CPU-sized pool, building it on first call.
// It panics if the hardware concurrency query reports zero CPUs.
func (r *Registry) Default() *ThreadPool {
	r.defaultSlot.once.Do(func() {
		r.mu.Lock()
		r.defaultSlot.frozen = true
		n := r.cpuCount()
		cfg := r.poolConfigLocked(DefaultPoolID)
		r.mu.Unlock()

		core.EnforcePositive("hardware_concurrency", n)
		r.defaultSlot.pool = r.newPool(n, cfg)
	})
	return r.defaultSlot.pool
}

// IO returns the pool for blocking I/O tasks, building it on first call.
// It panics if the configured size is not positive.
func (r *Registry) IO() *ThreadPool {
	r.ioSlot.once.Do(func() {
		r.mu.Lock()
		r.ioSlot.frozen = true
		n := r.resolveIOSizeLocked()
		cfg := r.poolConfigLocked(IOPoolID)
		r.mu.Unlock()

		core.EnforcePositive("io_threadpool_size", n)
		r.ioSlot.pool = r.newPool(n, cfg)
	})
	return r.ioSlot.pool
}

// Pools returns the pools built so far, keyed by ID.
func (r *Registry) Pools() map[string]*ThreadPool {
	r.mu.Lock()
	defaultStarted, ioStarted := r.defaultSlot.frozen, r.ioSlot.frozen
	r.mu.Unlock()

	pools := make(map[string]*ThreadPool, 2)
	// Once.Do on a slot whose construction already started only waits for it.
	if defaultStarted {
		if p := r.Default(); p != nil {
			pools[DefaultPoolID] = p
		}
	}
	if ioStarted {
		if p := r.IO(); p != nil {
			pools[IOPoolID] = p
		}
	}
	return pools
}

// Shutdown stops every pool built so far. Queued tasks are dropped.
// The process-wide registry is never shut down; this is for registries a
// caller created with NewRegistry.
func (r *Registry) Shutdown() {
	for _, p := range r.Pools() {
		p.Shutdown()
	}
}

// =============================================================================
// Process-wide pools
// =============================================================================

var global = NewRegistry()

// GetDefaultInstance returns the process-wide pool sized to the hardware concurrency.
func GetDefaultInstance() *ThreadPool {
	return global.Default()
}

// GetIOInstance returns the process-wide pool for blocking I/O tasks.
func GetIOInstance() *ThreadPool {
	return global.IO()
}

// SetIOThreadPoolSize configures the process-wide I/O pool before first use.
func SetIOThreadPoolSize(n int) error {
	return global.SetIOThreadPoolSize(n)
}

// IOThreadPoolSize reports the process-wide I/O pool size.
func IOThreadPoolSize() int {
	return global.IOThreadPoolSize()
}

// SetConfig configures both process-wide pools before first use.
func SetConfig(config *ThreadPoolConfig) error {
	return global.SetConfig(config)
}

// GlobalPools returns the process-wide pools built so far, keyed by ID.
func GlobalPools() map[string]*ThreadPool {
	return global.Pools()
}
