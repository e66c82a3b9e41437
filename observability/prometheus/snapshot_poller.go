package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/Swind/go-threadpool/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// PoolSnapshotProvider provides current pool stats snapshots.
type PoolSnapshotProvider interface {
	Stats() core.PoolStats
}

// SnapshotPoller periodically exports pool Stats() snapshots into Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PoolSnapshotProvider

	poolWorkers *prom.GaugeVec
	poolIdle    *prom.GaugeVec
	poolQueued  *prom.GaugeVec
	poolActive  *prom.GaugeVec
	poolRunning *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	poolWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_workers",
		Help:      "Worker count per pool.",
	}, []string{"pool"})
	poolIdle := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_idle",
		Help:      "Idle workers per pool.",
	}, []string{"pool"})
	poolQueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_queued",
		Help:      "Queued tasks per pool.",
	}, []string{"pool"})
	poolActive := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_active",
		Help:      "Active tasks per pool.",
	}, []string{"pool"})
	poolRunning := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_running",
		Help:      "Pool running state (1=running, 0=stopped).",
	}, []string{"pool"})

	var err error
	if poolWorkers, err = registerCollector(reg, poolWorkers); err != nil {
		return nil, err
	}
	if poolIdle, err = registerCollector(reg, poolIdle); err != nil {
		return nil, err
	}
	if poolQueued, err = registerCollector(reg, poolQueued); err != nil {
		return nil, err
	}
	if poolActive, err = registerCollector(reg, poolActive); err != nil {
		return nil, err
	}
	if poolRunning, err = registerCollector(reg, poolRunning); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:    interval,
		pools:       make(map[string]PoolSnapshotProvider),
		poolWorkers: poolWorkers,
		poolIdle:    poolIdle,
		poolQueued:  poolQueued,
		poolActive:  poolActive,
		poolRunning: poolRunning,
	}, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider PoolSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx, p.done)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, provider := range p.pools {
		stats := provider.Stats()
		p.poolWorkers.WithLabelValues(name).Set(float64(stats.Workers))
		p.poolIdle.WithLabelValues(name).Set(float64(stats.Idle))
		p.poolQueued.WithLabelValues(name).Set(float64(stats.Queued))
		p.poolActive.WithLabelValues(name).Set(float64(stats.Active))
		if stats.Running {
			p.poolRunning.WithLabelValues(name).Set(1)
		} else {
			p.poolRunning.WithLabelValues(name).Set(0)
		}
	}
}
