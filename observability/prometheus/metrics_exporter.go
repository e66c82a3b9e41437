package prometheus

import (
	"errors"
	"fmt"
	"time"

	"github.com/Swind/go-threadpool/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	taskDurationSeconds *prom.HistogramVec
	taskPanicTotal      *prom.CounterVec
	taskRejectedTotal   *prom.CounterVec
	taskDroppedTotal    *prom.CounterVec
	queueDepth          *prom.GaugeVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "threadpool"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"pool"})
	panicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_panic_total",
		Help:      "Total number of task panics.",
	}, []string{"pool"})
	rejectedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_rejected_total",
		Help:      "Total number of rejected tasks.",
	}, []string{"pool", "reason"})
	droppedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_dropped_total",
		Help:      "Total number of queued tasks dropped at shutdown.",
	}, []string{"pool"})
	queueDepthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current queue depth.",
	}, []string{"pool"})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if panicVec, err = registerCollector(reg, panicVec); err != nil {
		return nil, err
	}
	if rejectedVec, err = registerCollector(reg, rejectedVec); err != nil {
		return nil, err
	}
	if droppedVec, err = registerCollector(reg, droppedVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds: durationVec,
		taskPanicTotal:      panicVec,
		taskRejectedTotal:   rejectedVec,
		taskDroppedTotal:    droppedVec,
		queueDepth:          queueDepthVec,
	}, nil
}

// RecordTaskDuration records task execution duration.
func (m *MetricsExporter) RecordTaskDuration(poolID string, duration time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.WithLabelValues(normalizeLabel(poolID, "unknown")).Observe(duration.Seconds())
}

// RecordTaskPanic records task panic events.
func (m *MetricsExporter) RecordTaskPanic(poolID string, panicInfo any) {
	if m == nil {
		return
	}
	m.taskPanicTotal.WithLabelValues(normalizeLabel(poolID, "unknown")).Inc()
}

// RecordQueueDepth records queue depth.
func (m *MetricsExporter) RecordQueueDepth(poolID string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(normalizeLabel(poolID, "unknown")).Set(float64(depth))
}

// RecordTaskRejected records task rejection events.
func (m *MetricsExporter) RecordTaskRejected(poolID string, reason string) {
	if m == nil {
		return
	}
	m.taskRejectedTotal.WithLabelValues(normalizeLabel(poolID, "unknown"), normalizeLabel(reason, "unknown")).Inc()
}

// RecordTasksDropped adds count to the dropped-at-shutdown counter.
func (m *MetricsExporter) RecordTasksDropped(poolID string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.taskDroppedTotal.WithLabelValues(normalizeLabel(poolID, "unknown")).Add(float64(count))
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
