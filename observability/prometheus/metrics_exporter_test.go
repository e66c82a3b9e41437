package prometheus

import (
	"testing"
	"time"

	"github.com/Swind/go-threadpool/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExporter_RecordMethods(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("threadpool", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	exporter.RecordTaskDuration("pool-a", 250*time.Millisecond)
	exporter.RecordTaskPanic("pool-a", "panic")
	exporter.RecordQueueDepth("pool-a", 7)
	exporter.RecordTaskRejected("pool-a", "shutdown")
	exporter.RecordTasksDropped("pool-a", 3)

	panicTotal := testutil.ToFloat64(exporter.taskPanicTotal.WithLabelValues("pool-a"))
	if panicTotal != 1 {
		t.Fatalf("panic total = %v, want 1", panicTotal)
	}

	queueDepth := testutil.ToFloat64(exporter.queueDepth.WithLabelValues("pool-a"))
	if queueDepth != 7 {
		t.Fatalf("queue depth = %v, want 7", queueDepth)
	}

	rejected := testutil.ToFloat64(exporter.taskRejectedTotal.WithLabelValues("pool-a", "shutdown"))
	if rejected != 1 {
		t.Fatalf("rejected total = %v, want 1", rejected)
	}

	dropped := testutil.ToFloat64(exporter.taskDroppedTotal.WithLabelValues("pool-a"))
	if dropped != 3 {
		t.Fatalf("dropped total = %v, want 3", dropped)
	}

	histCount, err := histogramSampleCount(exporter.taskDurationSeconds.WithLabelValues("pool-a"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if histCount != 1 {
		t.Fatalf("duration sample count = %d, want 1", histCount)
	}
}

func TestMetricsExporter_AlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("threadpool", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("first NewMetricsExporter failed: %v", err)
	}
	second, err := NewMetricsExporter("threadpool", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("second NewMetricsExporter failed: %v", err)
	}

	first.RecordTaskPanic("pool-a", nil)
	second.RecordTaskPanic("pool-a", nil)

	got := testutil.ToFloat64(first.taskPanicTotal.WithLabelValues("pool-a"))
	if got != 2 {
		t.Fatalf("shared panic counter = %v, want 2", got)
	}
}

func TestMetricsExporter_NilReceiver(t *testing.T) {
	var exporter *MetricsExporter
	exporter.RecordTaskDuration("pool-a", time.Second)
	exporter.RecordTaskPanic("pool-a", nil)
	exporter.RecordQueueDepth("pool-a", 1)
	exporter.RecordTaskRejected("pool-a", "shutdown")
	exporter.RecordTasksDropped("pool-a", 1)
}

// TestMetricsExporter_WiredIntoThreadPool verifies a live pool reports through the exporter
// Given: A pool configured with the exporter
// When: Tasks run, one panics, and a task is submitted after shutdown
// Then: Durations, panics and rejections are all recorded under the pool label
func TestMetricsExporter_WiredIntoThreadPool(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	pool := core.NewThreadPoolWithConfig(2, &core.ThreadPoolConfig{
		ID:           "wired",
		Logger:       core.NewNoOpLogger(),
		PanicHandler: core.NewLoggingPanicHandler(core.NewNoOpLogger()),
		Metrics:      exporter,
	})
	for i := 0; i < 10; i++ {
		pool.Submit(func() {})
	}
	pool.Submit(func() { panic("boom") })
	pool.Wait()
	pool.Shutdown()
	pool.Submit(func() {})

	histCount, err := histogramSampleCount(exporter.taskDurationSeconds.WithLabelValues("wired"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if histCount != 11 {
		t.Errorf("duration sample count = %d, want 11", histCount)
	}
	if got := testutil.ToFloat64(exporter.taskPanicTotal.WithLabelValues("wired")); got != 1 {
		t.Errorf("panic total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(exporter.taskRejectedTotal.WithLabelValues("wired", core.ErrPoolClosed.Error())); got != 1 {
		t.Errorf("rejected total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(exporter.queueDepth.WithLabelValues("wired")); got != 0 {
		t.Errorf("queue depth = %v, want 0", got)
	}
}

func histogramSampleCount(observer prom.Observer) (uint64, error) {
	collector, ok := observer.(prom.Collector)
	if !ok {
		return 0, nil
	}

	metricCh := make(chan prom.Metric, 1)
	collector.Collect(metricCh)
	close(metricCh)
	for metric := range metricCh {
		msg := &dto.Metric{}
		if err := metric.Write(msg); err != nil {
			return 0, err
		}
		if msg.Histogram != nil {
			return msg.Histogram.GetSampleCount(), nil
		}
	}
	return 0, nil
}
