package core

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/panjf2000/ants/v2"
)

const benchBatch = 1000

// BenchmarkThreadPool_SubmitWait measures a batch of tiny tasks followed by the barrier.
func BenchmarkThreadPool_SubmitWait(b *testing.B) {
	pool := NewThreadPoolWithConfig(HardwareConcurrency(), &ThreadPoolConfig{Logger: NewNoOpLogger()})
	defer pool.Shutdown()

	var counter atomic.Int64
	task := func() { counter.Add(1) }

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < benchBatch; j++ {
			pool.Submit(task)
		}
		pool.Wait()
	}
}

// BenchmarkAnts_SubmitWait is the same workload on an ants pool, using a WaitGroup as the barrier.
func BenchmarkAnts_SubmitWait(b *testing.B) {
	pool, err := ants.NewPool(HardwareConcurrency())
	if err != nil {
		b.Fatalf("ants.NewPool: %v", err)
	}
	defer pool.Release()

	var counter atomic.Int64
	var wg sync.WaitGroup
	task := func() {
		counter.Add(1)
		wg.Done()
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wg.Add(benchBatch)
		for j := 0; j < benchBatch; j++ {
			if err := pool.Submit(task); err != nil {
				b.Fatalf("Submit: %v", err)
			}
		}
		wg.Wait()
	}
}

// BenchmarkThreadPool_ParallelSubmit measures Submit contention from many goroutines.
func BenchmarkThreadPool_ParallelSubmit(b *testing.B) {
	pool := NewThreadPoolWithConfig(HardwareConcurrency(), &ThreadPoolConfig{Logger: NewNoOpLogger()})
	defer pool.Shutdown()

	task := func() {}
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			pool.Submit(task)
		}
	})
	pool.Wait()
}
