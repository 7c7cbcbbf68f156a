package sgd

import (
	"sync/atomic"
	"testing"
)

func TestWorkerPoolBarrierWaitsForAll(t *testing.T) {
	pool := NewWorkerPool(8, WorkerPoolConfig{NUMANode: -1})
	defer pool.Shutdown()

	var counter atomic.Int64
	for round := 0; round < 5; round++ {
		for w := 0; w < pool.NumWorkers(); w++ {
			pool.Submit(w, func() {
				counter.Add(1)
			})
		}
		pool.Wait()
		if got := counter.Load(); got != int64((round+1)*pool.NumWorkers()) {
			t.Fatalf("round %d: counter = %d, want %d — barrier did not wait for all workers", round, got, (round+1)*pool.NumWorkers())
		}
	}
}

func TestWorkerPoolRoutesToCorrectWorker(t *testing.T) {
	pool := NewWorkerPool(4, WorkerPoolConfig{NUMANode: -1})
	defer pool.Shutdown()

	seenBy := make([]int32, 4)
	for w := 0; w < 4; w++ {
		idx := w
		pool.Submit(w, func() {
			atomic.AddInt32(&seenBy[idx], 1)
		})
	}
	pool.Wait()
	for i, n := range seenBy {
		if n != 1 {
			t.Fatalf("worker %d ran %d tasks, want 1", i, n)
		}
	}
}
