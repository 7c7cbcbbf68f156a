package sgd

import (
	"runtime"
	"sync"
)

// task is one unit of work submitted to a single worker's mailbox.
type task func()

// WorkerPoolConfig configures an advisory detail of pool construction.
type WorkerPoolConfig struct {
	// NUMANode, if >= 0, asks each worker goroutine to pin its OS thread
	// via runtime.LockOSThread. Go exposes no portable API to bind a
	// thread to a specific NUMA node, so this is advisory pinning only:
	// it keeps a worker's goroutine from migrating OS threads mid-round,
	// which is the part of NUMA locality Go can actually promise.
	NUMANode int
}

// WorkerPool is a fixed set of long-lived goroutines, each fed by its own
// single-slot mailbox channel. It is grounded on the teacher's
// ml.Train dispatch-and-WaitGroup pattern, generalized from one
// data-parallel batch per call to a per-round fork/join that the trainer
// drives repeatedly without re-creating the goroutines. Dispatching one
// task per worker per round (rather than a single shared work queue)
// keeps shard assignment deterministic, which the learning-rate schedule
// in §4.2.2 depends on.
type WorkerPool struct {
	mailboxes []chan task
	wg        sync.WaitGroup
}

// NewWorkerPool starts n worker goroutines and returns the pool that
// feeds them. n must be >= 1.
func NewWorkerPool(n int, cfg WorkerPoolConfig) *WorkerPool {
	if n < 1 {
		panic("sgd: worker pool size must be >= 1")
	}
	p := &WorkerPool{mailboxes: make([]chan task, n)}
	for i := 0; i < n; i++ {
		mb := make(chan task, 1)
		p.mailboxes[i] = mb
		go p.run(i, mb, cfg)
	}
	return p
}

func (p *WorkerPool) run(id int, mb <-chan task, cfg WorkerPoolConfig) {
	if cfg.NUMANode >= 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	for t := range mb {
		t()
	}
}

// NumWorkers returns the number of worker goroutines in the pool.
func (p *WorkerPool) NumWorkers() int { return len(p.mailboxes) }

// Submit sends a round's task to worker i and registers it with the
// pool's round barrier; the caller must call Wait once per batch of
// Submit calls before reusing the pool for the next round.
func (p *WorkerPool) Submit(i int, t task) {
	p.wg.Add(1)
	p.mailboxes[i] <- func() {
		defer p.wg.Done()
		t()
	}
}

// Wait blocks until every task submitted since the last Wait has
// completed. This is the trainer's one-barrier-per-round synchronization
// point.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Shutdown closes every worker's mailbox, causing each worker goroutine
// to exit after draining any pending task. Shutdown must only be called
// after a final Wait; the pool must not be reused afterward.
func (p *WorkerPool) Shutdown() {
	for _, mb := range p.mailboxes {
		close(mb)
	}
}
