// Package worker provides a bounded worker pool shared by all concurrent
// probe requests, plus helpers for reading bulk input.
package worker

import (
	"log/slog"
	"sync"
)

// Pool executes submitted tasks on a fixed number of long-lived workers.
// It is constructed once at startup and injected wherever bounded
// concurrency is needed, so the process-wide fan-out is capped regardless
// of how many requests run at the same time.
type Pool struct {
	tasks   chan func()
	logger  *slog.Logger
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// NewPool starts size workers and returns the pool. size must be at least 1.
func NewPool(size int, logger *slog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		tasks:  make(chan func()),
		logger: logger,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

// Submit queues fn for execution. It blocks until a worker accepts the task,
// which is how saturation back-pressure propagates to callers. Submitting to
// a closed pool panics, mirroring a send on a closed channel; close the pool
// only after all producers have finished.
func (p *Pool) Submit(fn func()) {
	p.tasks <- fn
}

// Close stops accepting tasks and waits for in-flight tasks to finish.
// Safe to call more than once.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.closeMu.Unlock()
	p.wg.Wait()
}

// Group tracks a batch of tasks submitted to a pool so a caller can wait
// for exactly its own batch, independent of other requests sharing the pool.
type Group struct {
	pool *Pool
	wg   sync.WaitGroup
}

// NewGroup returns a Group that submits to p.
func NewGroup(p *Pool) *Group {
	return &Group{pool: p}
}

// Go submits fn to the pool as part of this group.
func (g *Group) Go(fn func()) {
	g.wg.Add(1)
	g.pool.Submit(func() {
		defer g.wg.Done()
		fn()
	})
}

// Wait blocks until every task submitted through Go has completed.
func (g *Group) Wait() {
	g.wg.Wait()
}
