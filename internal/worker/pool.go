// Package worker runs batches of independent tasks on a fixed number of
// goroutines.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned by Submit once the pool stopped accepting work.
var ErrPoolClosed = errors.New("worker pool closed")

// Task represents a unit of work to be processed by the pool
type Task func(ctx context.Context) error

// Pool manages concurrent processing of tasks
type Pool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
	failed      atomic.Int64
	logger      *slog.Logger
}

// New creates a pool bound to ctx; cancelling ctx stops the workers.
func New(ctx context.Context, workerCount int, logger *slog.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	poolCtx, cancel := context.WithCancel(ctx)
	return &Pool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         poolCtx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Debug("worker pool started", "workers", p.workerCount)
}

// Submit queues a task, blocking while the queue is full.
func (p *Pool) Submit(task Task) error {
	p.closeMux.Lock()
	defer p.closeMux.Unlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.taskQueue <- task:
		return nil
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// Wait closes the queue and blocks until every queued task has run.
func (p *Pool) Wait() {
	p.closeMux.Lock()
	if !p.closed {
		close(p.taskQueue)
		p.closed = true
	}
	p.closeMux.Unlock()

	p.wg.Wait()
	p.cancel()
}

// Shutdown cancels all workers and waits for completion
func (p *Pool) Shutdown() {
	p.cancel()
	p.Wait()
}

// Failed returns how many tasks returned an error so far.
func (p *Pool) Failed() int64 {
	return p.failed.Load()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for task := range p.taskQueue {
		if p.ctx.Err() != nil {
			// drain without running so Wait can return
			continue
		}
		if err := task(p.ctx); err != nil {
			p.failed.Add(1)
			p.logger.Warn("task failed", "worker", id, "error", err)
		}
	}
}
