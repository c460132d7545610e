// Package download fetches reports for map areas on a bounded worker pool.
package download

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Job is a unit of work run by the pool. Jobs must return promptly once ctx is done.
type Job func(ctx context.Context)

// PoolConfig sizes a Pool.
type PoolConfig struct {
	MaxWorkers int // Upper bound on concurrently running jobs
	QueueSize  int // Jobs waiting for a worker
}

// DefaultPoolConfig returns the standard download pool size.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxWorkers: 5,
		QueueSize:  100,
	}
}

// Pool runs jobs on at most MaxWorkers goroutines. Jobs that find all workers
// busy wait in a queue of QueueSize; when the queue is full they are dropped.
// Idle workers exit on their own.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	pool   pond.Pool
	active atomic.Int32
}

// NewPool creates a pool.
func NewPool(cfg PoolConfig) *Pool {
	cfg.MaxWorkers = max(cfg.MaxWorkers, 1)
	cfg.QueueSize = max(cfg.QueueSize, 1) // pond treats zero as unbounded
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		pool: pond.NewPool(cfg.MaxWorkers,
			pond.WithQueueSize(cfg.QueueSize),
			pond.WithNonBlocking(true)),
	}
}

// Submit schedules job. It returns false if the pool is stopped or full;
// the job is then discarded.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	return p.pool.Go(func() { p.run(job) }) == nil
}

func (p *Pool) run(job Job) {
	if p.ctx.Err() != nil {
		return
	}
	p.active.Add(1)
	defer p.active.Add(-1)
	job(p.ctx)
}

// Workers returns the number of live workers.
func (p *Pool) Workers() int {
	return int(p.pool.RunningWorkers())
}

// Active returns the number of jobs currently running.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Queued returns the number of jobs waiting for a worker.
func (p *Pool) Queued() int {
	return int(p.pool.WaitingTasks())
}

// Stop cancels running jobs, skips queued ones and waits up to timeout for
// the workers to exit. A stopped pool rejects all further jobs.
func (p *Pool) Stop(timeout time.Duration) error {
	p.cancel()
	stopped := p.pool.Stop()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: workers still running after %s", domain.ErrPoolStopped, timeout)
	}
}
