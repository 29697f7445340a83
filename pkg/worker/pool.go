package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"launchdash/pkg/logger"
	"launchdash/pkg/metrics"
)

// Job is a unit of work for a worker
type Job func(ctx context.Context) error

// Pool runs submitted jobs on a fixed number of goroutines.
// Job failures are logged and counted; they never stop the pool.
type Pool struct {
	logger     *logger.Logger
	numWorkers int
	jobs       chan Job
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	failed     atomic.Int64
}

// NewPool creates a new Pool instance
func NewPool(l *logger.Logger, numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		logger:     l.Named("worker"),
		numWorkers: numWorkers,
		jobs:       make(chan Job, numWorkers*2), // Buffered for smooth handoff
	}
}

// Start initializes the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.runWorker(workerCtx, i)
	}
}

// Submit queues a job. It must not be called after Shutdown.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Debug("worker started", zap.Int("worker_id", id))

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.run(ctx, id, job)

		case <-ctx.Done():
			return
		}
	}
}

func (p *Pool) run(ctx context.Context, id int, job Job) {
	if err := job(ctx); err != nil {
		p.failed.Add(1)
		metrics.WorkerJobsTotal.WithLabelValues("error").Inc()
		p.logger.Warn("job failed", zap.Int("worker_id", id), zap.Error(err))
		return
	}
	metrics.WorkerJobsTotal.WithLabelValues("ok").Inc()
}

// Failed returns the number of jobs that returned an error
func (p *Pool) Failed() int64 {
	return p.failed.Load()
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
// If ctx expires first the remaining jobs are abandoned.
func (p *Pool) Shutdown(ctx context.Context) error {
	close(p.jobs)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	defer func() {
		if p.cancel != nil {
			p.cancel()
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
