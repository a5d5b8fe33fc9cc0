package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// JobPayload describes one unit of background work by registered type.
type JobPayload struct {
	JobID      string         `json:"job_id"`
	Type       string         `json:"type"`
	Params     map[string]any `json:"params"`
	MaxRetries int            `json:"max_retries"`
	RetryCount int            `json:"retry_count"`
}

// JobFunc is a registered handler for one job type.
type JobFunc func(ctx context.Context, params map[string]any) error

// Pool runs registered background jobs on a fixed set of worker goroutines.
// Jobs panicking or failing never take a worker down.
type Pool struct {
	name       string
	numWorkers int
	jobChan    chan JobPayload

	mu       sync.RWMutex
	handlers map[string]JobFunc
}

func NewPool(name string, numWorkers, queueSize int) *Pool {
	return &Pool{
		name:       name,
		numWorkers: numWorkers,
		jobChan:    make(chan JobPayload, queueSize),
		handlers:   make(map[string]JobFunc),
	}
}

func (p *Pool) Name() string { return p.name }

// RegisterJob binds a handler to a job type. Must happen before Start.
func (p *Pool) RegisterJob(jobType string, fn JobFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[jobType] = fn
}

// SubmitJob enqueues a job, failing fast when the queue is full or the
// context expires.
func (p *Pool) SubmitJob(ctx context.Context, job JobPayload) error {
	select {
	case p.jobChan <- job:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pool %s: submit cancelled: %w", p.name, ctx.Err())
	}
}

// Start launches the workers and blocks until ctx is cancelled and every
// worker has drained out.
func (p *Pool) Start(ctx context.Context, managerWg *sync.WaitGroup) {
	defer managerWg.Done()

	var workerWg sync.WaitGroup
	for i := range p.numWorkers {
		workerWg.Add(1)
		go p.worker(ctx, &workerWg, i+1)
	}

	<-ctx.Done()
	slog.Info("Worker pool shutting down", "pool", p.name)
	close(p.jobChan)
	workerWg.Wait()
	slog.Info("Worker pool stopped", "pool", p.name)
}

func (p *Pool) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-p.jobChan:
			if !ok {
				return
			}
			p.execute(ctx, job, id)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pool) execute(ctx context.Context, job JobPayload, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Recovered from job panic",
				"pool", p.name, "worker", workerID, "job_type", job.Type, "panic", r)
		}
	}()

	p.mu.RLock()
	fn, ok := p.handlers[job.Type]
	p.mu.RUnlock()
	if !ok {
		slog.Error("No handler registered for job type", "pool", p.name, "job_type", job.Type)
		return
	}

	if err := fn(ctx, job.Params); err != nil {
		slog.Error("Job failed",
			"pool", p.name, "worker", workerID,
			"job_id", job.JobID, "job_type", job.Type,
			"retry_count", job.RetryCount, "error", err)

		if job.RetryCount < job.MaxRetries {
			job.RetryCount++
			submitCtx, cancel := context.WithTimeout(ctx, submitTimeout)
			defer cancel()
			if err := p.SubmitJob(submitCtx, job); err != nil {
				slog.Error("Job retry submission failed", "pool", p.name, "job_id", job.JobID, "error", err)
			}
		}
	}
}
