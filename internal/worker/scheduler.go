package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const submitTimeout = 5 * time.Second

// Scheduler submits its job list to a pool on a fixed interval.
type Scheduler struct {
	name   string
	ticker *time.Ticker
	pool   *Pool

	mu   sync.RWMutex
	jobs []JobPayload
}

func NewScheduler(name string, interval time.Duration, pool *Pool) *Scheduler {
	return &Scheduler{
		name:   name,
		ticker: time.NewTicker(interval),
		pool:   pool,
	}
}

func (s *Scheduler) AddJob(job JobPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

// Run fires the job list every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("Scheduler running", "scheduler", s.name)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.ticker.C:
			s.submitJobs(ctx)
		case <-ctx.Done():
			slog.Info("Scheduler shutting down", "scheduler", s.name)
			return
		}
	}
}

func (s *Scheduler) submitJobs(ctx context.Context) {
	s.mu.RLock()
	jobs := make([]JobPayload, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.RUnlock()

	for _, job := range jobs {
		job.JobID = uuid.NewString()
		job.RetryCount = 0

		submitCtx, cancel := context.WithTimeout(ctx, submitTimeout)
		if err := s.pool.SubmitJob(submitCtx, job); err != nil {
			slog.Error("Scheduler failed to submit job",
				"scheduler", s.name, "job_type", job.Type, "error", err)
		}
		cancel()
	}
}
