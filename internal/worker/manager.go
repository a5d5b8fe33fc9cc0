package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Manager owns the pool and its schedulers and drives their shared
// lifecycle.
type Manager struct {
	pool       *Pool
	schedulers []*Scheduler

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(pool *Pool) *Manager {
	return &Manager{pool: pool}
}

// Schedule registers a recurring job: every interval, the payload is
// submitted to the pool.
func (m *Manager) Schedule(name string, interval time.Duration, job JobPayload) {
	s := NewScheduler(name, interval, m.pool)
	s.AddJob(job)
	m.schedulers = append(m.schedulers, s)
}

// Start launches the pool and all schedulers in the background.
func (m *Manager) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel

	m.wg.Add(1)
	go m.pool.Start(ctx, &m.wg)

	for _, s := range m.schedulers {
		m.wg.Add(1)
		go func(s *Scheduler) {
			defer m.wg.Done()
			s.Run(ctx)
		}(s)
	}

	slog.Info("Worker manager started",
		"pool", m.pool.Name(), "schedulers", len(m.schedulers))
}

// Stop signals shutdown and waits for the pool and schedulers to drain.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	slog.Info("Worker manager stopped")
}
