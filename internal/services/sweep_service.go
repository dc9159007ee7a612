package services

import (
	"context"
	"sync"
	"time"

	"ops-portal.com/ops-portal/internal/logging"
)

// SweepService periodically cancels overdue tasks. ListTasks also sweeps on
// read, so the worker only bounds how stale an unread task can get.
type SweepService struct {
	tasks    *TaskService
	interval time.Duration
	log      logging.Logger

	wg      sync.WaitGroup
	stop    chan struct{}
	started bool
}

func NewSweepService(tasks *TaskService, interval time.Duration, log logging.Logger) *SweepService {
	if log == nil {
		log = logging.Discard()
	}
	return &SweepService{
		tasks:    tasks,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Start launches the ticker loop. A non-positive interval disables it.
func (s *SweepService) Start() {
	if s.interval <= 0 || s.started {
		return
	}
	s.started = true

	s.wg.Add(1)
	go s.loop()
}

func (s *SweepService) loop() {
	defer s.wg.Done()

	s.log.Info(context.Background(), "sweep worker started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stop:
			s.log.Info(context.Background(), "sweep worker stopped")
			return
		}
	}
}

// RunOnce performs a single sweep and logs the outcome.
func (s *SweepService) RunOnce(ctx context.Context) int {
	expired, err := s.tasks.ExpireOverdue(ctx)
	if err != nil {
		s.log.Error(ctx, "sweep failed", "error", err)
		return 0
	}
	return expired
}

func (s *SweepService) Shutdown(ctx context.Context) {
	if !s.started {
		return
	}
	close(s.stop)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info(ctx, "sweep worker shut down cleanly")
	case <-ctx.Done():
		s.log.Warn(ctx, "sweep worker shutdown timed out")
	}
}
