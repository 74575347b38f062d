package workers

import (
	"context"
	"sync"
	"time"

	"sentiguard/internal/metrics"
	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

// DefaultStopTimeout bounds how long Stop waits for running iterations
const DefaultStopTimeout = 30 * time.Second

// Scheduler runs each registered worker on its own ticker
type Scheduler struct {
	workers     []Worker
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.RWMutex
	log         *logger.Logger
	stopTimeout time.Duration
	started     bool
}

// NewScheduler creates a scheduler. stopTimeout <= 0 uses DefaultStopTimeout.
func NewScheduler(log *logger.Logger, stopTimeout time.Duration) *Scheduler {
	if log == nil {
		log = logger.Get()
	}
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	return &Scheduler{
		log:         log.With("component", "scheduler"),
		stopTimeout: stopTimeout,
	}
}

// RegisterWorker adds a worker. Registration after Start is rejected.
func (s *Scheduler) RegisterWorker(w Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.log.Warnw("Cannot register worker after scheduler has started", "worker", w.Name())
		return
	}

	s.workers = append(s.workers, w)
	s.log.Infow("Worker registered", "worker", w.Name(), "interval", w.Interval())
}

// Start launches every enabled worker
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler already started")
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	workers := make([]Worker, len(s.workers))
	copy(workers, s.workers)
	s.mu.Unlock()

	started := 0
	for _, w := range workers {
		if !w.Enabled() {
			s.log.Infow("Skipping disabled worker", "worker", w.Name())
			continue
		}
		if w.Interval() <= 0 {
			s.log.Warnw("Skipping worker with non-positive interval", "worker", w.Name(), "interval", w.Interval())
			continue
		}
		s.wg.Add(1)
		go s.runWorker(w)
		started++
	}

	s.log.Infow("Worker scheduler started", "registered", len(workers), "running", started)
	return nil
}

// Stop cancels all workers and waits up to the stop timeout for in-progress
// iterations to return
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler not started")
	}
	s.cancel()
	s.mu.Unlock()

	s.log.Info("Stopping worker scheduler")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var stopErr error
	select {
	case <-done:
		s.log.Info("All workers stopped")
	case <-time.After(s.stopTimeout):
		s.log.Warnw("Worker shutdown timed out", "timeout", s.stopTimeout)
		stopErr = errors.Wrapf(errors.ErrInternal, "worker shutdown timeout after %s", s.stopTimeout)
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	return stopErr
}

func (s *Scheduler) runWorker(w Worker) {
	defer s.wg.Done()

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	s.executeWorker(w)

	for {
		select {
		case <-s.ctx.Done():
			s.log.Debugw("Worker stopping", "worker", w.Name())
			return
		case <-ticker.C:
			s.executeWorker(w)
		}
	}
}

// executeWorker runs one iteration, turning a panic into an error
func (s *Scheduler) executeWorker(w Worker) {
	if !w.Enabled() {
		return
	}

	start := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(errors.ErrInternal, "worker %s panicked: %v", w.Name(), r)
		}

		took := time.Since(start)
		metrics.RecordWorkerExecution(w.Name(), took, err)
		if rec, ok := w.(runRecorder); ok {
			if err != nil {
				rec.RecordError(err, took)
			} else {
				rec.RecordRun(took)
			}
		}

		if err != nil {
			s.log.Errorw("Worker execution failed", "worker", w.Name(), "error", err, "duration", took)
			return
		}
		s.log.Debugw("Worker execution completed", "worker", w.Name(), "duration", took)
	}()

	err = w.Run(s.ctx)
}

// GetWorkers returns the registered workers in registration order
func (s *Scheduler) GetWorkers() []Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := make([]Worker, len(s.workers))
	copy(workers, s.workers)
	return workers
}

// IsRunning reports whether Start has been called without a matching Stop
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
