package engine

import (
	"sync"
	"time"

	"centsible/internal/logger"
)

// Scheduler drives the engine with a fixed-interval ticker. Each tick runs
// one full reconciliation pass; ticks never overlap because RunOnce is
// single-flight. Start and Stop are idempotent.
type Scheduler struct {
	engine   *Engine
	interval time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler ticking at the given interval.
func NewScheduler(engine *Engine, interval time.Duration) *Scheduler {
	return &Scheduler{engine: engine, interval: interval}
}

// Start launches the background loop. Calling Start on a running scheduler
// is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run()

	logger.Get().Infow("scheduler started", "interval", s.interval.String())
}

// Stop halts the background loop and waits for an in-flight pass to finish.
// Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
	s.wg.Wait()

	logger.Get().Infow("scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start so a restart settles state without waiting
	// a full interval.
	s.tick()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) tick() {
	ran, err := s.engine.RunOnce(time.Now())
	if err != nil {
		logger.Get().Errorw("reconciliation pass failed", "error", err)
		return
	}
	if !ran {
		logger.Get().Debugw("reconciliation pass skipped, previous still running")
	}
}
