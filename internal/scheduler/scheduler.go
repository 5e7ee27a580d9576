package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"TokenTicker/internal/engine"
)

// Scheduler drives the periodic price update.
type Scheduler struct {
	Cron   *cron.Cron
	Engine *engine.Engine
}

// New creates a Scheduler. Overlapping runs are skipped rather than stacked,
// so a slow store cannot fork a symbol's walk with two concurrent cycles.
func New(eng *engine.Engine) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Engine: eng,
	}
}

// Register adds the price update job on the given cron spec.
func (s *Scheduler) Register(spec string, band engine.Band) error {
	if _, err := s.Cron.AddFunc(spec, func() {
		s.Engine.UpdateAll(band, 0)
	}); err != nil {
		return fmt.Errorf("register price update: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
