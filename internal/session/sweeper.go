package session

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// sweepSchedule is how often expired sessions are collected.
const sweepSchedule = "@every 1m"

// Sweeper runs the registry's TTL sweep on a cron schedule.
type Sweeper struct {
	cron     *cron.Cron
	registry *Registry
	logger   *slog.Logger
}

// NewSweeper creates a sweeper for the registry.
func NewSweeper(registry *Registry, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		registry: registry,
		logger:   logger.With("component", "session-sweeper"),
	}
}

// Start schedules the periodic sweep.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(sweepSchedule, func() {
		if n := s.registry.Sweep(); n > 0 {
			s.logger.Info("swept expired sessions", "count", n)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", "schedule", sweepSchedule)
	return nil
}

// Stop stops the schedule. Sweeps already in flight finish.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	s.logger.Info("session sweeper stopped")
}
