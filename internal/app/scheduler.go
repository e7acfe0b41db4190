package app

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rogerio-castellano/catalog-sync/internal/config"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs the periodic jobs: an optional catalog refresh and the
// housekeeping function given by the caller.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(cfg config.SchedulerConfig, c *Controller, housekeeping func()) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(cron.WithParser(cronParser))}

	if cfg.RefreshSpec != "" {
		if _, err := s.cron.AddFunc(cfg.RefreshSpec, func() {
			zap.L().Debug("scheduled catalog refresh")
			c.LoadProducts()
		}); err != nil {
			return nil, fmt.Errorf("scheduler.refresh_spec %q: %w", cfg.RefreshSpec, err)
		}
	}

	if cfg.CleanupSpec != "" && housekeeping != nil {
		if _, err := s.cron.AddFunc(cfg.CleanupSpec, housekeeping); err != nil {
			return nil, fmt.Errorf("scheduler.cleanup_spec %q: %w", cfg.CleanupSpec, err)
		}
	}
	return s, nil
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	zap.L().Info("scheduler started", zap.Int("jobs", s.Jobs()))
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	zap.L().Info("scheduler stopped")
}
