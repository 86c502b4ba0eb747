// Package maintenance runs periodic housekeeping jobs.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/store"
)

// Defaults for the LLM event retention job.
const (
	DefaultRetention = 30 * 24 * time.Hour
	DefaultSchedule  = "0 3 * * *"
)

// Config controls the retention job.
type Config struct {
	// Retention is how long LLM request events are kept.
	Retention time.Duration
	// Schedule is a five-field cron expression evaluated in UTC.
	Schedule string
}

// Scheduler prunes old LLM request events on a cron schedule.
type Scheduler struct {
	scheduler *gocron.Scheduler
	events    store.EventRepo
	cfg       Config
	now       func() time.Time
	log       *logger.Logger
}

// New creates a Scheduler. Zero config values take the defaults.
func New(events store.EventRepo, cfg Config, log *logger.Logger) *Scheduler {
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		events:    events,
		cfg:       cfg,
		now:       time.Now,
		log:       logger.OrNop(log).With("component", "maintenance"),
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Cron(s.cfg.Schedule).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Prune(ctx); err != nil {
			s.log.Error("prune llm events failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule prune job %q: %w", s.cfg.Schedule, err)
	}
	s.scheduler.StartAsync()
	s.log.Info("maintenance scheduler started", "schedule", s.cfg.Schedule, "retention", s.cfg.Retention.String())
	return nil
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Prune deletes LLM request events older than the retention window.
func (s *Scheduler) Prune(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.Retention)
	n, err := s.events.PruneLLMEvents(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Info("pruned llm events", "deleted", n, "before", cutoff.UTC().Format(time.RFC3339))
	return n, nil
}
