package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/config"
	"github.com/mamadbah2/backoffice/pkg/clients/backend"
)

const jobTimeout = 2 * time.Minute

// Job is the daily work the scheduler triggers.
type Job interface {
	RunDaily(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	job      Job
	schedule string
	token    string
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running job on the configured schedule and timezone.
func NewScheduler(cfg config.Config, job Job, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Reporting.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		job:      job,
		schedule: cfg.Reporting.CronSchedule,
		token:    cfg.Backend.ServiceToken,
		logger:   logger,
	}, nil
}

// Start registers the daily report and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyReport() {
	s.logger.Info("generating daily inventory report")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if s.token != "" {
		ctx = backend.WithToken(ctx, s.token)
	}

	if err := s.job.RunDaily(ctx); err != nil {
		s.logger.Error("daily inventory report finished with errors", zap.Error(err))
		return
	}
	s.logger.Info("daily inventory report sent successfully")
}
