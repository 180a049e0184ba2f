package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/config"
	"github.com/spec-kit/magazine-service/internal/observability"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type scheduledJob struct {
	job     Job
	at      string // wall-clock HH:MM
	lastDay string // date of the last run, YYYY-MM-DD
}

// Scheduler runs each registered job once per day at its configured
// wall-clock time. It polls on a coarse ticker rather than computing
// exact sleep durations so clock adjustments cannot strand a job.
type Scheduler struct {
	cfg     config.SchedulerConfig
	logger  *zap.Logger
	metrics *observability.Metrics
	jobs    []*scheduledJob
}

// NewScheduler constructs a scheduler without starting it.
func NewScheduler(cfg config.SchedulerConfig, logger *zap.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{cfg: cfg, logger: logger, metrics: metrics}
}

// Register adds a job to run daily at the given HH:MM local time.
func (s *Scheduler) Register(job Job, at string) {
	s.jobs = append(s.jobs, &scheduledJob{job: job, at: at})
}

// Start blocks until ctx is cancelled, firing due jobs on each tick.
// It is meant to be run in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return
	}
	interval := s.cfg.TickerInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Mark jobs whose slot already passed today as done so a restart
	// does not replay them immediately.
	now := time.Now()
	day := now.Format("2006-01-02")
	clock := now.Format("15:04")
	for _, entry := range s.jobs {
		if clock >= entry.at {
			entry.lastDay = day
		}
	}

	s.logger.Info("scheduler started",
		zap.Int("jobs", len(s.jobs)),
		zap.Duration("tick", interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case now := <-ticker.C:
			s.runDue(ctx, now)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context, now time.Time) {
	day := now.Format("2006-01-02")
	clock := now.Format("15:04")
	for _, entry := range s.jobs {
		if entry.lastDay == day || clock < entry.at {
			continue
		}
		entry.lastDay = day
		s.run(ctx, entry.job)
	}
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	started := time.Now()
	err := job.Run(ctx)
	s.metrics.RecordJobRun(job.Name(), err == nil)
	if err != nil {
		s.logger.Error("scheduled job failed",
			zap.String("job", job.Name()),
			zap.Duration("took", time.Since(started)),
			zap.Error(err))
		return
	}
	s.logger.Info("scheduled job finished",
		zap.String("job", job.Name()),
		zap.Duration("took", time.Since(started)))
}
