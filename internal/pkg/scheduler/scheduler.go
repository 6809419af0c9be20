// Package scheduler runs periodic background jobs on a gocron scheduler that
// logs every run through slog.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Scheduler owns a started gocron.Scheduler.
type Scheduler struct {
	s gocron.Scheduler
}

// New creates and starts a scheduler whose jobs inherit ctx.
func New(ctx context.Context) (*Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithContext(ctx),
			gocron.WithEventListeners(
				gocron.BeforeJobRuns(func(jobID uuid.UUID, jobName string) {
					slog.DebugContext(ctx, "job started", "job_name", jobName, "job_id", jobID.String())
				}),
				gocron.AfterJobRuns(func(jobID uuid.UUID, jobName string) {
					slog.DebugContext(ctx, "job finished", "job_name", jobName, "job_id", jobID.String())
				}),
				gocron.AfterJobRunsWithError(func(jobID uuid.UUID, jobName string, err error) {
					slog.ErrorContext(ctx, "error while running the job", "job_name", jobName, "job_id", jobID.String(), "error", err)
				}),
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					slog.ErrorContext(ctx, "job panicked", "job_name", jobName, "job_id", jobID.String(), "recover_data", recoverData)
				}),
			),
		),
		gocron.WithLogger(slog.Default()),
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	s.Start()

	return &Scheduler{s: s}, nil
}

// Every registers fn to run every interval. A run that outlasts the interval
// delays the next one instead of overlapping it.
func (s *Scheduler) Every(name string, interval time.Duration, fn func(ctx context.Context) error) error {
	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// Shutdown stops scheduling and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.s.Shutdown()
}
