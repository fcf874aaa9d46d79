package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookingportal/internal/logging"

	"github.com/go-co-op/gocron/v2"
)

const sessionCleanupTimeout = time.Minute

// SessionCleaner deletes expired session rows.
type SessionCleaner interface {
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// JobScheduler runs the periodic maintenance jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	sessions  SessionCleaner
	logger    logging.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(sessions SessionCleaner, cleanupInterval time.Duration, logger logging.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		sessions:  sessions,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(cleanupInterval); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info(context.Background(), "starting background job scheduler", "jobs", js.JobCount())
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info(context.Background(), "stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) JobCount() int {
	js.mu.RLock()
	defer js.mu.RUnlock()
	return len(js.jobs)
}

func (js *JobScheduler) registerJobs(cleanupInterval time.Duration) error {
	if cleanupInterval <= 0 {
		return nil
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(cleanupInterval),
		gocron.NewTask(js.cleanupExpiredSessions),
		gocron.WithName("session-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create session cleanup job: %w", err)
	}

	js.mu.Lock()
	js.jobs["session-cleanup"] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) cleanupExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), sessionCleanupTimeout)
	defer cancel()

	deleted, err := js.sessions.CleanupExpiredSessions(ctx)
	if err != nil {
		js.logger.Error(ctx, "session cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		js.logger.Info(ctx, "removed expired sessions", "count", deleted)
	}
}
