package jobs

import (
	"time"

	"bookshare-backend/internal/config"
	"bookshare-backend/internal/logger"
	"bookshare-backend/internal/repository"
	"bookshare-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	requests repository.RequestRepository
	email    service.EmailService
	config   *config.Config
	now      func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(requests repository.RequestRepository, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		requests: requests,
		email:    email,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SendPendingRequestReminders()
}
