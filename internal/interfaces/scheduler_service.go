package interfaces

import "time"

// JobStatus represents the current status of a scheduled job
type JobStatus struct {
	Name      string
	Schedule  string
	LastRun   *time.Time
	NextRun   *time.Time
	IsRunning bool
	LastError string
}

// SchedulerService manages cron-based background jobs
type SchedulerService interface {
	// RegisterJob registers a named job; it runs once the scheduler is started.
	RegisterJob(name, schedule string, handler func() error) error

	Start() error
	Stop() error
	IsRunning() bool

	// GetJobStatus returns the status of a specific job
	GetJobStatus(name string) (*JobStatus, error)
}
