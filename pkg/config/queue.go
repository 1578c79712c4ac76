package config

import "time"

// QueueConfig contains job queue and worker pool configuration. These
// values control how jobs are polled, claimed, and swept for orphans.
type QueueConfig struct {
	// WorkerCount is the number of worker goroutines in this process.
	// Each worker independently polls and claims jobs.
	WorkerCount int `yaml:"worker_count"`

	// PollInterval is the base interval between claim attempts when the
	// queue is empty.
	PollInterval time.Duration `yaml:"poll_interval"`

	// PollIntervalJitter is random jitter added to PollInterval so that
	// multiple workers don't poll in lockstep.
	PollIntervalJitter time.Duration `yaml:"poll_interval_jitter"`

	// JobTimeout is how long an in-progress job may go without a heartbeat
	// (updated_at refresh) before the orphan sweep treats it as stale. A job
	// whose heartbeat keeps running is not limited by it.
	JobTimeout time.Duration `yaml:"job_timeout"`

	// GracefulShutdownTimeout is how long to wait for in-flight jobs to
	// finish when the pool is asked to stop.
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`

	// OrphanSweepInterval is how often the stale-job sweep runs.
	OrphanSweepInterval time.Duration `yaml:"orphan_sweep_interval"`

	// HeartbeatInterval is how often an in-progress job's updated_at is
	// refreshed; jobs older than JobTimeout since their last heartbeat
	// are swept as stale.
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
}

// DefaultQueueConfig returns the built-in queue defaults.
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		WorkerCount:             5,
		PollInterval:            1 * time.Second,
		PollIntervalJitter:      250 * time.Millisecond,
		JobTimeout:              15 * time.Minute,
		GracefulShutdownTimeout: 30 * time.Second,
		OrphanSweepInterval:     1 * time.Minute,
		HeartbeatInterval:       10 * time.Second,
	}
}
