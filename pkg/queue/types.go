// Package queue implements the durable job store and worker pool at the
// center of the pipeline: atomic claim, lease-based staleness recovery,
// bounded retry, and dispatch to registered handlers.
package queue

import (
	"context"
	"errors"
)

// Sentinel errors for queue operations.
var (
	// ErrNoJobsAvailable indicates no pending job could be claimed.
	ErrNoJobsAvailable = errors.New("queue: no jobs available")

	// ErrInvalidTransition indicates an operation was attempted on a job
	// whose current status does not admit it (e.g. completing a job that
	// is not in_progress).
	ErrInvalidTransition = errors.New("queue: invalid job state transition")

	// ErrJobNotFound indicates the referenced job id does not exist.
	ErrJobNotFound = errors.New("queue: job not found")

	// ErrNoHandler indicates no handler is registered for a job's type.
	ErrNoHandler = errors.New("queue: no handler registered for job type")
)

// Handler is the contract every registered job handler satisfies: consume
// params, return a JSON-serializable result, or return an error that
// becomes the job's recorded failure.
type Handler func(ctx context.Context, params map[string]any) (map[string]any, error)

// PoolHealth summarizes the running state of the worker pool.
type PoolHealth struct {
	PodID         string         `json:"pod_id"`
	TotalWorkers  int            `json:"total_workers"`
	ActiveWorkers int            `json:"active_workers"`
	WorkerStats   []WorkerHealth `json:"worker_stats"`
}

// WorkerHealth summarizes a single worker's state.
type WorkerHealth struct {
	ID            string `json:"id"`
	Status        string `json:"status"` // "idle" or "working"
	CurrentJobID  string `json:"current_job_id,omitempty"`
	JobsProcessed int    `json:"jobs_processed"`
}
