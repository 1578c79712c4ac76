package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/pkg/config"
)

// Registry resolves a job's type to the handler that processes it. Handlers
// are populated once at startup and the registry is effectively immutable
// once the worker loop starts.
type Registry interface {
	Lookup(jobType string) (Handler, bool)
}

// WorkerStatus represents the current state of a worker.
type WorkerStatus string

// Worker status constants.
const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusWorking WorkerStatus = "working"
)

// Worker is a single queue worker: it claims jobs, dispatches them to the
// handler registry, and maintains a heartbeat while the handler runs so the
// stale-job sweep doesn't misclassify healthy work.
type Worker struct {
	id       string
	store    *Store
	config   *config.QueueConfig
	registry Registry
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu            sync.RWMutex
	status        WorkerStatus
	currentJobID  string
	jobsProcessed int
}

// NewWorker creates a new queue worker identified by id (expected to be
// unique per process instance — host+pid+nonce).
func NewWorker(id string, store *Store, cfg *config.QueueConfig, registry Registry) *Worker {
	return &Worker{
		id:       id,
		store:    store,
		config:   cfg,
		registry: registry,
		stopCh:   make(chan struct{}),
		status:   WorkerStatusIdle,
	}
}

// Start begins the worker's polling loop in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// multiple times.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// Health returns the current worker health snapshot.
func (w *Worker) Health() WorkerHealth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerHealth{
		ID:            w.id,
		Status:        string(w.status),
		CurrentJobID:  w.currentJobID,
		JobsProcessed: w.jobsProcessed,
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	log := slog.With("worker_id", w.id)
	log.Info("worker started")

	for {
		select {
		case <-w.stopCh:
			log.Info("worker shutting down")
			return
		case <-ctx.Done():
			log.Info("context cancelled, worker shutting down")
			return
		default:
			if err := w.pollAndProcess(ctx); err != nil {
				if errors.Is(err, ErrNoJobsAvailable) {
					w.sleep(w.pollInterval())
					continue
				}
				log.Error("error processing job", "error", err)
				w.sleep(time.Second)
			}
		}
	}
}

func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.stopCh:
	case <-time.After(d):
	}
}

// pollAndProcess claims a job, dispatches it, and records the outcome. Per
// the worker loop contract: no handler registered fails the job rather than
// blocking the queue.
func (w *Worker) pollAndProcess(ctx context.Context) error {
	j, err := w.store.ClaimNext(ctx, w.id)
	if err != nil {
		return err
	}

	log := slog.With("job_id", j.ID, "job_type", j.JobType, "worker_id", w.id)
	log.Info("job claimed")

	w.setStatus(WorkerStatusWorking, j.ID)
	defer w.setStatus(WorkerStatusIdle, "")

	handler, ok := w.registry.Lookup(string(j.JobType))
	if !ok {
		log.Error("no handler registered for job type")
		_, failErr := w.store.Fail(context.Background(), j.ID, "no handler")
		return failErr
	}

	heartbeatCtx, cancelHeartbeat := context.WithCancel(ctx)
	go w.runHeartbeat(heartbeatCtx, j.ID)

	result, handlerErr := handler(ctx, j.Params)
	cancelHeartbeat()

	if handlerErr != nil {
		log.Error("handler failed", "error", handlerErr)
		if _, err := w.store.Fail(context.Background(), j.ID, handlerErr.Error()); err != nil {
			return fmt.Errorf("recording job failure: %w", err)
		}
	} else {
		if _, err := w.store.Complete(context.Background(), j.ID, result); err != nil {
			return fmt.Errorf("recording job completion: %w", err)
		}
	}

	w.mu.Lock()
	w.jobsProcessed++
	w.mu.Unlock()

	log.Info("job processing complete")
	return nil
}

// runHeartbeat periodically bumps updated_at while a handler executes so
// the stale sweep doesn't reclaim healthy in-flight work.
func (w *Worker) runHeartbeat(ctx context.Context, jobID string) {
	ticker := time.NewTicker(w.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.store.client.Job.UpdateOneID(jobID).
				SetUpdatedAt(time.Now()).
				Exec(ctx); err != nil && !ent.IsNotFound(err) {
				slog.Warn("heartbeat update failed", "job_id", jobID, "error", err)
			}
		}
	}
}

// pollInterval returns the poll duration with jitter so workers don't poll
// in lockstep.
func (w *Worker) pollInterval() time.Duration {
	base := w.config.PollInterval
	jitter := w.config.PollIntervalJitter
	if jitter <= 0 {
		return base
	}
	offset := time.Duration(rand.Int64N(int64(2 * jitter)))
	return base - jitter + offset
}

func (w *Worker) setStatus(status WorkerStatus, jobID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.currentJobID = jobID
}
