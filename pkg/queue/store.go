package queue

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/job"
)

// Store is the durable job store: a priority-ordered queue with
// at-most-one-worker claim, lease-based staleness recovery, and bounded
// retry, backed by Postgres through Ent.
//
// claim_next is the only serialization point (invariant I1); complete and
// fail operate on a job already owned by the calling worker and need no
// cross-worker coordination.
type Store struct {
	client *ent.Client
}

// NewStore wraps an Ent client as a job Store.
func NewStore(client *ent.Client) *Store {
	return &Store{client: client}
}

// DefaultPriority and DefaultMaxRetries are applied by Create when
// CreateParams.Priority/MaxRetries is nil. Both 0 are legal, meaningful
// values (priority=0 is the highest priority bucket; max_retries=0 means
// "fail on first exception", spec.md §4.1), so "unset" is represented by a
// nil pointer rather than overloading the zero value.
const (
	DefaultPriority   = 5
	DefaultMaxRetries = 3
)

// CreateParams are the inputs to Create. A nil Priority or MaxRetries falls
// back to DefaultPriority/DefaultMaxRetries; an explicit 0 is honored as-is.
type CreateParams struct {
	JobType    job.JobType
	Params     map[string]any
	Priority   *int
	MaxRetries *int
}

// Create inserts a new job in pending status.
func (s *Store) Create(ctx context.Context, p CreateParams) (*ent.Job, error) {
	priority := DefaultPriority
	if p.Priority != nil {
		priority = *p.Priority
	}
	maxRetries := DefaultMaxRetries
	if p.MaxRetries != nil {
		maxRetries = *p.MaxRetries
	}
	if p.Params == nil {
		p.Params = map[string]any{}
	}

	return s.client.Job.Create().
		SetID(uuid.New().String()).
		SetJobType(p.JobType).
		SetParams(p.Params).
		SetPriority(priority).
		SetMaxRetries(maxRetries).
		SetStatus(job.StatusPending).
		Save(ctx)
}

// Get returns a job by id, or ErrJobNotFound.
func (s *Store) Get(ctx context.Context, id string) (*ent.Job, error) {
	j, err := s.client.Job.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// ListParams filters List; zero values mean "no filter" (Status == "" and
// JobType == ""), and Limit <= 0 means unbounded.
type ListParams struct {
	Status  job.Status
	JobType job.JobType
	Limit   int
}

// List returns jobs matching the given filters, newest first.
func (s *Store) List(ctx context.Context, p ListParams) ([]*ent.Job, error) {
	q := s.client.Job.Query()
	if p.Status != "" {
		q = q.Where(job.StatusEQ(p.Status))
	}
	if p.JobType != "" {
		q = q.Where(job.JobTypeEQ(p.JobType))
	}
	q = q.Order(ent.Desc(job.FieldCreatedAt))
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	return q.All(ctx)
}

// ClaimNext atomically selects the pending job with the smallest
// (priority, created_at) and transitions it to in_progress, stamping
// worker_id and started_at. Returns ErrNoJobsAvailable if the queue is
// empty.
//
// Uses SELECT ... FOR UPDATE SKIP LOCKED so that concurrent callers never
// observe or claim the same row.
func (s *Store) ClaimNext(ctx context.Context, workerID string) (*ent.Job, error) {
	tx, err := s.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("claim next: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	candidate, err := tx.Job.Query().
		Where(job.StatusEQ(job.StatusPending)).
		Order(ent.Asc(job.FieldPriority), ent.Asc(job.FieldCreatedAt)).
		Limit(1).
		ForUpdate(sql.WithLockAction(sql.SkipLocked)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNoJobsAvailable
		}
		return nil, fmt.Errorf("claim next: query candidate: %w", err)
	}

	now := time.Now()
	claimed, err := candidate.Update().
		SetStatus(job.StatusInProgress).
		SetWorkerID(workerID).
		SetStartedAt(now).
		SetUpdatedAt(now).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("claim next: update candidate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("claim next: commit: %w", err)
	}

	return claimed, nil
}

// Complete transitions a job from in_progress to completed, recording its
// result. Returns ErrInvalidTransition if the job is not in_progress.
func (s *Store) Complete(ctx context.Context, id string, result map[string]any) (*ent.Job, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != job.StatusInProgress {
		return nil, ErrInvalidTransition
	}

	return j.Update().
		SetStatus(job.StatusCompleted).
		SetResult(result).
		SetCompletedAt(time.Now()).
		SetUpdatedAt(time.Now()).
		ClearWorkerID().
		Save(ctx)
}

// Fail transitions a job from in_progress, incrementing retry_count. If
// retry_count <= max_retries the job returns to pending with worker_id,
// started_at, and the previous heartbeat cleared, ready to be reclaimed;
// otherwise it moves to the terminal failed state (invariant I2). Calling
// Fail on a job already in a terminal state is a no-op returning the
// unchanged job (idempotent for terminal states).
func (s *Store) Fail(ctx context.Context, id string, reason string) (*ent.Job, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status == job.StatusCompleted || j.Status == job.StatusFailed || j.Status == job.StatusCancelled {
		return j, nil
	}
	if j.Status != job.StatusInProgress {
		return nil, ErrInvalidTransition
	}

	retryCount := j.RetryCount + 1
	update := j.Update().
		SetRetryCount(retryCount).
		SetError(reason).
		SetUpdatedAt(time.Now()).
		ClearWorkerID()

	if retryCount <= j.MaxRetries {
		update = update.
			SetStatus(job.StatusPending).
			ClearStartedAt()
	} else {
		update = update.
			SetStatus(job.StatusFailed).
			SetCompletedAt(time.Now())
	}

	return update.Save(ctx)
}

// Cancel transitions a pending job to cancelled. Legal only from pending;
// any other source state returns ErrInvalidTransition and leaves the job
// unmodified.
func (s *Store) Cancel(ctx context.Context, id string) (*ent.Job, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Status != job.StatusPending {
		return nil, ErrInvalidTransition
	}
	return j.Update().
		SetStatus(job.StatusCancelled).
		SetUpdatedAt(time.Now()).
		Save(ctx)
}

// RequeueFailed resets failed jobs (optionally filtered by job_type) back
// to pending with retry_count, worker_id, error, and timestamps cleared.
func (s *Store) RequeueFailed(ctx context.Context, jobType job.JobType) ([]*ent.Job, error) {
	q := s.client.Job.Query().Where(job.StatusEQ(job.StatusFailed))
	if jobType != "" {
		q = q.Where(job.JobTypeEQ(jobType))
	}
	failed, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("requeue failed: query: %w", err)
	}

	requeued := make([]*ent.Job, 0, len(failed))
	for _, j := range failed {
		updated, err := j.Update().
			SetStatus(job.StatusPending).
			SetRetryCount(0).
			SetUpdatedAt(time.Now()).
			ClearWorkerID().
			ClearError().
			ClearStartedAt().
			ClearCompletedAt().
			Save(ctx)
		if err != nil {
			return nil, fmt.Errorf("requeue failed: update %s: %w", j.ID, err)
		}
		requeued = append(requeued, updated)
	}
	return requeued, nil
}

// CancelFailed cancels every failed job (optionally filtered by job_type)
// and returns the count affected.
func (s *Store) CancelFailed(ctx context.Context, jobType job.JobType) (int, error) {
	q := s.client.Job.Update().Where(job.StatusEQ(job.StatusFailed))
	if jobType != "" {
		q = q.Where(job.JobTypeEQ(jobType))
	}
	return q.SetStatus(job.StatusCancelled).SetUpdatedAt(time.Now()).Save(ctx)
}

// MarkStaleAsFailed treats every in_progress job whose updated_at is older
// than staleThreshold as a Fail(id, "stale") call, recovering work
// abandoned by a crashed worker. A threshold of 0 marks every in_progress
// job.
func (s *Store) MarkStaleAsFailed(ctx context.Context, staleThreshold time.Duration) ([]*ent.Job, error) {
	cutoff := time.Now().Add(-staleThreshold)

	stale, err := s.client.Job.Query().
		Where(
			job.StatusEQ(job.StatusInProgress),
			job.UpdatedAtLTE(cutoff),
		).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("mark stale: query: %w", err)
	}

	recovered := make([]*ent.Job, 0, len(stale))
	for _, j := range stale {
		updated, err := s.Fail(ctx, j.ID, "stale")
		if err != nil {
			return nil, fmt.Errorf("mark stale: fail %s: %w", j.ID, err)
		}
		recovered = append(recovered, updated)
	}
	return recovered, nil
}

// CountByStatus counts jobs in the given status, optionally filtered by
// job_type.
func (s *Store) CountByStatus(ctx context.Context, status job.Status, jobType job.JobType) (int, error) {
	q := s.client.Job.Query().Where(job.StatusEQ(status))
	if jobType != "" {
		q = q.Where(job.JobTypeEQ(jobType))
	}
	return q.Count(ctx)
}
