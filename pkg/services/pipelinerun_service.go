package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/pipelinerun"
)

// PipelineRunService manages the pipeline-run ledger (spec.md §3, §4.5):
// one row per FULL_PIPELINE invocation, tracking how many logical units of
// work it fanned out and how many completed or failed.
type PipelineRunService struct {
	client *ent.Client
}

// NewPipelineRunService creates a new PipelineRunService.
func NewPipelineRunService(client *ent.Client) *PipelineRunService {
	return &PipelineRunService{client: client}
}

// CreateRunParams are the inputs to Create.
type CreateRunParams struct {
	CompanyID   string
	Forms       []string
	Trigger     pipelinerun.Trigger
	RunMetadata map[string]any
}

// Create inserts a PipelineRun in pending status.
func (s *PipelineRunService) Create(ctx context.Context, p CreateRunParams) (*ent.PipelineRun, error) {
	create := s.client.PipelineRun.Create().
		SetID(uuid.New().String()).
		SetCompanyID(p.CompanyID).
		SetForms(p.Forms).
		SetTrigger(p.Trigger).
		SetStatus(pipelinerun.StatusPending)
	if p.RunMetadata != nil {
		create = create.SetRunMetadata(p.RunMetadata)
	}
	return create.Save(ctx)
}

// Start transitions a run to running and stamps started_at.
func (s *PipelineRunService) Start(ctx context.Context, id string) (*ent.PipelineRun, error) {
	r, err := s.client.PipelineRun.UpdateOneID(id).
		SetStatus(pipelinerun.StatusRunning).
		SetStartedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("start pipeline run: %w", err)
	}
	return r, nil
}

// Complete transitions a run to completed, flushing final job counters.
// Invariant I6 (jobs_created = jobs_completed + jobs_failed + pending-at-
// snapshot) is the caller's responsibility: by the time Complete is called
// there should be no pending units left.
func (s *PipelineRunService) Complete(ctx context.Context, id string, jobsCreated, jobsCompleted, jobsFailed int) (*ent.PipelineRun, error) {
	r, err := s.client.PipelineRun.UpdateOneID(id).
		SetStatus(pipelinerun.StatusCompleted).
		SetJobsCreated(jobsCreated).
		SetJobsCompleted(jobsCompleted).
		SetJobsFailed(jobsFailed).
		SetCompletedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("complete pipeline run: %w", err)
	}
	return r, nil
}

// Fail transitions a run to failed, always flushing whatever counters had
// accumulated before the fatal error (spec.md §4.5: "Always flush counts
// even on failure").
func (s *PipelineRunService) Fail(ctx context.Context, id, errMsg string, jobsCreated, jobsCompleted, jobsFailed int) (*ent.PipelineRun, error) {
	r, err := s.client.PipelineRun.UpdateOneID(id).
		SetStatus(pipelinerun.StatusFailed).
		SetError(errMsg).
		SetJobsCreated(jobsCreated).
		SetJobsCompleted(jobsCompleted).
		SetJobsFailed(jobsFailed).
		SetCompletedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("fail pipeline run: %w", err)
	}
	return r, nil
}

// Get resolves a pipeline run by id.
func (s *PipelineRunService) Get(ctx context.Context, id string) (*ent.PipelineRun, error) {
	r, err := s.client.PipelineRun.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pipeline run: %w", err)
	}
	return r, nil
}

// ListByCompany returns pipeline runs for a company, newest first.
func (s *PipelineRunService) ListByCompany(ctx context.Context, companyID string, limit int) ([]*ent.PipelineRun, error) {
	q := s.client.PipelineRun.Query().
		Where(pipelinerun.CompanyIDEQ(companyID)).
		Order(ent.Desc(pipelinerun.FieldCreatedAt))
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q.All(ctx)
}
