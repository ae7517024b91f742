// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// NatsWorkflowRunRepository is the NATS KV store repository for workflow runs.
// Runs are keyed by kind and subject UID so a redelivered trigger event finds
// the existing run for its subject instead of starting a fresh one.
type NatsWorkflowRunRepository struct {
	*NatsBaseRepository[models.WorkflowRun]
}

// NewNatsWorkflowRunRepository creates a new NATS KV store repository for workflow runs.
func NewNatsWorkflowRunRepository(kvStore INatsKeyValue) *NatsWorkflowRunRepository {
	return &NatsWorkflowRunRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.WorkflowRun](kvStore, "workflow run"),
	}
}

func (r *NatsWorkflowRunRepository) runKey(run *models.WorkflowRun) string {
	return models.WorkflowRunKey(run.Kind, run.SubjectUID)
}

// Create stores a new workflow run; a conflict means a run already exists for
// the subject.
func (r *NatsWorkflowRunRepository) Create(ctx context.Context, run *models.WorkflowRun) error {
	if run.SubjectUID == "" {
		return domain.NewValidationError("workflow run subject UID is required")
	}
	if run.Kind == "" {
		return domain.NewValidationError("workflow run kind is required")
	}

	return r.NatsBaseRepository.CreateExclusive(ctx, r.runKey(run), run)
}

// Get retrieves a workflow run by its key (kind/subject UID).
func (r *NatsWorkflowRunRepository) Get(ctx context.Context, uid string) (*models.WorkflowRun, error) {
	return r.NatsBaseRepository.Get(ctx, uid)
}

// GetWithRevision retrieves a workflow run with its revision.
func (r *NatsWorkflowRunRepository) GetWithRevision(ctx context.Context, uid string) (*models.WorkflowRun, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, uid)
}

// Update updates an existing workflow run with optimistic concurrency control.
func (r *NatsWorkflowRunRepository) Update(ctx context.Context, run *models.WorkflowRun, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, r.runKey(run), run, revision)
}

// ListDue returns suspended runs whose resume time has passed.
func (r *NatsWorkflowRunRepository) ListDue(ctx context.Context, now time.Time) ([]*models.WorkflowRun, error) {
	runs, err := r.ListEntities(ctx, "")
	if err != nil {
		return nil, err
	}

	var due []*models.WorkflowRun
	for _, run := range runs {
		if run.Status != models.WorkflowRunStatusSuspended || run.ResumeAt == nil {
			continue
		}
		if !run.ResumeAt.After(now) {
			due = append(due, run)
		}
	}

	return due, nil
}
