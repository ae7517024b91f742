// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// CallRecordRepository persists canonical call records. Create must be the
// atomic idempotency gate: inserting a record whose (owner, provider,
// external ID) index key already exists fails with a conflict error, which
// callers treat as "already handled".
type CallRecordRepository interface {
	Create(ctx context.Context, record *models.CallRecord) error
	Get(ctx context.Context, uid string) (*models.CallRecord, error)
	GetWithRevision(ctx context.Context, uid string) (*models.CallRecord, uint64, error)
	Update(ctx context.Context, record *models.CallRecord, revision uint64) error
	// GetByExternalID looks up a record by its owner-scoped idempotency key.
	GetByExternalID(ctx context.Context, ownerUID, provider, externalID string) (*models.CallRecord, error)
	// ListByOwner returns all records owned by the given user.
	ListByOwner(ctx context.Context, ownerUID string) ([]*models.CallRecord, error)
}

// CallEvaluationRepository persists call evaluations.
type CallEvaluationRepository interface {
	Create(ctx context.Context, evaluation *models.CallEvaluation) error
	Get(ctx context.Context, uid string) (*models.CallEvaluation, error)
	GetByCallRecordUID(ctx context.Context, callRecordUID string) (*models.CallEvaluation, error)
}

// WorkflowRunRepository persists durable workflow run state.
type WorkflowRunRepository interface {
	Create(ctx context.Context, run *models.WorkflowRun) error
	Get(ctx context.Context, uid string) (*models.WorkflowRun, error)
	GetWithRevision(ctx context.Context, uid string) (*models.WorkflowRun, uint64, error)
	Update(ctx context.Context, run *models.WorkflowRun, revision uint64) error
	// ListDue returns suspended runs whose resume time has passed.
	ListDue(ctx context.Context, now time.Time) ([]*models.WorkflowRun, error)
}

// UserRepository reads and updates sales rep accounts.
type UserRepository interface {
	Get(ctx context.Context, uid string) (*models.User, error)
	GetWithRevision(ctx context.Context, uid string) (*models.User, uint64, error)
	Update(ctx context.Context, user *models.User, revision uint64) error
	// ListByOrganization returns all users of an organization.
	ListByOrganization(ctx context.Context, organizationID string) ([]*models.User, error)
}

// OrgSettingsRepository reads per-organization analysis configuration.
type OrgSettingsRepository interface {
	// Get returns the stored settings, or the defaults when none exist.
	Get(ctx context.Context, organizationID string) (*models.OrgSettings, error)
	Put(ctx context.Context, settings *models.OrgSettings) error
}
