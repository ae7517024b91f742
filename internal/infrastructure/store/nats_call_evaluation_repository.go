// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// NatsCallEvaluationRepository is the NATS KV store repository for call evaluations.
type NatsCallEvaluationRepository struct {
	*NatsBaseRepository[models.CallEvaluation]
}

// NewNatsCallEvaluationRepository creates a new NATS KV store repository for call evaluations.
func NewNatsCallEvaluationRepository(kvStore INatsKeyValue) *NatsCallEvaluationRepository {
	return &NatsCallEvaluationRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.CallEvaluation](kvStore, "call evaluation"),
	}
}

// Create stores a new call evaluation
func (r *NatsCallEvaluationRepository) Create(ctx context.Context, evaluation *models.CallEvaluation) error {
	if evaluation.UID == "" {
		return domain.NewValidationError("evaluation UID is required")
	}
	if evaluation.CallRecordUID == "" {
		return domain.NewValidationError("evaluation call record UID is required")
	}

	return r.NatsBaseRepository.Put(ctx, evaluation.UID, evaluation)
}

// Get retrieves a call evaluation by UID
func (r *NatsCallEvaluationRepository) Get(ctx context.Context, uid string) (*models.CallEvaluation, error) {
	return r.NatsBaseRepository.Get(ctx, uid)
}

// GetByCallRecordUID retrieves the evaluation attached to a call record.
func (r *NatsCallEvaluationRepository) GetByCallRecordUID(ctx context.Context, callRecordUID string) (*models.CallEvaluation, error) {
	evaluations, err := r.ListEntities(ctx, "")
	if err != nil {
		return nil, err
	}

	for _, evaluation := range evaluations {
		if evaluation.CallRecordUID == callRecordUID {
			return evaluation, nil
		}
	}

	return nil, domain.NewNotFoundError("evaluation not found for call record")
}
