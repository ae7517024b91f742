// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// CallRecordService owns the call record lifecycle. It is the only place
// status transitions happen; the allowed transitions are pending to evaluated
// and pending to failed.
type CallRecordService struct {
	callRecordRepository     domain.CallRecordRepository
	callEvaluationRepository domain.CallEvaluationRepository
}

// NewCallRecordService creates a new call record lifecycle service.
func NewCallRecordService(
	callRecordRepository domain.CallRecordRepository,
	callEvaluationRepository domain.CallEvaluationRepository,
) *CallRecordService {
	return &CallRecordService{
		callRecordRepository:     callRecordRepository,
		callEvaluationRepository: callEvaluationRepository,
	}
}

// ServiceReady checks if the service is ready to manage call records.
func (s *CallRecordService) ServiceReady() bool {
	return s.callRecordRepository != nil && s.callEvaluationRepository != nil
}

// Get retrieves a call record by UID.
func (s *CallRecordService) Get(ctx context.Context, uid string) (*models.CallRecord, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("call record service is not ready")
	}
	return s.callRecordRepository.Get(ctx, uid)
}

// AttachEvaluation stores the evaluation, links it to the record and moves
// the record to evaluated.
func (s *CallRecordService) AttachEvaluation(ctx context.Context, recordUID string, evaluation *models.CallEvaluation) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("call record service is not ready")
	}

	if err := s.callEvaluationRepository.Create(ctx, evaluation); err != nil {
		return err
	}

	return s.transition(ctx, recordUID, models.CallStatusEvaluated, func(record *models.CallRecord) {
		record.EvaluationUID = evaluation.UID
	})
}

// MarkFailed moves the record to failed after the workflow exhausted its
// retries. The failure is surfaced to the owner, never silently dropped.
func (s *CallRecordService) MarkFailed(ctx context.Context, recordUID string) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("call record service is not ready")
	}
	return s.transition(ctx, recordUID, models.CallStatusFailed, nil)
}

func (s *CallRecordService) transition(ctx context.Context, recordUID string, target models.CallStatus, mutate func(*models.CallRecord)) error {
	record, revision, err := s.callRecordRepository.GetWithRevision(ctx, recordUID)
	if err != nil {
		return err
	}

	if record.Status == target {
		// Idempotent re-application, e.g. a retried notify step.
		return nil
	}
	if record.Status != models.CallStatusPending {
		return domain.NewConflictError(
			fmt.Sprintf("invalid status transition from '%s' to '%s'", record.Status, target))
	}

	record.Status = target
	record.UpdatedAt = time.Now().UTC()
	if mutate != nil {
		mutate(record)
	}

	return s.callRecordRepository.Update(ctx, record, revision)
}

// ResetForReanalysis moves an evaluated or failed record back to pending so a
// forced reprocessing run can evaluate it again.
func (s *CallRecordService) ResetForReanalysis(ctx context.Context, recordUID string) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("call record service is not ready")
	}

	record, revision, err := s.callRecordRepository.GetWithRevision(ctx, recordUID)
	if err != nil {
		return err
	}

	if record.Status == models.CallStatusPending {
		return nil
	}

	record.Status = models.CallStatusPending
	record.EvaluationUID = ""
	record.UpdatedAt = time.Now().UTC()

	return s.callRecordRepository.Update(ctx, record, revision)
}
