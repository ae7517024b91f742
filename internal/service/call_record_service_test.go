// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

func newCallRecordFixture(status models.CallStatus) (*CallRecordService, *fakeCallRecordRepo, *fakeEvaluationRepo) {
	records := newFakeCallRecordRepo()
	evaluations := newFakeEvaluationRepo()
	records.seed(&models.CallRecord{
		UID:            "rec-1",
		OrganizationID: "org-1",
		OwnerUID:       "user-1",
		Status:         status,
	})
	return NewCallRecordService(records, evaluations), records, evaluations
}

func TestAttachEvaluationTransitionsToEvaluated(t *testing.T) {
	svc, records, evaluations := newCallRecordFixture(models.CallStatusPending)

	err := svc.AttachEvaluation(context.Background(), "rec-1", &models.CallEvaluation{
		UID:           "eval-1",
		CallRecordUID: "rec-1",
		Outcome:       models.OutcomeClosedWon,
	})
	require.NoError(t, err)

	record, getErr := records.Get(context.Background(), "rec-1")
	require.NoError(t, getErr)
	assert.Equal(t, models.CallStatusEvaluated, record.Status)
	assert.Equal(t, "eval-1", record.EvaluationUID)

	_, getErr = evaluations.Get(context.Background(), "eval-1")
	assert.NoError(t, getErr)
}

func TestAttachEvaluationIdempotentWhenAlreadyEvaluated(t *testing.T) {
	svc, _, _ := newCallRecordFixture(models.CallStatusEvaluated)

	err := svc.AttachEvaluation(context.Background(), "rec-1", &models.CallEvaluation{
		UID:           "eval-2",
		CallRecordUID: "rec-1",
	})
	assert.NoError(t, err)
}

func TestAttachEvaluationRejectsFailedRecord(t *testing.T) {
	svc, _, _ := newCallRecordFixture(models.CallStatusFailed)

	err := svc.AttachEvaluation(context.Background(), "rec-1", &models.CallEvaluation{
		UID:           "eval-1",
		CallRecordUID: "rec-1",
	})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestMarkFailed(t *testing.T) {
	svc, records, _ := newCallRecordFixture(models.CallStatusPending)

	require.NoError(t, svc.MarkFailed(context.Background(), "rec-1"))

	record, getErr := records.Get(context.Background(), "rec-1")
	require.NoError(t, getErr)
	assert.Equal(t, models.CallStatusFailed, record.Status)
}

func TestResetForReanalysis(t *testing.T) {
	svc, records, _ := newCallRecordFixture(models.CallStatusEvaluated)
	seeded, _, _ := records.GetWithRevision(context.Background(), "rec-1")
	seeded.EvaluationUID = "eval-1"
	records.seed(seeded)

	require.NoError(t, svc.ResetForReanalysis(context.Background(), "rec-1"))

	record, getErr := records.Get(context.Background(), "rec-1")
	require.NoError(t, getErr)
	assert.Equal(t, models.CallStatusPending, record.Status)
	assert.Empty(t, record.EvaluationUID)
}

func TestResetForReanalysisPendingIsNoop(t *testing.T) {
	svc, _, _ := newCallRecordFixture(models.CallStatusPending)
	assert.NoError(t, svc.ResetForReanalysis(context.Background(), "rec-1"))
}
