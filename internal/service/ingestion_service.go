// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// Per-item ingestion result statuses reported back to the provider.
const (
	IngestStatusSuccess = "success"
	IngestStatusSkipped = "skipped"
	IngestStatusWarning = "warning"
	IngestStatusError   = "error"
)

// IngestResult is the per-item outcome of a webhook delivery. The endpoint
// returns one per payload item so providers do not retry items that were
// handled.
type IngestResult struct {
	ExternalID string `json:"external_id,omitempty"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}

// AdapterRegistry resolves the payload adapter for a provider name.
type AdapterRegistry interface {
	Get(provider string) (domain.ProviderAdapter, error)
}

// IngestionService turns one provider webhook payload item into a pending
// call record and emits the processing trigger. Malformed payloads, unknown
// owners and duplicates are expected occurrences, reported per item and never
// retried.
type IngestionService struct {
	adapters              AdapterRegistry
	identityService       *IdentityService
	dedupService          *DedupService
	callRecordRepository  domain.CallRecordRepository
	workflowRunRepository domain.WorkflowRunRepository
	orgSettingsRepository domain.OrgSettingsRepository
	eventSender           domain.CallEventSender
}

// NewIngestionService creates a new webhook ingestion service.
func NewIngestionService(
	adapters AdapterRegistry,
	identityService *IdentityService,
	dedupService *DedupService,
	callRecordRepository domain.CallRecordRepository,
	workflowRunRepository domain.WorkflowRunRepository,
	orgSettingsRepository domain.OrgSettingsRepository,
	eventSender domain.CallEventSender,
) *IngestionService {
	return &IngestionService{
		adapters:              adapters,
		identityService:       identityService,
		dedupService:          dedupService,
		callRecordRepository:  callRecordRepository,
		workflowRunRepository: workflowRunRepository,
		orgSettingsRepository: orgSettingsRepository,
		eventSender:           eventSender,
	}
}

// ServiceReady checks if the service is ready to ingest recordings.
func (s *IngestionService) ServiceReady() bool {
	return s.adapters != nil &&
		s.identityService != nil && s.identityService.ServiceReady() &&
		s.dedupService != nil && s.dedupService.ServiceReady() &&
		s.callRecordRepository != nil &&
		s.workflowRunRepository != nil &&
		s.orgSettingsRepository != nil &&
		s.eventSender != nil
}

// Ingest processes one payload item from the named provider's webhook.
func (s *IngestionService) Ingest(ctx context.Context, organizationID, provider string, payload []byte) IngestResult {
	if !s.ServiceReady() {
		return IngestResult{Status: IngestStatusError, Message: "service is not ready"}
	}

	adapter, err := s.adapters.Get(provider)
	if err != nil {
		return IngestResult{Status: IngestStatusError, Message: err.Error()}
	}

	recording, err := adapter.Normalize(ctx, payload)
	if err != nil {
		slog.WarnContext(ctx, "payload normalization failed",
			logging.ErrKey, err, "provider", provider)
		return IngestResult{Status: IngestStatusError, Message: err.Error()}
	}

	ctx = logging.AppendCtx(ctx, slog.String("provider", provider))
	ctx = logging.AppendCtx(ctx, slog.String("external_id", recording.ExternalID))

	settings, err := s.orgSettingsRepository.Get(ctx, organizationID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load org settings", logging.ErrKey, err)
		return IngestResult{ExternalID: recording.ExternalID, Status: IngestStatusError, Message: "failed to load organization settings"}
	}

	owner, matchedBy, err := s.identityService.Resolve(ctx, organizationID,
		recording.OwnerEmail, recording.OwnerName, settings.FallbackOwnerUID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			// Expected: recordings for people without accounts are dropped.
			slog.WarnContext(ctx, "no owner resolved for recording, skipping",
				"owner_email", recording.OwnerEmail, "owner_name", recording.OwnerName)
			return IngestResult{ExternalID: recording.ExternalID, Status: IngestStatusSkipped, Message: "no matching owner"}
		}
		slog.ErrorContext(ctx, "owner resolution failed", logging.ErrKey, err)
		return IngestResult{ExternalID: recording.ExternalID, Status: IngestStatusError, Message: "owner resolution failed"}
	}

	duplicate, err := s.dedupService.FindDuplicate(ctx, owner.UID, recording, settings.ScheduleWindow())
	if err != nil {
		slog.ErrorContext(ctx, "duplicate check failed", logging.ErrKey, err)
		return IngestResult{ExternalID: recording.ExternalID, Status: IngestStatusError, Message: "duplicate check failed"}
	}
	if duplicate != nil {
		slog.InfoContext(ctx, "recording already stored, skipping",
			"owner_uid", owner.UID, "duplicate_uid", duplicate.UID)
		return IngestResult{ExternalID: recording.ExternalID, Status: IngestStatusSkipped, Message: "duplicate recording"}
	}

	record := s.buildRecord(organizationID, owner.UID, recording)

	if err := s.callRecordRepository.Create(ctx, record); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			// A concurrent delivery of the same event won the insert race.
			slog.InfoContext(ctx, "recording already handled by concurrent delivery",
				"owner_uid", owner.UID)
			return IngestResult{ExternalID: recording.ExternalID, Status: IngestStatusSkipped, Message: "already handled"}
		}
		slog.ErrorContext(ctx, "failed to store call record", logging.ErrKey, err)
		return IngestResult{ExternalID: recording.ExternalID, Status: IngestStatusError, Message: "failed to store recording"}
	}

	slog.InfoContext(ctx, "stored call record",
		"call_record_uid", record.UID, "owner_uid", owner.UID, "matched_by", matchedBy)

	if err := s.eventSender.PublishCallProcessing(ctx, models.CallProcessingMessage{
		CallRecordUID: record.UID,
		Provider:      provider,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish processing trigger",
			logging.ErrKey, err, "call_record_uid", record.UID)
		// The record is durable but the provider will not retry a 200. A
		// suspended run that is already due hands the trigger to the scheduler.
		if scheduleErr := s.schedulePendingResume(ctx, record.UID); scheduleErr != nil {
			slog.ErrorContext(ctx, "failed to schedule processing resume",
				logging.ErrKey, scheduleErr, "call_record_uid", record.UID)
		}
		return IngestResult{ExternalID: recording.ExternalID, Status: IngestStatusWarning, Message: "stored, but processing trigger failed"}
	}

	return IngestResult{ExternalID: recording.ExternalID, Status: IngestStatusSuccess}
}

// schedulePendingResume creates the processing workflow run in a suspended
// state with a resume time in the past, so the next scheduler pass republishes
// the trigger this delivery failed to send.
func (s *IngestionService) schedulePendingResume(ctx context.Context, callRecordUID string) error {
	now := time.Now().UTC()
	run := &models.WorkflowRun{
		UID:        models.WorkflowRunKey(models.WorkflowKindCallProcessing, callRecordUID),
		Kind:       models.WorkflowKindCallProcessing,
		Status:     models.WorkflowRunStatusSuspended,
		SubjectUID: callRecordUID,
		ResumeAt:   &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.workflowRunRepository.Create(ctx, run); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			// A run already exists, so something else owns this record's
			// processing.
			return nil
		}
		return err
	}
	return nil
}

func (s *IngestionService) buildRecord(organizationID, ownerUID string, recording *models.IngestedRecording) *models.CallRecord {
	now := time.Now().UTC()
	record := &models.CallRecord{
		UID:                uuid.New().String(),
		OrganizationID:     organizationID,
		OwnerUID:           ownerUID,
		Status:             models.CallStatusPending,
		Title:              recording.Title,
		ScheduledStartTime: recording.ScheduledStartTime,
		StartTime:          recording.StartTime,
		EndTime:            recording.EndTime,
		DurationMinutes:    recording.DurationMinutes,
		Transcript:         recording.Transcript,
		RecordingURL:       recording.RecordingURL,
		ShareURL:           recording.ShareURL,
		Invitees:           recording.Invitees,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	record.SetExternalID(recording.Provider, recording.ExternalID)
	return record
}
