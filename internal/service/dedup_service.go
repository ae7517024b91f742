// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// DedupService decides whether a normalized recording has already been stored
// for its resolved owner. Checks are always scoped to one owner: the same
// meeting recorded for two co-hosts produces two independent records.
type DedupService struct {
	callRecordRepository domain.CallRecordRepository
}

// NewDedupService creates a new duplicate detection service.
func NewDedupService(callRecordRepository domain.CallRecordRepository) *DedupService {
	return &DedupService{
		callRecordRepository: callRecordRepository,
	}
}

// ServiceReady checks if the service is ready to detect duplicates.
func (s *DedupService) ServiceReady() bool {
	return s.callRecordRepository != nil
}

// FindDuplicate returns the existing call record the recording duplicates, or
// nil when it is new. The exact external ID lookup runs first; when it finds
// nothing, a schedule-fuzzy pass catches providers that re-post the same
// meeting under a different external ID.
func (s *DedupService) FindDuplicate(ctx context.Context, ownerUID string, recording *models.IngestedRecording, scheduleWindow time.Duration) (*models.CallRecord, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("dedup service is not ready")
	}

	if recording.ExternalID != "" {
		existing, err := s.callRecordRepository.GetByExternalID(ctx, ownerUID, recording.Provider, recording.ExternalID)
		if err == nil {
			return existing, nil
		}
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return nil, err
		}
	}

	return s.findScheduleFuzzy(ctx, ownerUID, recording, scheduleWindow)
}

func (s *DedupService) findScheduleFuzzy(ctx context.Context, ownerUID string, recording *models.IngestedRecording, scheduleWindow time.Duration) (*models.CallRecord, error) {
	if recording.ScheduledStartTime.IsZero() || len(recording.Invitees) == 0 {
		return nil, nil
	}

	existing, err := s.callRecordRepository.ListByOwner(ctx, ownerUID)
	if err != nil {
		return nil, err
	}

	for _, record := range existing {
		if record.ScheduledStartTime.IsZero() {
			continue
		}

		gap := record.ScheduledStartTime.Sub(recording.ScheduledStartTime)
		if gap < 0 {
			gap = -gap
		}
		if gap > scheduleWindow {
			continue
		}

		if record.SharesInviteeWith(recording.Invitees) {
			return record, nil
		}
	}

	return nil, nil
}
