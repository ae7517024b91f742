// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package providers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/pkg/utils"
)

// MeetGeekAdapter normalizes MeetGeek recording-ready webhook payloads.
// MeetGeek delivers transcripts inline, so the adapter never fetches.
type MeetGeekAdapter struct{}

// NewMeetGeekAdapter creates a new MeetGeek payload adapter.
func NewMeetGeekAdapter() *MeetGeekAdapter {
	return &MeetGeekAdapter{}
}

// Provider returns the provider name the adapter handles.
func (a *MeetGeekAdapter) Provider() string {
	return models.ProviderMeetGeek
}

// Normalize parses a MeetGeek payload. Current deliveries use recording_id
// with a nested host object and start/end timestamps; legacy deliveries use
// id, owner_email, duration_min and an invitees list.
func (a *MeetGeekAdapter) Normalize(ctx context.Context, payload []byte) (*models.IngestedRecording, error) {
	var event models.MeetGeekEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, domain.NewValidationError("malformed meetgeek payload", err)
	}

	recording := &models.IngestedRecording{
		Provider:      models.ProviderMeetGeek,
		Title:         event.Title,
		Transcript:    event.Transcript,
		TranscriptURL: event.TranscriptURL,
		RecordingURL:  event.RecordingURL,
		RawMetadata:   rawMetadata(payload),
	}

	recording.ExternalID = utils.CoalesceString(event.RecordingID, event.LegacyID)
	recording.OwnerEmail = utils.CoalesceString(event.Host.Email, event.LegacyOwnerEmail)
	recording.OwnerName = utils.CoalesceString(event.Host.Name, event.LegacyOwnerName)

	recording.ScheduledStartTime = event.ScheduledStart
	recording.StartTime = event.StartedAt
	recording.EndTime = event.EndedAt

	switch {
	case !event.StartedAt.IsZero() && !event.EndedAt.IsZero():
		recording.DurationMinutes = int(event.EndedAt.Sub(event.StartedAt).Round(time.Minute) / time.Minute)
	case event.LegacyDurationMin > 0:
		recording.DurationMinutes = event.LegacyDurationMin
		if !event.StartedAt.IsZero() {
			recording.EndTime = event.StartedAt.Add(time.Duration(event.LegacyDurationMin) * time.Minute)
		}
	}

	if recording.ScheduledStartTime.IsZero() {
		recording.ScheduledStartTime = recording.StartTime
	}

	attendees := event.Attendees
	if len(attendees) == 0 {
		attendees = event.LegacyInvitees
	}

	ownerDomain := emailDomain(recording.OwnerEmail)
	for _, attendee := range attendees {
		invitee := models.Invitee{
			Name:  attendee.Name,
			Email: attendee.Email,
		}
		if attendee.External != nil {
			invitee.External = *attendee.External
		} else if attendee.Email != "" && ownerDomain != "" {
			invitee.External = emailDomain(attendee.Email) != ownerDomain
		}
		recording.Invitees = append(recording.Invitees, invitee)
	}

	if recording.ExternalID == "" {
		return nil, domain.NewValidationError("meetgeek payload is missing a recording ID")
	}
	if recording.OwnerEmail == "" && recording.OwnerName == "" {
		return nil, domain.NewValidationError("meetgeek payload is missing an owner identity")
	}

	return recording, nil
}
