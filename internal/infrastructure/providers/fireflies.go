// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package providers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// FirefliesAdapter normalizes Fireflies transcription webhook payloads.
type FirefliesAdapter struct {
	transcripts domain.TranscriptFetcher
}

// NewFirefliesAdapter creates a new Fireflies payload adapter.
func NewFirefliesAdapter(transcripts domain.TranscriptFetcher) *FirefliesAdapter {
	return &FirefliesAdapter{transcripts: transcripts}
}

// Provider returns the provider name the adapter handles.
func (a *FirefliesAdapter) Provider() string {
	return models.ProviderFireflies
}

// Normalize parses a Fireflies payload. The current shape nests the meeting
// object; older deliveries are flat.
func (a *FirefliesAdapter) Normalize(ctx context.Context, payload []byte) (*models.IngestedRecording, error) {
	var event models.FirefliesEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, domain.NewValidationError("malformed fireflies payload", err)
	}

	recording := &models.IngestedRecording{
		Provider:    models.ProviderFireflies,
		RawMetadata: rawMetadata(payload),
	}

	if meeting := event.Meeting; meeting != nil {
		recording.ExternalID = meeting.ID
		recording.Title = meeting.Title
		recording.OwnerEmail = meeting.HostEmail
		recording.OwnerName = meeting.HostName
		recording.StartTime = meeting.Date
		recording.ScheduledStartTime = meeting.ScheduledStart
		recording.EndTime = meeting.EndedAt
		recording.DurationMinutes = meeting.DurationMin
		recording.Transcript = meeting.TranscriptText
		recording.TranscriptURL = meeting.TranscriptURL
		recording.RecordingURL = meeting.MeetingURL

		for _, attendee := range meeting.Attendees {
			recording.Invitees = append(recording.Invitees, models.Invitee{
				Name:  attendee.DisplayName,
				Email: attendee.Email,
			})
		}
	} else {
		recording.ExternalID = event.MeetingID
		recording.Title = event.Title
		recording.OwnerEmail = event.HostEmail
		recording.StartTime = event.Date
		recording.ScheduledStartTime = event.Date
		recording.DurationMinutes = event.DurationMin
		recording.TranscriptURL = event.TranscriptURL

		for _, attendee := range event.Attendees {
			recording.Invitees = append(recording.Invitees, models.Invitee{
				Name:  attendee.DisplayName,
				Email: attendee.Email,
			})
		}
	}

	if recording.ScheduledStartTime.IsZero() {
		recording.ScheduledStartTime = recording.StartTime
	}
	if recording.EndTime.IsZero() && recording.DurationMinutes > 0 {
		recording.EndTime = recording.StartTime.Add(time.Duration(recording.DurationMinutes) * time.Minute)
	}

	if recording.ExternalID == "" {
		return nil, domain.NewValidationError("fireflies payload is missing a meeting ID")
	}
	if recording.OwnerEmail == "" && recording.OwnerName == "" {
		return nil, domain.NewValidationError("fireflies payload is missing a host identity")
	}

	recording.Invitees = markExternal(recording.Invitees, recording.OwnerEmail)

	if recording.Transcript == "" && recording.TranscriptURL != "" && a.transcripts != nil {
		transcript, err := a.transcripts.Fetch(ctx, recording.TranscriptURL)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch fireflies transcript",
				logging.ErrKey, err, "external_id", recording.ExternalID)
		} else {
			recording.Transcript = transcript
		}
	}

	return recording, nil
}
